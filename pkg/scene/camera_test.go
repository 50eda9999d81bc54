package scene

import (
	"math"
	"testing"

	"github.com/teslashibe/go-grasp/pkg/math3"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestCamera_RayThroughCenter(t *testing.T) {
	c := DefaultCamera()
	origin, dir := c.Ray(math3.V2(0.5, 0.5))

	if origin != c.Position {
		t.Errorf("ray origin = %+v, want camera position %+v", origin, c.Position)
	}
	if !floatEquals(dir.X, 0) || !floatEquals(dir.Y, 0) || !floatEquals(dir.Z, -1) {
		t.Errorf("center ray = %+v, want (0,0,-1)", dir)
	}
}

func TestCamera_RayDirections(t *testing.T) {
	c := DefaultCamera()

	// Screen-right bends the ray toward +X.
	_, right := c.Ray(math3.V2(1, 0.5))
	if right.X <= 0 {
		t.Errorf("screen-right ray has X=%v, want positive", right.X)
	}

	// Screen-top (y=0) bends the ray upward.
	_, up := c.Ray(math3.V2(0.5, 0))
	if up.Y <= 0 {
		t.Errorf("screen-top ray has Y=%v, want positive", up.Y)
	}

	if !floatEquals(right.Len(), 1) {
		t.Errorf("ray not unit length: %v", right.Len())
	}
}

func TestCamera_ProjectHand(t *testing.T) {
	c := DefaultCamera()

	// Center of screen: the target sits straight ahead at the depth
	// range endpoints.
	near := c.ProjectHand(math3.V2(0.5, 0.5), 0)
	if !floatEquals(near.Z, c.Position.Z-c.NearDepth) {
		t.Errorf("near target Z = %v, want %v", near.Z, c.Position.Z-c.NearDepth)
	}

	far := c.ProjectHand(math3.V2(0.5, 0.5), 1)
	if !floatEquals(far.Z, c.Position.Z-c.FarDepth) {
		t.Errorf("far target Z = %v, want %v", far.Z, c.Position.Z-c.FarDepth)
	}

	mid := c.ProjectHand(math3.V2(0.5, 0.5), 0.5)
	wantDist := c.NearDepth + 0.5*(c.FarDepth-c.NearDepth)
	if !floatEquals(c.Position.Distance(mid), wantDist) {
		t.Errorf("mid target distance = %v, want %v", c.Position.Distance(mid), wantDist)
	}
}

func TestCamera_ProjectHandOffCenter(t *testing.T) {
	c := DefaultCamera()

	p := c.ProjectHand(math3.V2(0.8, 0.5), 0.5)
	if p.X <= c.Position.X {
		t.Errorf("screen-right target X = %v, want right of camera", p.X)
	}

	// Distance along the ray is what the depth controls, irrespective
	// of screen position.
	wantDist := c.NearDepth + 0.5*(c.FarDepth-c.NearDepth)
	if !floatEquals(c.Position.Distance(p), wantDist) {
		t.Errorf("off-center target distance = %v, want %v", c.Position.Distance(p), wantDist)
	}
}

func TestIntersectSphere(t *testing.T) {
	origin := math3.V3(0, 0, 0)
	dir := math3.V3(0, 0, -1)

	tests := []struct {
		name   string
		center math3.Vec3
		radius float64
		wantT  float64
		wantOk bool
	}{
		{
			name:   "head-on hit",
			center: math3.V3(0, 0, -5),
			radius: 1,
			wantT:  4,
			wantOk: true,
		},
		{
			name:   "grazing miss",
			center: math3.V3(2, 0, -5),
			radius: 1,
			wantOk: false,
		},
		{
			name:   "behind the origin",
			center: math3.V3(0, 0, 5),
			radius: 1,
			wantOk: false,
		},
		{
			name:   "origin inside sphere",
			center: math3.V3(0, 0, 0),
			radius: 2,
			wantT:  2,
			wantOk: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotT, ok := IntersectSphere(origin, dir, tt.center, tt.radius)
			if ok != tt.wantOk {
				t.Fatalf("hit = %v, want %v", ok, tt.wantOk)
			}
			if ok && !floatEquals(gotT, tt.wantT) {
				t.Errorf("t = %v, want %v", gotT, tt.wantT)
			}
		})
	}
}

func TestIntersectSphere_OffAxis(t *testing.T) {
	// Ray offset by half a radius still clips the sphere.
	origin := math3.V3(0.5, 0, 0)
	dir := math3.V3(0, 0, -1)
	gotT, ok := IntersectSphere(origin, dir, math3.V3(0, 0, -5), 1)
	if !ok {
		t.Fatal("expected a hit")
	}

	// Chord geometry: the hit is sqrt(1 - 0.25) short of the center plane.
	want := 5 - math.Sqrt(0.75)
	if !floatEquals(gotT, want) {
		t.Errorf("t = %v, want %v", gotT, want)
	}
}
