// Package scene owns the viewer-facing side of the simulation: the camera
// model that turns normalized hand coordinates into world-space rays and
// points, and the embedded scene presets that populate the arena.
package scene

import (
	"math"

	"github.com/teslashibe/go-grasp/pkg/math3"
)

// Camera is a fixed pinhole camera looking down -Z. Screen coordinates
// are normalized [0,1]x[0,1] with Y growing downward, matching the hand
// sensor's landmark convention.
type Camera struct {
	Position math3.Vec3
	FOV      float64 // Horizontal field of view in radians
	Aspect   float64 // Width over height

	// NearDepth and FarDepth bound the held-target distance: a hand
	// depth of 0 places the target NearDepth units out, 1 places it
	// FarDepth units out.
	NearDepth float64
	FarDepth  float64
}

// DefaultCamera returns the camera the arena was laid out for: slightly
// raised, looking straight into the play volume.
func DefaultCamera() Camera {
	return Camera{
		Position:  math3.V3(0, 2, 8),
		FOV:       math.Pi / 3,
		Aspect:    16.0 / 9.0,
		NearDepth: 2,
		FarDepth:  7,
	}
}

// Forward returns the camera's view direction.
func (c Camera) Forward() math3.Vec3 {
	return math3.V3(0, 0, -1)
}

// Ray returns the unit ray from the camera through the given screen
// point.
func (c Camera) Ray(screen math3.Vec2) (origin, dir math3.Vec3) {
	halfW := math.Tan(c.FOV / 2)
	halfH := halfW / c.Aspect
	dir = math3.V3(
		(screen.X-0.5)*2*halfW,
		(0.5-screen.Y)*2*halfH,
		-1,
	).Normalize()
	return c.Position, dir
}

// ProjectHand maps a screen position plus a normalized depth estimate to
// the world point a held body should track.
func (c Camera) ProjectHand(screen math3.Vec2, depth float64) math3.Vec3 {
	dist := c.NearDepth + depth*(c.FarDepth-c.NearDepth)
	origin, dir := c.Ray(screen)
	return origin.Add(dir.Scale(dist))
}

// IntersectSphere returns the distance along the ray to the sphere, and
// whether it hits at all. dir must be unit length. A ray starting inside
// the sphere hits the far shell.
func IntersectSphere(origin, dir, center math3.Vec3, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	disc := b*b - (oc.LenSq() - radius*radius)
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
