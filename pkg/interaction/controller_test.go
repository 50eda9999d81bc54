package interaction

import (
	"math"
	"testing"

	"github.com/teslashibe/go-grasp/pkg/gesture"
	"github.com/teslashibe/go-grasp/pkg/math3"
	"github.com/teslashibe/go-grasp/pkg/physics"
	"github.com/teslashibe/go-grasp/pkg/scene"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func vecEquals(a, b math3.Vec3) bool {
	return floatEquals(a.X, b.X) && floatEquals(a.Y, b.Y) && floatEquals(a.Z, b.Z)
}

func testController() (*Controller, *physics.World) {
	w := physics.NewWorld(physics.DefaultConfig())
	c := NewController(DefaultConfig(), w, scene.DefaultCamera())
	return c, w
}

// handAt is the world point the default camera projects the screen
// center to at mid depth. Bodies placed here are dead ahead of the hand.
func handAt() math3.Vec3 {
	return scene.DefaultCamera().ProjectHand(math3.V2(0.5, 0.5), 0.5)
}

func grabbingFrame() gesture.Frame {
	return gesture.Frame{
		Position: math3.V2(0.5, 0.5),
		Grabbing: true,
		Depth:    0.5,
		Present:  true,
	}
}

func openFrame() gesture.Frame {
	f := grabbingFrame()
	f.Grabbing = false
	return f
}

func TestController_GrabsClosestCandidate(t *testing.T) {
	c, w := testController()
	near := w.SpawnAt(handAt(), 0.25)
	far := w.SpawnAt(handAt().Add(math3.V3(0.8, 0, 0)), 0.25)

	res := c.Update(grabbingFrame(), 1.0/60.0)

	if res.Grabbed != near.ID {
		t.Fatalf("grabbed %q, want the closer body %q", res.Grabbed, near.ID)
	}
	if !near.Held {
		t.Error("grabbed body not marked held")
	}
	if far.Held {
		t.Error("far body must stay free")
	}
	if c.State() != Holding {
		t.Errorf("state = %v, want holding", c.State())
	}
	if res.Target == nil {
		t.Error("grab tick must supply a hand target")
	}
}

func TestController_GrabTieBreaksOnID(t *testing.T) {
	c, w := testController()
	a := w.SpawnAt(handAt().Add(math3.V3(0.3, 0, 0)), 0.25)
	b := w.SpawnAt(handAt().Add(math3.V3(-0.3, 0, 0)), 0.25)

	res := c.Update(grabbingFrame(), 1.0/60.0)

	want := a.ID
	if b.ID < want {
		want = b.ID
	}
	if res.Grabbed != want {
		t.Errorf("equidistant grab picked %q, want lower id %q", res.Grabbed, want)
	}
}

func TestController_NoCandidatesStaysIdle(t *testing.T) {
	c, w := testController()
	w.SpawnAt(math3.V3(8, 0.25, 8), 0.25)

	res := c.Update(grabbingFrame(), 1.0/60.0)

	if res.Grabbed != "" {
		t.Errorf("grabbed %q with nothing in reach", res.Grabbed)
	}
	if c.State() != Idle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestController_HoverMarksWithoutGrabbing(t *testing.T) {
	c, w := testController()
	b := w.SpawnAt(handAt(), 0.25)

	res := c.Update(openFrame(), 1.0/60.0)

	if len(res.Hover) != 1 || res.Hover[0] != b.ID {
		t.Errorf("hover = %v, want [%s]", res.Hover, b.ID)
	}
	if b.Held || c.State() != Idle {
		t.Error("hover must not change any state")
	}
}

func TestController_HoldingSuppliesTarget(t *testing.T) {
	c, w := testController()
	w.SpawnAt(handAt(), 0.25)
	c.Update(grabbingFrame(), 1.0/60.0)

	f := grabbingFrame()
	f.Position = math3.V2(0.6, 0.4)
	res := c.Update(f, 1.0/60.0)

	if res.Target == nil {
		t.Fatal("holding tick must supply a target")
	}
	want := scene.DefaultCamera().ProjectHand(f.Position, f.Depth)
	if !vecEquals(*res.Target, want) {
		t.Errorf("target = %+v, want %+v", *res.Target, want)
	}
}

func TestController_DefaultThrowRoundTrip(t *testing.T) {
	c, w := testController()
	b := w.SpawnAt(handAt(), 0.25)

	c.Update(grabbingFrame(), 1.0/60.0)
	res := c.Update(openFrame(), 1.0/60.0)

	// No recorded motion: the throw is the fixed gentle toss.
	if res.Released != b.ID {
		t.Fatalf("released %q, want %q", res.Released, b.ID)
	}
	wantDir := math3.V3(0, 0.3, -1).Normalize()
	if !vecEquals(res.Direction, wantDir) {
		t.Errorf("direction = %+v, want %+v", res.Direction, wantDir)
	}
	if !floatEquals(res.Force, 15) {
		t.Errorf("force = %v, want 15", res.Force)
	}
	if !vecEquals(b.Velocity, wantDir.Scale(15)) {
		t.Errorf("velocity = %+v, want %+v", b.Velocity, wantDir.Scale(15))
	}
	if c.State() != Idle || c.HeldID() != "" {
		t.Error("controller must return to idle after release")
	}
}

func TestController_ThrowInference(t *testing.T) {
	c, _ := testController()

	// Hand moved half a unit in depth across two samples.
	c.history.Push(math3.V3(0, 0, 0))
	c.history.Push(math3.V3(0, 0, 0.5))

	dir, force := c.throw(0.016)

	if !floatEquals(force, 0.5/(2*0.016)) {
		t.Errorf("force = %v, want %v", force, 0.5/(2*0.016))
	}

	// Depth amplified 2.5x, lift floored at 0.2.
	wantDir := math3.V3(0, 0.2, 1.25).Normalize()
	if !vecEquals(dir, wantDir) {
		t.Errorf("direction = %+v, want %+v", dir, wantDir)
	}
}

func TestController_ThrowForceClamps(t *testing.T) {
	c, _ := testController()
	cfg := c.cfg

	// A slow 6cm drift infers a speed well under the floor.
	c.history.Push(math3.V3(0, 0, 0))
	c.history.Push(math3.V3(0, 0, 0.06))
	_, force := c.throw(0.016)
	if !floatEquals(force, cfg.BaseThrowForce*cfg.ForceFloor) {
		t.Errorf("slow throw force = %v, want floor %v", force, cfg.BaseThrowForce*cfg.ForceFloor)
	}

	// A violent 3-unit swipe pegs the ceiling.
	c.history.Clear()
	c.history.Push(math3.V3(0, 0, 0))
	c.history.Push(math3.V3(0, 0, 3))
	_, force = c.throw(0.016)
	if !floatEquals(force, cfg.BaseThrowForce*cfg.ForceCeil) {
		t.Errorf("fast throw force = %v, want ceiling %v", force, cfg.BaseThrowForce*cfg.ForceCeil)
	}
}

func TestController_TinyMotionFallsBackToDefault(t *testing.T) {
	c, _ := testController()

	// Two samples but barely any travel: treated as a drop.
	c.history.Push(math3.V3(0, 0, 0))
	c.history.Push(math3.V3(0.02, 0, 0))

	dir, force := c.throw(0.016)

	if !vecEquals(dir, math3.V3(0, 0.3, -1).Normalize()) {
		t.Errorf("direction = %+v, want the default toss", dir)
	}
	if !floatEquals(force, 15) {
		t.Errorf("force = %v, want base 15", force)
	}
}

func TestController_DegenerateDefaultUsesCameraForward(t *testing.T) {
	w := physics.NewWorld(physics.DefaultConfig())
	cfg := DefaultConfig()
	cfg.DefaultThrowDirection = math3.Vec3{}
	c := NewController(cfg, w, scene.DefaultCamera())

	dir, _ := c.defaultThrow()

	// Camera forward with lift forced in, then normalized.
	want := math3.V3(0, cfg.ThrowMinLift, -1).Normalize()
	if !vecEquals(dir, want) {
		t.Errorf("direction = %+v, want %+v", dir, want)
	}
	if dir.Y <= 0 {
		t.Error("fallback throw must keep some lift")
	}
}

func TestController_ReleasesOnFirstAbsentFrame(t *testing.T) {
	c, w := testController()
	b := w.SpawnAt(handAt(), 0.25)
	c.Update(grabbingFrame(), 1.0/60.0)

	// Carry the hand upward for a couple of ticks.
	f := grabbingFrame()
	f.Position = math3.V2(0.5, 0.4)
	c.Update(f, 1.0/60.0)
	f.Position = math3.V2(0.5, 0.3)
	c.Update(f, 1.0/60.0)

	// Tracking loss: the very first absent frame must release.
	res := c.Update(gesture.Frame{}, 1.0/60.0)

	if res.Released != b.ID {
		t.Fatalf("released %q, want %q on first absent frame", res.Released, b.ID)
	}
	if c.HeldID() != "" || c.State() != Idle {
		t.Error("controller still holding after tracking loss")
	}
	if b.Held {
		t.Error("body still held after tracking loss")
	}

	// The upward carry must show in the inferred throw.
	if b.Velocity.Y <= 0 {
		t.Errorf("throw ignored recorded motion: velocity %+v", b.Velocity)
	}

	// Following absent frames are quiet no-ops.
	res = c.Update(gesture.Frame{}, 1.0/60.0)
	if res.Released != "" || res.Grabbed != "" {
		t.Errorf("idle absent frame produced transitions: %+v", res)
	}
}

func TestController_HeldBodyExcludedFromCandidates(t *testing.T) {
	c, w := testController()
	held := w.SpawnAt(handAt(), 0.25)
	other := w.SpawnAt(handAt().Add(math3.V3(0.6, 0, 0)), 0.25)
	c.Update(grabbingFrame(), 1.0/60.0)

	if c.HeldID() != held.ID {
		t.Fatalf("setup: expected %q held", held.ID)
	}

	cands := c.candidates(grabbingFrame())
	for _, b := range cands {
		if b.ID == held.ID {
			t.Error("held body offered as a grab candidate")
		}
	}
	if len(cands) != 1 || cands[0].ID != other.ID {
		t.Errorf("candidates = %d bodies, want just the free one", len(cands))
	}
}

func TestController_Reset(t *testing.T) {
	c, w := testController()
	b := w.SpawnAt(handAt(), 0.25)
	c.Update(grabbingFrame(), 1.0/60.0)

	c.Reset()

	if c.State() != Idle || c.HeldID() != "" {
		t.Error("reset must return the controller to idle")
	}
	if b.Held {
		t.Error("reset must free the held body")
	}
	if !vecEquals(b.Velocity, math3.Vec3{}) {
		t.Errorf("reset must drop in place, got velocity %+v", b.Velocity)
	}
}
