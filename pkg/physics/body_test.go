package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/teslashibe/go-grasp/pkg/math3"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func vecEquals(a, b math3.Vec3) bool {
	return floatEquals(a.X, b.X) && floatEquals(a.Y, b.Y) && floatEquals(a.Z, b.Z)
}

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestRigidBody_GrabZeroesVelocities(t *testing.T) {
	b := &RigidBody{
		Velocity:        math3.V3(1, 2, 3),
		AngularVelocity: math3.V3(0.5, -0.5, 0.5),
		Radius:          0.25,
	}

	b.Grab()

	if !b.Held {
		t.Error("expected Held=true after Grab")
	}
	if !b.Highlighted {
		t.Error("expected Highlighted=true after Grab")
	}
	if !vecEquals(b.Velocity, math3.Vec3{}) {
		t.Errorf("velocity not zeroed: %+v", b.Velocity)
	}
	if !vecEquals(b.AngularVelocity, math3.Vec3{}) {
		t.Errorf("angular velocity not zeroed: %+v", b.AngularVelocity)
	}
}

func TestRigidBody_Release(t *testing.T) {
	cfg := DefaultConfig()
	b := &RigidBody{Radius: 0.25}
	b.Grab()

	b.Release(cfg, math3.V3(0, 0, 1), 15, testRand())

	if b.Held {
		t.Error("expected Held=false after Release")
	}
	if b.Highlighted {
		t.Error("expected Highlighted=false after Release")
	}
	if !vecEquals(b.Velocity, math3.V3(0, 0, 15)) {
		t.Errorf("velocity = %+v, want (0,0,15)", b.Velocity)
	}
	for _, s := range []float64{b.AngularVelocity.X, b.AngularVelocity.Y, b.AngularVelocity.Z} {
		if s < -cfg.ReleaseSpinMax || s > cfg.ReleaseSpinMax {
			t.Errorf("spin component %v outside ±%v", s, cfg.ReleaseSpinMax)
		}
	}
}

func TestRigidBody_ReleaseNormalizesDirection(t *testing.T) {
	cfg := DefaultConfig()
	b := &RigidBody{Radius: 0.25}
	b.Grab()

	// A non-unit direction must not scale the throw force.
	b.Release(cfg, math3.V3(0, 0, 10), 15, testRand())

	if !floatEquals(b.Velocity.Len(), 15) {
		t.Errorf("speed = %v, want 15", b.Velocity.Len())
	}
}

func TestRigidBody_ReleaseZeroDirection(t *testing.T) {
	cfg := DefaultConfig()
	b := &RigidBody{Radius: 0.25}
	b.Grab()

	b.Release(cfg, math3.Vec3{}, 15, testRand())

	if b.Held {
		t.Error("expected Held=false after Release")
	}
	if !vecEquals(b.Velocity, math3.Vec3{}) {
		t.Errorf("zero direction must leave velocity untouched, got %+v", b.Velocity)
	}
}

func TestRigidBody_IntegrateGravity(t *testing.T) {
	cfg := DefaultConfig()
	dt := 1.0 / 60.0
	b := &RigidBody{Position: math3.V3(0, 5, 0), Radius: 0.25}

	b.Integrate(cfg, dt, nil)

	// One tick of free fall: gravity, advance, then damping.
	vy := -cfg.Gravity * dt
	wantY := 5 + vy*dt
	wantVy := vy * cfg.LinearDamping

	if !floatEquals(b.Position.Y, wantY) {
		t.Errorf("Position.Y = %v, want %v", b.Position.Y, wantY)
	}
	if !floatEquals(b.Velocity.Y, wantVy) {
		t.Errorf("Velocity.Y = %v, want %v", b.Velocity.Y, wantVy)
	}
}

func TestRigidBody_IntegrateAdvancesRotation(t *testing.T) {
	cfg := DefaultConfig()
	dt := 1.0 / 60.0
	b := &RigidBody{
		Position:        math3.V3(0, 5, 0),
		AngularVelocity: math3.V3(1.2, 0, 0),
		Radius:          0.25,
	}

	b.Integrate(cfg, dt, nil)

	if !floatEquals(b.Rotation.X, 1.2*dt) {
		t.Errorf("Rotation.X = %v, want %v", b.Rotation.X, 1.2*dt)
	}
	if !floatEquals(b.AngularVelocity.X, 1.2*cfg.AngularDamping) {
		t.Errorf("AngularVelocity.X = %v, want %v", b.AngularVelocity.X, 1.2*cfg.AngularDamping)
	}
}

func TestRigidBody_HeldFollowsTarget(t *testing.T) {
	cfg := DefaultConfig()
	dt := 1.0 / 60.0
	b := &RigidBody{Position: math3.V3(0, 2, 0), Radius: 0.25}
	b.Grab()

	target := math3.V3(1, 2, 0)
	b.Integrate(cfg, dt, &target)

	// One tick closes 80% of the gap.
	if !floatEquals(b.Position.X, 0.8) {
		t.Errorf("Position.X = %v, want 0.8", b.Position.X)
	}

	b.Integrate(cfg, dt, &target)
	if !floatEquals(b.Position.X, 0.96) {
		t.Errorf("Position.X = %v, want 0.96", b.Position.X)
	}

	// Held bodies never pick up gravity.
	if !vecEquals(b.Velocity, math3.Vec3{}) {
		t.Errorf("held body gained velocity: %+v", b.Velocity)
	}
}

func TestRigidBody_HeldWithoutTargetStaysPut(t *testing.T) {
	cfg := DefaultConfig()
	b := &RigidBody{Position: math3.V3(1, 2, 3), Radius: 0.25}
	b.Grab()

	b.Integrate(cfg, 1.0/60.0, nil)

	if !vecEquals(b.Position, math3.V3(1, 2, 3)) {
		t.Errorf("position moved without a target: %+v", b.Position)
	}
}

func TestRigidBody_HeldNeverBelowGround(t *testing.T) {
	cfg := DefaultConfig()
	b := &RigidBody{Position: math3.V3(0, 1, 0), Radius: 0.25}
	b.Grab()

	// Hand target below the floor: the body rides the ground instead.
	target := math3.V3(0, -2, 0)
	for i := 0; i < 20; i++ {
		b.Integrate(cfg, 1.0/60.0, &target)
	}

	if b.Position.Y < cfg.GroundY+b.Radius {
		t.Errorf("held body sank below ground: y=%v", b.Position.Y)
	}
}

func TestRigidBody_GroundBounce(t *testing.T) {
	cfg := DefaultConfig()
	dt := 1.0 / 60.0
	b := &RigidBody{
		Position:        math3.V3(0, 0.26, 0),
		Velocity:        math3.V3(1, -2, 0),
		AngularVelocity: math3.V3(2, 0, 0),
		Radius:          0.25,
	}

	b.Integrate(cfg, dt, nil)

	if !floatEquals(b.Position.Y, cfg.GroundY+b.Radius) {
		t.Errorf("Position.Y = %v, want %v", b.Position.Y, cfg.GroundY+b.Radius)
	}
	if b.Velocity.Y <= 0 {
		t.Errorf("vertical velocity not inverted: %v", b.Velocity.Y)
	}

	// Impact speed is the damped fall speed; the bounce keeps half of it
	// and friction bleeds the roll.
	impactVy := (-2 - cfg.Gravity*dt) * cfg.LinearDamping
	if !floatEquals(b.Velocity.Y, -impactVy*cfg.GroundRestitution) {
		t.Errorf("Velocity.Y = %v, want %v", b.Velocity.Y, -impactVy*cfg.GroundRestitution)
	}
	if !floatEquals(b.Velocity.X, 1*cfg.LinearDamping*cfg.GroundFriction) {
		t.Errorf("Velocity.X = %v, want %v", b.Velocity.X, 1*cfg.LinearDamping*cfg.GroundFriction)
	}
	if !floatEquals(b.AngularVelocity.X, 2*cfg.AngularDamping*cfg.GroundAngularDamping) {
		t.Errorf("AngularVelocity.X = %v, want %v", b.AngularVelocity.X, 2*cfg.AngularDamping*cfg.GroundAngularDamping)
	}
}

func TestRigidBody_WallBounce(t *testing.T) {
	cfg := DefaultConfig()
	dt := 1.0 / 60.0
	b := &RigidBody{
		Position: math3.V3(9.7, 5, 0),
		Velocity: math3.V3(4, 0, 0),
		Radius:   0.25,
	}

	b.Integrate(cfg, dt, nil)

	bound := cfg.ArenaHalfExtent - b.Radius
	if !floatEquals(b.Position.X, bound) {
		t.Errorf("Position.X = %v, want %v", b.Position.X, bound)
	}
	if !floatEquals(b.Velocity.X, -4*cfg.LinearDamping*cfg.WallRestitution) {
		t.Errorf("Velocity.X = %v, want %v", b.Velocity.X, -4*cfg.LinearDamping*cfg.WallRestitution)
	}
}

func TestDampingFactor(t *testing.T) {
	// Per-tick mode ignores dt entirely.
	if got := dampingFactor(0.98, 1.0/120.0, false); !floatEquals(got, 0.98) {
		t.Errorf("per-tick factor = %v, want 0.98", got)
	}

	// Continuous mode matches the per-tick factor at the base rate.
	if got := dampingFactor(0.98, 1.0/BaseTickRate, true); math.Abs(got-0.98) > 1e-12 {
		t.Errorf("continuous factor at base rate = %v, want 0.98", got)
	}

	// Two half-steps decay exactly as much as one full step.
	half := dampingFactor(0.98, 1.0/120.0, true)
	full := dampingFactor(0.98, 1.0/60.0, true)
	if math.Abs(half*half-full) > 1e-12 {
		t.Errorf("half-step² = %v, full step = %v", half*half, full)
	}
}
