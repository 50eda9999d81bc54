// Package physics simulates spherical rigid bodies inside a walled arena:
// symplectic Euler integration, ground and wall bounces, pairwise impulse
// collision response, and a hand-follow mode for bodies held by the user.
package physics

import (
	"math"
	"math/rand"
	"time"

	"github.com/teslashibe/go-grasp/pkg/math3"
)

// RigidBody is one simulated sphere. All fields are in world units; the
// engine mutates bodies only inside the tick, so no locking happens here.
type RigidBody struct {
	ID              string
	Position        math3.Vec3
	Velocity        math3.Vec3
	AngularVelocity math3.Vec3
	Rotation        math3.Vec3 // Euler angles, advanced by AngularVelocity
	Radius          float64
	Mass            float64 // Fixed at 1 for every body in this scope
	Held            bool
	Highlighted     bool

	lastCollision time.Time
}

// Grab pins the body to the hand: velocities zero out and stay zero until
// release, and the body is flagged for highlight rendering.
func (b *RigidBody) Grab() {
	b.Held = true
	b.Highlighted = true
	b.Velocity = math3.Vec3{}
	b.AngularVelocity = math3.Vec3{}
}

// Release lets the body go with the given throw. A zero-length direction
// leaves velocity untouched; callers are expected to guard, this is the
// backstop. The random spin is cosmetic, to make thrown bodies tumble.
func (b *RigidBody) Release(cfg Config, direction math3.Vec3, force float64, rng *rand.Rand) {
	b.Held = false
	b.Highlighted = false
	if direction.LenSq() > 0 {
		b.Velocity = direction.Normalize().Scale(force)
	}
	b.AngularVelocity = randomSpin(rng, cfg.ReleaseSpinMax)
}

// Integrate advances the body by dt seconds. Held bodies do not simulate:
// they lerp toward heldTarget (nil leaves them in place) and keep zero
// velocities. Free bodies integrate gravity, damp, then collide with the
// ground plane and arena walls.
func (b *RigidBody) Integrate(cfg Config, dt float64, heldTarget *math3.Vec3) {
	if b.Held {
		if heldTarget != nil {
			b.Position = b.Position.Lerp(*heldTarget, cfg.HeldLerpFactor)
		}
		if b.Position.Y < cfg.GroundY+b.Radius {
			b.Position.Y = cfg.GroundY + b.Radius
		}
		return
	}

	b.Velocity.Y -= cfg.Gravity * dt
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.Rotation = b.Rotation.Add(b.AngularVelocity.Scale(dt))

	b.Velocity = b.Velocity.Scale(dampingFactor(cfg.LinearDamping, dt, cfg.FrameRateIndependentDamping))
	b.AngularVelocity = b.AngularVelocity.Scale(dampingFactor(cfg.AngularDamping, dt, cfg.FrameRateIndependentDamping))

	// Ground plane
	if b.Position.Y < cfg.GroundY+b.Radius {
		b.Position.Y = cfg.GroundY + b.Radius
		b.Velocity.Y = -b.Velocity.Y * cfg.GroundRestitution
		b.Velocity.X *= cfg.GroundFriction
		b.Velocity.Z *= cfg.GroundFriction
		b.AngularVelocity = b.AngularVelocity.Scale(cfg.GroundAngularDamping)
	}

	// Arena walls
	bound := cfg.ArenaHalfExtent - b.Radius
	if b.Position.X > bound {
		b.Position.X = bound
		b.Velocity.X = -b.Velocity.X * cfg.WallRestitution
	} else if b.Position.X < -bound {
		b.Position.X = -bound
		b.Velocity.X = -b.Velocity.X * cfg.WallRestitution
	}
	if b.Position.Z > bound {
		b.Position.Z = bound
		b.Velocity.Z = -b.Velocity.Z * cfg.WallRestitution
	} else if b.Position.Z < -bound {
		b.Position.Z = -bound
		b.Velocity.Z = -b.Velocity.Z * cfg.WallRestitution
	}
}

// dampingFactor returns the velocity multiplier for one step. perTick is
// the factor tuned at BaseTickRate; in continuous mode it is converted to
// an exponential decay rate so the half-life is the same at any dt.
func dampingFactor(perTick, dt float64, continuous bool) float64 {
	if !continuous {
		return perTick
	}
	return math.Exp(math.Log(perTick) * dt * BaseTickRate)
}

// randomSpin returns an angular velocity uniform in [-max, max] per axis.
func randomSpin(rng *rand.Rand, max float64) math3.Vec3 {
	return math3.V3(
		(rng.Float64()*2-1)*max,
		(rng.Float64()*2-1)*max,
		(rng.Float64()*2-1)*max,
	)
}
