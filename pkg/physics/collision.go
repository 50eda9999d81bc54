package physics

import (
	"math/rand"
	"time"
)

// CheckCollision reports whether a and b overlap and the contact is not
// debounced. A body that collided less than cfg.CollisionDebounce ago is
// still in the same contact, so the pair is skipped; on a hit the first
// body is stamped with now as its collision time.
func CheckCollision(a, b *RigidBody, now time.Time, cfg Config) bool {
	dist := a.Position.Distance(b.Position)
	if dist >= a.Radius+b.Radius {
		return false
	}
	if now.Sub(a.lastCollision) < cfg.CollisionDebounce {
		return false
	}
	a.lastCollision = now
	return true
}

// ResolveCollision applies an impulse along the contact normal and pushes
// the pair apart. Separating pairs and coincident centers are skipped;
// the latter has no defined normal.
func ResolveCollision(a, b *RigidBody, cfg Config, rng *rand.Rand) {
	delta := a.Position.Sub(b.Position)
	dist := delta.Len()
	if dist == 0 {
		return
	}
	normal := delta.Scale(1 / dist)

	relVel := a.Velocity.Sub(b.Velocity)
	vn := relVel.Dot(normal)
	if vn >= 0 {
		return
	}

	// Equal unit masses, so the impulse splits evenly.
	j := -(1 + cfg.BodyRestitution) * vn / 2
	a.Velocity = a.Velocity.Add(normal.Scale(j))
	b.Velocity = b.Velocity.Sub(normal.Scale(j))

	// Push the overlap apart so resting contacts do not sink into each
	// other between ticks.
	penetration := (a.Radius + b.Radius) - dist
	if penetration > 0 {
		correction := normal.Scale(penetration * cfg.PositionalCorrection / 2)
		a.Position = a.Position.Add(correction)
		b.Position = b.Position.Sub(correction)
		// The push-apart must not shove either body through the floor.
		if a.Position.Y < cfg.GroundY+a.Radius {
			a.Position.Y = cfg.GroundY + a.Radius
		}
		if b.Position.Y < cfg.GroundY+b.Radius {
			b.Position.Y = cfg.GroundY + b.Radius
		}
	}

	// A touch of random spin reads better than two spheres bouncing
	// with frozen rotation.
	a.AngularVelocity = a.AngularVelocity.Add(randomSpin(rng, cfg.CollisionSpin))
	b.AngularVelocity = b.AngularVelocity.Add(randomSpin(rng, cfg.CollisionSpin))
}
