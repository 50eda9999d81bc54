package physics

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-grasp/pkg/math3"
)

// Spawn placement: candidates are drawn from a box well inside the walls
// so fresh bodies never start in contact with the arena bounds.
const (
	maxSpawnTries = 32
	spawnExtent   = 3.0
	spawnHeight   = 2.0
)

// World owns the simulated bodies and drives them through ticks. It is
// not safe for concurrent use; the engine serializes all access under
// its tick loop.
type World struct {
	cfg    Config
	bodies []*RigidBody
	rng    *rand.Rand
	now    func() time.Time
}

// NewWorld returns an empty world using cfg.
func NewWorld(cfg Config) *World {
	return &World{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// Seed reseeds the world's random source, making spawn placement and
// spin assignment reproducible.
func (w *World) Seed(seed int64) {
	w.rng = rand.New(rand.NewSource(seed))
}

// Config returns the active simulation parameters.
func (w *World) Config() Config {
	return w.cfg
}

// SetConfig swaps the simulation parameters. Takes effect next tick.
func (w *World) SetConfig(cfg Config) {
	w.cfg = cfg
}

// SpawnAt adds a body of the given radius at an explicit position.
func (w *World) SpawnAt(pos math3.Vec3, radius float64) *RigidBody {
	b := &RigidBody{
		ID:       uuid.NewString(),
		Position: pos,
		Radius:   radius,
		Mass:     1,
	}
	w.bodies = append(w.bodies, b)
	return b
}

// Spawn adds a body of the given radius at a random collision-free spot.
// Placement is rejection-sampled; if every try overlaps an existing body
// the last candidate is used anyway, since an initial overlap resolves
// itself on the first ticks.
func (w *World) Spawn(radius float64) *RigidBody {
	var pos math3.Vec3
	for try := 0; try < maxSpawnTries; try++ {
		pos = math3.V3(
			(w.rng.Float64()*2-1)*spawnExtent,
			w.cfg.GroundY+radius+w.rng.Float64()*spawnHeight,
			(w.rng.Float64()*2-1)*spawnExtent,
		)
		if w.clearAt(pos, radius) {
			break
		}
	}
	return w.SpawnAt(pos, radius)
}

func (w *World) clearAt(pos math3.Vec3, radius float64) bool {
	for _, b := range w.bodies {
		if pos.Distance(b.Position) < radius+b.Radius {
			return false
		}
	}
	return true
}

// Bodies returns the live body slice in spawn order. Callers must treat
// it as read-only.
func (w *World) Bodies() []*RigidBody {
	return w.bodies
}

// Body returns the body with the given id, or nil.
func (w *World) Body(id string) *RigidBody {
	for _, b := range w.bodies {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Count returns the number of bodies.
func (w *World) Count() int {
	return len(w.bodies)
}

// Reset removes every body. The caller is expected to respawn a scene.
func (w *World) Reset() {
	w.bodies = nil
}

// Grab marks the identified body as held. Returns false when the id is
// unknown or the body is already held.
func (w *World) Grab(id string) bool {
	b := w.Body(id)
	if b == nil || b.Held {
		return false
	}
	b.Grab()
	return true
}

// Release throws the identified body. Returns false when the id is
// unknown or the body is not held.
func (w *World) Release(id string, direction math3.Vec3, force float64) bool {
	b := w.Body(id)
	if b == nil || !b.Held {
		return false
	}
	b.Release(w.cfg, direction, force, w.rng)
	return true
}

// Drop releases the identified body in place, with no throw and no spin.
func (w *World) Drop(id string) bool {
	b := w.Body(id)
	if b == nil || !b.Held {
		return false
	}
	b.Held = false
	b.Highlighted = false
	return true
}

// Step advances the whole world by dt seconds: every body integrates,
// then all pairs of free bodies are checked and resolved. heldTarget is
// the hand's world position for whichever body is held, nil when nothing
// is held.
//
// The pair sweep is O(n²). Fine for the handful of bodies a scene spawns;
// a spatial index is needed before the roster grows past a few dozen.
func (w *World) Step(dt float64, heldTarget *math3.Vec3) {
	for _, b := range w.bodies {
		var target *math3.Vec3
		if b.Held {
			target = heldTarget
		}
		b.Integrate(w.cfg, dt, target)
	}

	now := w.now()
	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			a, b := w.bodies[i], w.bodies[j]
			if a.Held || b.Held {
				continue
			}
			if CheckCollision(a, b, now, w.cfg) {
				ResolveCollision(a, b, w.cfg, w.rng)
			}
		}
	}
}
