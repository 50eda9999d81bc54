// Package interaction turns gesture frames into grab, carry, and throw
// actions on the physics world. One controller drives one hand; it runs
// strictly once per tick and owns the idle/holding state machine.
package interaction

import (
	"math"
	"sort"

	"github.com/teslashibe/go-grasp/pkg/gesture"
	"github.com/teslashibe/go-grasp/pkg/math3"
	"github.com/teslashibe/go-grasp/pkg/physics"
	"github.com/teslashibe/go-grasp/pkg/scene"
)

// State is the controller's manipulation state.
type State int

const (
	// Idle means no body is held.
	Idle State = iota
	// Holding means a body is pinned to the hand.
	Holding
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Holding:
		return "holding"
	default:
		return "unknown"
	}
}

// TickResult reports what one Update did, for broadcast and logging.
// Grabbed and Released carry body ids and are empty on ticks without a
// transition. Target is the hand's world point while a body is held.
type TickResult struct {
	Grabbed   string
	Released  string
	Direction math3.Vec3 // Throw direction, set when Released is non-empty
	Force     float64    // Throw force, set when Released is non-empty
	Target    *math3.Vec3
	Hover     []string // Grabbable body ids under the open hand, closest first
}

// Controller is the gesture-to-physics state machine.
type Controller struct {
	cfg     Config
	world   *physics.World
	camera  scene.Camera
	state   State
	heldID  string
	history *History
}

// NewController returns an idle controller operating on the given world
// through the given camera.
func NewController(cfg Config, world *physics.World, camera scene.Camera) *Controller {
	return &Controller{
		cfg:     cfg,
		world:   world,
		camera:  camera,
		history: NewHistory(cfg.HistoryCapacity, cfg.HistoryMinStep),
	}
}

// State returns the current machine state.
func (c *Controller) State() State {
	return c.state
}

// Config returns the active interaction parameters.
func (c *Controller) Config() Config {
	return c.cfg
}

// SetConfig swaps the interaction parameters. The motion history keeps
// the capacity it was built with.
func (c *Controller) SetConfig(cfg Config) {
	c.cfg = cfg
	c.history.minStep = cfg.HistoryMinStep
}

// HeldID returns the id of the held body, empty when idle.
func (c *Controller) HeldID() string {
	return c.heldID
}

// SetCamera swaps the camera, e.g. after a preset change.
func (c *Controller) SetCamera(camera scene.Camera) {
	c.camera = camera
}

// Reset forces the controller back to idle without throwing. The held
// body, if any, is dropped in place.
func (c *Controller) Reset() {
	if c.heldID != "" {
		c.world.Drop(c.heldID)
	}
	c.state = Idle
	c.heldID = ""
	c.history.Clear()
}

// Update advances the state machine by one tick. dt is the tick length
// in seconds, used only for throw-force inference.
//
// A hand that disappears mid-hold releases immediately, on the first
// absent frame, throwing with whatever motion history existed.
func (c *Controller) Update(frame gesture.Frame, dt float64) TickResult {
	var res TickResult

	if c.state == Holding {
		if !frame.Present || !frame.Grabbing {
			c.release(dt, &res)
			return res
		}
		target := c.camera.ProjectHand(frame.Position, frame.Depth)
		c.history.Push(target)
		res.Target = &target
		return res
	}

	if !frame.Present {
		return res
	}

	if !frame.Grabbing {
		for _, b := range c.candidates(frame) {
			res.Hover = append(res.Hover, b.ID)
		}
		return res
	}

	cands := c.candidates(frame)
	if len(cands) == 0 {
		return res
	}
	body := cands[0]
	if !c.world.Grab(body.ID) {
		return res
	}

	point := c.camera.ProjectHand(frame.Position, frame.Depth)
	c.state = Holding
	c.heldID = body.ID
	c.history.Clear()
	c.history.Push(point)
	res.Grabbed = body.ID
	res.Target = &point
	return res
}

// release throws the held body and returns the machine to idle.
func (c *Controller) release(dt float64, res *TickResult) {
	dir, force := c.throw(dt)
	c.world.Release(c.heldID, dir, force)
	res.Released = c.heldID
	res.Direction = dir
	res.Force = force

	c.state = Idle
	c.heldID = ""
	c.history.Clear()
}

// throw infers the release direction and force from the motion history.
// Sideways and depth motion is exaggerated and the direction always has
// some lift, so even a flat swipe produces a visible arc.
func (c *Controller) throw(dt float64) (math3.Vec3, float64) {
	if c.history.Len() >= 2 {
		v := c.history.Last().Sub(c.history.First())
		if v.Len() > c.cfg.MinThrowDistance {
			dir := math3.V3(
				v.X*c.cfg.ThrowAmplifyXZ,
				math.Max(v.Y, c.cfg.ThrowMinLift),
				v.Z*c.cfg.ThrowAmplifyXZ,
			).Normalize()

			force := c.cfg.BaseThrowForce
			if dt > 0 {
				speed := v.Len() / (float64(c.history.Len()) * dt)
				force = clamp(speed,
					c.cfg.BaseThrowForce*c.cfg.ForceFloor,
					c.cfg.BaseThrowForce*c.cfg.ForceCeil)
			}
			return dir, force
		}
	}
	return c.defaultThrow()
}

// defaultThrow is the no-usable-motion fallback: a gentle toss away from
// the camera. If the configured direction is degenerate, the camera's
// forward vector with enforced lift takes over.
func (c *Controller) defaultThrow() (math3.Vec3, float64) {
	dir := c.cfg.DefaultThrowDirection
	if dir.LenSq() == 0 {
		dir = c.camera.Forward()
		if dir.Y < c.cfg.ThrowMinLift {
			dir.Y = c.cfg.ThrowMinLift
		}
	}
	return dir.Normalize(), c.cfg.BaseThrowForce
}

// candidates returns the non-held bodies a grab at this frame would
// consider, closest first. A body qualifies if the hand's view ray hits
// it or its center is within GrabRadius of the hand's projected point.
// Both sources rank on the same metric, center distance to that point,
// so the merged order is deterministic; ties break on id.
func (c *Controller) candidates(frame gesture.Frame) []*physics.RigidBody {
	point := c.camera.ProjectHand(frame.Position, frame.Depth)
	origin, dir := c.camera.Ray(frame.Position)

	var out []*physics.RigidBody
	for _, b := range c.world.Bodies() {
		if b.Held {
			continue
		}
		_, rayHit := scene.IntersectSphere(origin, dir, b.Position, b.Radius)
		if rayHit || b.Position.Distance(point) < c.cfg.GrabRadius {
			out = append(out, b)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		di := out[i].Position.Distance(point)
		dj := out[j].Position.Distance(point)
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// clamp limits a value to a range
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
