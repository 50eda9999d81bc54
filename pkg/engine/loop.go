package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/teslashibe/go-grasp/internal/log"
	"github.com/teslashibe/go-grasp/pkg/debug"
	"github.com/teslashibe/go-grasp/pkg/gesture"
	"github.com/teslashibe/go-grasp/pkg/interaction"
	"github.com/teslashibe/go-grasp/pkg/protocol"
)

const (
	// handTimeout marks the sensor stale. Without fresh frames the
	// engine behaves as if the hand left the view, which releases any
	// held body instead of freezing it mid-air.
	handTimeout = 500 * time.Millisecond

	// maxTickDelta caps the measured step after a stall (laptop sleep,
	// long GC pause) so bodies do not tunnel through the floor.
	maxTickDelta = 0.1

	// heartbeatTicks is the status log cadence, ~5s at 60Hz.
	heartbeatTicks = 300
)

// loop drives the simulation at the configured tick rate until the
// context is cancelled.
func (a *App) loop(ctx context.Context) {
	interval := time.Duration(float64(time.Second) / a.config.Sim.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fmt.Printf("⚙️ simulation loop started (%.0fHz)\n", a.config.Sim.TickRate)

	a.mu.Lock()
	a.running = true
	a.mu.Unlock()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			a.mu.Lock()
			a.running = false
			a.mu.Unlock()
			fmt.Println("⚙️ simulation loop stopped")
			return

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if dt > maxTickDelta {
				dt = maxTickDelta
			}
			a.step(now, dt)
		}
	}
}

// step runs one simulation tick: sample the hand, advance the
// interaction state machine, integrate physics, broadcast.
func (a *App) step(now time.Time, dt float64) {
	a.mu.Lock()

	hand, timestamp := a.currentHand(now)
	frame := a.sampler.Sample(hand, timestamp, a.prevFrame)
	result := a.controller.Update(frame, dt)
	a.world.Step(dt, result.Target)
	a.prevFrame = frame
	a.tick++

	state := a.stateLocked(frame, result)
	tick := a.tick
	bodies := len(state.Bodies)

	a.mu.Unlock()

	if msg, err := protocol.NewStateMessage(state); err != nil {
		log.ErrorEvery(5*time.Second, "state-marshal", "state snapshot marshal failed", "err", err)
	} else if data, err := msg.Bytes(); err != nil {
		log.ErrorEvery(5*time.Second, "state-encode", "state snapshot encode failed", "err", err)
	} else {
		a.server.StateHub().Broadcast(data)
	}

	if result.Grabbed != "" {
		fmt.Printf("🤏 grabbed %s\n", result.Grabbed)
		a.broadcastEvent(protocol.NewGrabEvent(result.Grabbed))
	}
	if result.Released != "" {
		fmt.Printf("🚀 released %s dir=(%.2f, %.2f, %.2f) force=%.1f\n",
			result.Released, result.Direction.X, result.Direction.Y, result.Direction.Z, result.Force)
		a.broadcastEvent(protocol.NewReleaseEvent(
			result.Released,
			[3]float64{result.Direction.X, result.Direction.Y, result.Direction.Z},
			result.Force,
		))
	}

	if tick%heartbeatTicks == 0 {
		fmt.Printf("⚙️ tick=%d bodies=%d state=%s viewers=%d\n",
			tick, bodies, state.Mode, a.server.StateHub().ClientCount())
	}

	debug.TickLog("⚙️ tick=%d dt=%.4f present=%v grabbing=%v\n",
		tick, dt, frame.Present, frame.Grabbing)
}

// currentHand returns the newest sensor sample, or nil when none has
// arrived recently. Caller holds a.mu.
func (a *App) currentHand(now time.Time) (*gesture.Hand, int64) {
	if a.pendingHand == nil || now.Sub(a.handSeenAt) > handTimeout {
		return nil, 0
	}
	return handFromData(a.pendingHand), a.pendingHand.Timestamp
}

// handFromData converts a wire sample to the gesture package's hand.
// A sample without landmarks means the tracker sees no hand.
func handFromData(hd *protocol.HandData) *gesture.Hand {
	if hd == nil || len(hd.Landmarks) == 0 {
		return nil
	}
	landmarks := make([]gesture.Landmark, len(hd.Landmarks))
	for i, p := range hd.Landmarks {
		landmarks[i] = gesture.Landmark{X: p[0], Y: p[1], Z: p[2]}
	}
	return &gesture.Hand{
		Landmarks:  landmarks,
		Handedness: hd.Handedness,
		Score:      hd.Score,
	}
}

// stateLocked assembles the per-tick broadcast snapshot. Caller holds
// a.mu.
func (a *App) stateLocked(frame gesture.Frame, result interaction.TickResult) protocol.StateData {
	var hand *protocol.HandState
	if frame.Present {
		world := a.camera.ProjectHand(frame.Position, frame.Depth)
		hand = &protocol.HandState{
			Present:  true,
			Screen:   [2]float64{frame.Position.X, frame.Position.Y},
			World:    [3]float64{world.X, world.Y, world.Z},
			Grabbing: frame.Grabbing,
			Depth:    frame.Depth,
		}
	}

	return protocol.StateData{
		Tick:   a.tick,
		Preset: a.preset,
		Mode:   a.controller.State().String(),
		Bodies: a.bodyStatesLocked(),
		Hand:   hand,
		Held:   a.controller.HeldID(),
		Hover:  result.Hover,
	}
}
