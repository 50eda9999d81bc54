package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teslashibe/go-grasp/internal/log"
	"github.com/teslashibe/go-grasp/pkg/debug"
	"github.com/teslashibe/go-grasp/pkg/gesture"
	"github.com/teslashibe/go-grasp/pkg/interaction"
	"github.com/teslashibe/go-grasp/pkg/physics"
	"github.com/teslashibe/go-grasp/pkg/protocol"
	"github.com/teslashibe/go-grasp/pkg/scene"
	"github.com/teslashibe/go-grasp/pkg/web"
)

// App is the engine orchestrator. It owns every component and their
// lifecycle. One mutex serializes the tick loop against hand frames and
// API calls; everything the simulation touches happens under it.
type App struct {
	config Config

	mu          sync.Mutex
	world       *physics.World
	sampler     *gesture.Sampler
	controller  *interaction.Controller
	camera      scene.Camera
	colors      map[string]string
	preset      string
	tick        uint64
	prevFrame   gesture.Frame
	pendingHand *protocol.HandData
	handSeenAt  time.Time
	running     bool

	server  *web.Server
	started time.Time
}

// New creates the engine with the given configuration.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	debug.Enabled = cfg.Debug

	return &App{config: cfg}, nil
}

// Init builds the world, loads the startup scene and wires the web
// server. Call this after New and before Run.
func (a *App) Init() error {
	if debug.Enabled {
		log.Init("debug")
	} else {
		log.Init("info")
	}

	fmt.Println("🧤 grasp - hand gesture physics engine")
	fmt.Println("======================================")
	if debug.Enabled {
		fmt.Println("🐛 Debug mode enabled")
	}

	pcfg := physics.DefaultConfig()
	if a.config.Sim.VariableDamping {
		pcfg = physics.VariableRateConfig()
	}
	a.world = physics.NewWorld(pcfg)
	if a.config.Sim.Seed != 0 {
		a.world.Seed(a.config.Sim.Seed)
	}

	a.sampler = gesture.NewSampler()

	fmt.Printf("🎬 Loading scene %q... ", a.config.Scene.Preset)
	if err := a.loadPreset(a.config.Scene.Preset); err != nil {
		fmt.Println("❌")
		return fmt.Errorf("scene init: %w", err)
	}
	fmt.Println("✅")

	a.controller = interaction.NewController(interaction.DefaultConfig(), a.world, a.camera)

	a.server = web.NewServer(a.config.Server.Port)
	a.server.OnHandFrame = a.SubmitHand
	a.server.OnReset = a.ResetScene
	a.server.OnStatus = a.Status
	a.server.OnBodies = a.BodySnapshot
	a.server.OnPresets = a.Presets
	a.server.OnTuningGet = func() interface{} { return a.GetTuningParams() }
	a.server.OnTuningApply = a.applyTuningJSON

	a.started = time.Now()
	return nil
}

// loadPreset replaces the scene with the named preset. The caller must
// hold a.mu when the loop is running.
func (a *App) loadPreset(name string) error {
	p, err := scene.LoadEmbedded(name)
	if err != nil {
		return err
	}

	if a.controller != nil {
		a.controller.Reset()
	}
	a.world.Reset()
	a.colors = p.Populate(a.world)
	a.camera = p.Camera
	if a.controller != nil {
		a.controller.SetCamera(p.Camera)
	}
	a.preset = p.Name
	a.prevFrame = gesture.Frame{}
	return nil
}

// Run serves HTTP and drives the simulation loop until the context is
// cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.server.Start(ctx)
	})
	g.Go(func() error {
		a.loop(ctx)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return a.Shutdown()
	})

	return g.Wait()
}

// Shutdown stops the web server. The loop exits on its own when the
// run context is cancelled.
func (a *App) Shutdown() error {
	fmt.Println("\n👋 engine stopped")
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown()
}

// SubmitHand stores the newest sensor sample for the next tick. Frames
// arriving faster than the tick rate overwrite each other; the loop
// always consumes the latest one.
func (a *App) SubmitHand(hand protocol.HandData) {
	a.mu.Lock()
	a.pendingHand = &hand
	a.handSeenAt = time.Now()
	a.mu.Unlock()

	debug.TickLog("🖐️ hand frame ts=%d landmarks=%d\n", hand.Timestamp, len(hand.Landmarks))
}

// ResetScene rebuilds the scene. An empty name reloads the active
// preset.
func (a *App) ResetScene(preset string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if preset == "" {
		preset = a.preset
	}
	if err := a.loadPreset(preset); err != nil {
		return err
	}

	fmt.Printf("🔄 scene reset to %q\n", preset)
	a.broadcastEvent(protocol.NewResetEvent(preset))
	return nil
}

// Status reports the engine status for /api/status.
func (a *App) Status() web.StatusData {
	a.mu.Lock()
	defer a.mu.Unlock()

	return web.StatusData{
		Service: "grasp",
		Running: a.running,
		Preset:  a.preset,
		Tick:    a.tick,
		Bodies:  a.world.Count(),
		Holding: a.controller != nil && a.controller.State() == interaction.Holding,
		Uptime:  time.Since(a.started).Round(time.Second).String(),
	}
}

// BodySnapshot returns the current render state of every body.
func (a *App) BodySnapshot() []protocol.BodyState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bodyStatesLocked()
}

// Presets lists the embedded scene presets.
func (a *App) Presets() map[string]string {
	desc, err := scene.Descriptions()
	if err != nil {
		return map[string]string{}
	}
	return desc
}

// bodyStatesLocked converts the world's bodies to wire form. Caller
// holds a.mu.
func (a *App) bodyStatesLocked() []protocol.BodyState {
	bodies := a.world.Bodies()
	states := make([]protocol.BodyState, 0, len(bodies))
	for _, b := range bodies {
		states = append(states, protocol.BodyState{
			ID:          b.ID,
			Position:    [3]float64{b.Position.X, b.Position.Y, b.Position.Z},
			Rotation:    [3]float64{b.Rotation.X, b.Rotation.Y, b.Rotation.Z},
			Velocity:    [3]float64{b.Velocity.X, b.Velocity.Y, b.Velocity.Z},
			Radius:      b.Radius,
			Color:       a.colors[b.ID],
			Held:        b.Held,
			Highlighted: b.Highlighted,
		})
	}
	return states
}

// broadcastEvent sends a prebuilt event message to all viewers. Build
// errors only surface in debug logs; events are advisory.
func (a *App) broadcastEvent(msg *protocol.Message, err error) {
	if err != nil {
		debug.Log("⚠️ event build failed: %v\n", err)
		return
	}
	data, err := msg.Bytes()
	if err != nil {
		debug.Log("⚠️ event encode failed: %v\n", err)
		return
	}
	a.server.StateHub().Broadcast(data)
}
