// Package web exposes the engine over HTTP and websockets: a small REST
// API for control and inspection, an inbound socket for hand tracking
// frames, and an outbound socket fanning per-tick state to viewers.
//
// The server knows nothing about the simulation. The engine attaches
// itself through the callback fields before Start.
package web

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-grasp/pkg/hub"
	"github.com/teslashibe/go-grasp/pkg/protocol"
)

// StatusData is the /api/status response.
type StatusData struct {
	Service string `json:"service"`
	Running bool   `json:"running"`
	Preset  string `json:"preset"`
	Tick    uint64 `json:"tick"`
	Bodies  int    `json:"bodies"`
	Holding bool   `json:"holding"`
	Viewers int    `json:"viewers"`
	Uptime  string `json:"uptime"`
}

// Server is the engine's HTTP and websocket front end.
type Server struct {
	app  *fiber.App
	port string

	// stateHub fans per-tick state snapshots out to viewers.
	stateHub *hub.Hub

	// OnHandFrame receives every hand tracking frame from /ws/hands.
	OnHandFrame func(hand protocol.HandData)

	// OnReset rebuilds the scene from the named preset. An empty name
	// reloads the current preset.
	OnReset func(preset string) error

	// OnStatus reports the engine's current status. Viewers is filled
	// in by the server.
	OnStatus func() StatusData

	// OnBodies snapshots the current body states.
	OnBodies func() []protocol.BodyState

	// OnPresets lists available scene presets.
	OnPresets func() map[string]string

	// OnTuningGet returns the current tuning parameters.
	OnTuningGet func() interface{}

	// OnTuningApply applies a partial tuning update from a JSON body
	// and returns the resulting parameters.
	OnTuningApply func(body []byte) (interface{}, error)
}

// NewServer creates the web server and wires up its routes.
func NewServer(port string) *Server {
	s := &Server{
		port:     port,
		stateHub: hub.New("state"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "grasp engine",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/", s.handleRoot)

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/bodies", s.handleBodies)
	api.Get("/presets", s.handlePresets)
	api.Post("/reset", s.handleReset)
	api.Get("/tuning", s.handleTuningGet)
	api.Post("/tuning", s.handleTuningApply)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/hands", websocket.New(s.handleHandsWS))
	app.Get("/ws/state", websocket.New(s.handleStateWS))

	s.app = app
	return s
}

// Start runs the state hub and blocks serving HTTP until the listener
// fails or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	fmt.Printf("🌐 grasp engine listening on :%s\n", s.port)

	go s.stateHub.Run(ctx)

	return s.app.Listen(":" + s.port)
}

// StateHub returns the hub the engine broadcasts state snapshots into.
func (s *Server) StateHub() *hub.Hub {
	return s.stateHub
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
