package web

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-grasp/internal/log"
	"github.com/teslashibe/go-grasp/pkg/hub"
	"github.com/teslashibe/go-grasp/pkg/protocol"
)

// handleRoot describes the service and its endpoints.
func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "grasp engine",
		"endpoints": []string{
			"GET /api/status",
			"GET /api/bodies",
			"GET /api/presets",
			"POST /api/reset",
			"GET /api/tuning",
			"POST /api/tuning",
			"WS /ws/hands",
			"WS /ws/state",
		},
	})
}

// handleStatus returns the engine's current status.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	if s.OnStatus == nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Status not configured",
		})
	}
	status := s.OnStatus()
	status.Viewers = s.stateHub.ClientCount()
	return c.JSON(status)
}

// handleBodies returns a snapshot of every body in the scene.
func (s *Server) handleBodies(c *fiber.Ctx) error {
	if s.OnBodies == nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Body snapshot not configured",
		})
	}
	return c.JSON(s.OnBodies())
}

// handlePresets lists the available scene presets.
func (s *Server) handlePresets(c *fiber.Ctx) error {
	if s.OnPresets == nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Presets not configured",
		})
	}
	return c.JSON(s.OnPresets())
}

// ResetRequest is the request body for resetting the scene.
type ResetRequest struct {
	Preset string `json:"preset"`
}

// handleReset rebuilds the scene, optionally switching presets.
func (s *Server) handleReset(c *fiber.Ctx) error {
	var req ResetRequest
	if err := c.BodyParser(&req); err != nil {
		req.Preset = ""
	}

	if s.OnReset == nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Reset not configured",
		})
	}

	if err := s.OnReset(req.Preset); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"reset":  true,
		"preset": req.Preset,
	})
}

// handleTuningGet returns the current tuning parameters.
func (s *Server) handleTuningGet(c *fiber.Ctx) error {
	if s.OnTuningGet == nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Tuning not configured",
		})
	}
	return c.JSON(s.OnTuningGet())
}

// handleTuningApply applies a partial tuning update.
func (s *Server) handleTuningApply(c *fiber.Ctx) error {
	if s.OnTuningApply == nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Tuning not configured",
		})
	}

	result, err := s.OnTuningApply(c.Body())
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(result)
}

// handleHandsWS receives hand tracking frames from a sensor client.
// The read loop owns the connection, so ping replies are written
// inline.
func (s *Server) handleHandsWS(c *websocket.Conn) {
	fmt.Printf("🖐️ hand source connected from %s\n", c.RemoteAddr())
	defer func() {
		c.Close()
		fmt.Printf("🖐️ hand source disconnected\n")
	}()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			// A broken sensor repeats at frame rate; keep the noise down.
			log.ErrorEvery(5*time.Second, "hands-parse", "unparseable hand frame", "err", err)
			continue
		}

		switch msg.Type {
		case protocol.TypeHand:
			hand, err := msg.GetHandData()
			if err != nil || s.OnHandFrame == nil {
				continue
			}
			s.OnHandFrame(*hand)

		case protocol.TypeReset:
			reset, err := msg.GetResetData()
			if err != nil || s.OnReset == nil {
				continue
			}
			s.OnReset(reset.Preset)

		case protocol.TypePing:
			if pong, ok := pongFor(msg); ok {
				c.WriteMessage(websocket.TextMessage, pong)
			}
		}
	}
}

// handleStateWS attaches a viewer to the state hub. Inbound traffic is
// limited to pings; everything else is ignored.
func (s *Server) handleStateWS(c *websocket.Conn) {
	client := hub.NewClient(s.stateHub, c)
	client.OnMessage(func(data []byte) {
		msg, err := protocol.ParseMessage(data)
		if err != nil || msg.Type != protocol.TypePing {
			return
		}
		if pong, ok := pongFor(msg); ok {
			client.Send(pong)
		}
	})
	client.Run()
}

// pongFor builds the pong reply for a ping message.
func pongFor(ping *protocol.Message) ([]byte, bool) {
	pd, err := ping.GetPingData()
	if err != nil {
		return nil, false
	}
	pong, err := protocol.NewPongMessage(pd.ID, pd.Timestamp, time.Now().UnixMilli())
	if err != nil {
		return nil, false
	}
	data, err := pong.Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}
