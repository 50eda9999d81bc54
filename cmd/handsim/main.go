// handsim - scripted hand source for the grasp engine
// Replays a grab-carry-throw gesture cycle over /ws/hands, so the
// engine can be driven and demoed without a webcam or browser.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-grasp/internal/config"
	"github.com/teslashibe/go-grasp/internal/httpc"
	"github.com/teslashibe/go-grasp/pkg/gesture"
	"github.com/teslashibe/go-grasp/pkg/protocol"
)

const pingInterval = 5 * time.Second

func main() {
	host := flag.String("host", "localhost", "Engine host")
	port := flag.String("port", config.Port(config.DefaultPort), "Engine port")
	rate := flag.Float64("rate", 30, "Sample rate in Hz")
	cycle := flag.Duration("cycle", 4*time.Second, "Length of one gesture cycle")
	preset := flag.String("preset", "", "Reset the engine to this preset before starting")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Println("🖐️ handsim - scripted hand source")
	fmt.Printf("   Engine: %s:%s\n", *host, *port)
	fmt.Printf("   Rate: %.0fHz, cycle: %s\n", *rate, *cycle)

	if *preset != "" {
		url := config.EngineURL(*host, *port) + "/api/reset"
		if err := httpc.PostJSON(url, map[string]string{"preset": *preset}, nil); err != nil {
			log.Fatalf("❌ Reset failed: %v", err)
		}
		fmt.Printf("🔄 scene reset to %q\n", *preset)
	}

	url := config.EngineWSURL(*host, *port) + "/ws/hands"
	for ctx.Err() == nil {
		if err := run(ctx, url, *rate, *cycle); err != nil {
			fmt.Printf("⚠️ connection lost: %v\n", err)
		}
		select {
		case <-ctx.Done():
		case <-time.After(2 * time.Second):
		}
	}
	fmt.Println("\n👋 handsim stopped")
}

// run streams scripted samples over one connection until it drops or
// the context is cancelled.
func run(ctx context.Context, url string, rate float64, cycle time.Duration) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()
	fmt.Println("🔌 connected")

	// The server only talks back to answer pings; read to measure
	// latency and to notice the connection dropping.
	readErr := make(chan error, 1)
	go func() { readErr <- readPump(conn) }()

	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()
	pinger := time.NewTicker(pingInterval)
	defer pinger.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil

		case err := <-readErr:
			return err

		case <-pinger.C:
			if msg, err := protocol.NewPingMessage(uuid.NewString()); err == nil {
				conn.WriteJSON(msg)
			}

		case now := <-ticker.C:
			u := math.Mod(now.Sub(start).Seconds()/cycle.Seconds(), 1.0)
			sample := scriptSample(u)
			msg, err := protocol.NewHandMessage(sample, "Right", 0.97, now.UnixMilli())
			if err != nil {
				return err
			}
			if err := conn.WriteJSON(msg); err != nil {
				return fmt.Errorf("write: %w", err)
			}
		}
	}
}

// readPump consumes server messages and reports ping round trips.
func readPump(conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		msg, err := protocol.ParseMessage(data)
		if err != nil {
			continue
		}
		if msg.Type == protocol.TypePong {
			if pd, err := msg.GetPongData(); err == nil {
				rtt := time.Now().UnixMilli() - pd.PingTS
				fmt.Printf("📡 ping %dms\n", rtt)
			}
		}
	}
}

// scriptSample builds the landmark set for phase u of the gesture
// cycle: drift in with an open hand, pinch, carry the pinch across the
// view, fling away, open, then leave the frame.
func scriptSample(u float64) [][3]float64 {
	const depthMid = 0.5

	switch {
	case u < 0.25:
		// Drift toward the center, open hand, slight sway.
		p := u / 0.25
		sx := lerp(0.85, 0.5, p)
		sy := lerp(0.6, 0.5, p) + 0.02*math.Sin(p*2*math.Pi)
		return landmarksFor(sx, sy, depthMid, false)

	case u < 0.55:
		// Pinch and carry up-left.
		p := (u - 0.25) / 0.3
		sx := lerp(0.5, 0.35, p)
		sy := lerp(0.5, 0.4, p)
		return landmarksFor(sx, sy, depthMid, true)

	case u < 0.62:
		// Fling: fast push away from the camera.
		p := (u - 0.55) / 0.07
		sx := lerp(0.35, 0.3, p)
		sy := lerp(0.4, 0.38, p)
		return landmarksFor(sx, sy, lerp(depthMid, 0.75, p), true)

	case u < 0.7:
		// Open hand: the engine releases on this frame.
		return landmarksFor(0.3, 0.38, 0.75, false)

	default:
		// Hand leaves the frame.
		return nil
	}
}

// landmarksFor synthesizes a full hand for the wanted gesture state.
// sx, sy is the on-screen cursor position (already mirrored, as the
// viewer sees it) and depth the wanted normalized distance. The four
// knuckles sit together at one spread distance from the wrist, so the
// depth estimate follows a single invertible formula.
func landmarksFor(sx, sy, depth float64, pinching bool) [][3]float64 {
	tipX := 1 - sx

	lm := make([][3]float64, gesture.NumLandmarks)
	for i := range lm {
		lm[i] = [3]float64{tipX, sy, 0}
	}

	spread := (0.05 + (1-depth)*0.25) / 0.4
	for _, i := range []int{gesture.IndexMCP, gesture.MiddleMCP, gesture.RingMCP, gesture.PinkyMCP} {
		lm[i] = [3]float64{tipX + spread, sy, 0}
	}

	lm[gesture.IndexTip] = [3]float64{tipX, sy, 0}
	if pinching {
		lm[gesture.ThumbTip] = [3]float64{tipX, sy, 0}
	} else {
		lm[gesture.ThumbTip] = [3]float64{tipX - 0.12, sy + 0.08, 0}
	}
	return lm
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
