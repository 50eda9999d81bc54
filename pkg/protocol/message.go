// Package protocol defines the WebSocket message types between the
// engine and the browser: hand landmark frames in, world state and
// interaction events out. Vectors travel as [x,y,z] triples to keep
// per-tick state messages compact.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Browser → Engine messages
	TypeHand  MessageType = "hand"  // Hand landmark frame
	TypeReset MessageType = "reset" // Respawn the scene

	// Engine → Browser messages
	TypeState MessageType = "state" // Per-tick world snapshot
	TypeEvent MessageType = "event" // Grab/release/reset notification

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// =============================================================================
// Browser → Engine Message Types
// =============================================================================

// HandData carries one sensor sample. Landmarks is empty when no hand is
// tracked; when present it holds 21 normalized [x,y,z] points in the
// MediaPipe hand layout.
type HandData struct {
	Landmarks  [][3]float64 `json:"landmarks,omitempty"`
	Handedness string       `json:"handedness,omitempty"`
	Score      float64      `json:"score,omitempty"`
	Timestamp  int64        `json:"frame_ts"` // Video presentation time, ms
}

// ResetData asks the engine to respawn the scene.
type ResetData struct {
	Preset string `json:"preset,omitempty"` // Empty keeps the active preset
}

// =============================================================================
// Engine → Browser Message Types
// =============================================================================

// BodyState is one body's render state.
type BodyState struct {
	ID          string     `json:"id"`
	Position    [3]float64 `json:"pos"`
	Rotation    [3]float64 `json:"rot"`
	Velocity    [3]float64 `json:"vel"`
	Radius      float64    `json:"radius"`
	Color       string     `json:"color,omitempty"`
	Held        bool       `json:"held,omitempty"`
	Highlighted bool       `json:"highlighted,omitempty"`
}

// HandState is the engine's view of the hand, for cursor rendering.
type HandState struct {
	Present  bool       `json:"present"`
	Screen   [2]float64 `json:"screen"` // Normalized, X mirrored
	World    [3]float64 `json:"world"`  // Projected hand point
	Grabbing bool       `json:"grabbing"`
	Depth    float64    `json:"depth"`
}

// StateData is the per-tick snapshot broadcast to every viewer.
type StateData struct {
	Tick   uint64      `json:"tick"`
	Preset string      `json:"preset,omitempty"`
	Mode   string      `json:"mode"` // "idle" or "holding"
	Bodies []BodyState `json:"bodies"`
	Hand   *HandState  `json:"hand,omitempty"`
	Held   string      `json:"held,omitempty"`  // Id of the held body
	Hover  []string    `json:"hover,omitempty"` // Grabbable ids under the open hand
}

// Event kinds.
const (
	EventGrab    = "grab"
	EventRelease = "release"
	EventReset   = "reset"
)

// EventData is an interaction transition notification.
type EventData struct {
	Kind      string     `json:"kind"`
	Body      string     `json:"body,omitempty"`
	Direction [3]float64 `json:"dir"`   // Throw direction, release only
	Force     float64    `json:"force"` // Throw force, release only
	Preset    string     `json:"preset,omitempty"`
}

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// PingData contains ping information
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
