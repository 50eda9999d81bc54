package protocol

import "time"

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewHandMessage creates a hand landmark message. landmarks may be nil
// for an absent hand.
func NewHandMessage(landmarks [][3]float64, handedness string, score float64, frameTS int64) (*Message, error) {
	return NewMessage(TypeHand, HandData{
		Landmarks:  landmarks,
		Handedness: handedness,
		Score:      score,
		Timestamp:  frameTS,
	})
}

// NewResetMessage creates a scene reset request.
func NewResetMessage(preset string) (*Message, error) {
	return NewMessage(TypeReset, ResetData{Preset: preset})
}

// NewStateMessage creates a world snapshot message.
func NewStateMessage(state StateData) (*Message, error) {
	return NewMessage(TypeState, state)
}

// NewGrabEvent creates a grab notification.
func NewGrabEvent(bodyID string) (*Message, error) {
	return NewMessage(TypeEvent, EventData{Kind: EventGrab, Body: bodyID})
}

// NewReleaseEvent creates a release notification with the throw.
func NewReleaseEvent(bodyID string, direction [3]float64, force float64) (*Message, error) {
	return NewMessage(TypeEvent, EventData{
		Kind:      EventRelease,
		Body:      bodyID,
		Direction: direction,
		Force:     force,
	})
}

// NewResetEvent creates a scene reset notification.
func NewResetEvent(preset string) (*Message, error) {
	return NewMessage(TypeEvent, EventData{Kind: EventReset, Preset: preset})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{ID: id, Timestamp: time.Now().UnixMilli()})
}

// NewPongMessage creates a pong response
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// =============================================================================
// Helper functions for extracting message data
// =============================================================================

// GetHandData extracts hand data from a hand message
func (m *Message) GetHandData() (*HandData, error) {
	var data HandData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetResetData extracts reset data from a reset message
func (m *Message) GetResetData() (*ResetData, error) {
	var data ResetData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStateData extracts state data from a state message
func (m *Message) GetStateData() (*StateData, error) {
	var data StateData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetEventData extracts event data from an event message
func (m *Message) GetEventData() (*EventData, error) {
	var data EventData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a ping message
func (m *Message) GetPingData() (*PingData, error) {
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a pong message
func (m *Message) GetPongData() (*PongData, error) {
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
