package net

import (
	"encoding/json"
	"errors"
	"fmt"

	"SketchBoard/internal/state"
)

// ErrUnknownEvent is returned for frames naming an event outside the
// canvas:update, canvas:erased, canvas:clear set.
var ErrUnknownEvent = errors.New("unknown event")

// Message is one websocket frame. The relay forwards frames byte for byte,
// so Sender and Seq arrive exactly as the origin stamped them.
type Message struct {
	Event    state.EventName `json:"event"`
	Snapshot state.Snapshot  `json:"snapshot,omitempty"`
	Sender   string          `json:"sender,omitempty"`
	Seq      uint64          `json:"seq,omitempty"`
}

// Encode marshals m.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMessage parses a frame and checks its event name.
func DecodeMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	if !m.Event.Valid() {
		return m, fmt.Errorf("%w: %q", ErrUnknownEvent, m.Event)
	}
	return m, nil
}

func (m Message) event() state.Event {
	return state.Event{Name: m.Event, Snapshot: m.Snapshot}
}
