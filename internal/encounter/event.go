package encounter

import (
	"encoding/json"
	"fmt"
)

// Event records a command together with the round it was issued in.
type Event struct {
	Round   int
	Command Command
}

type eventRecord struct {
	Round  int             `json:"round"`
	Action json.RawMessage `json:"action"`
}

// MarshalJSON encodes the event as {"round":N,"action":{...}}.
func (e Event) MarshalJSON() ([]byte, error) {
	action, err := MarshalCommand(e.Command)
	if err != nil {
		return nil, err
	}
	return json.Marshal(eventRecord{Round: e.Round, Action: action})
}

// UnmarshalJSON decodes the layout written by MarshalJSON.
func (e *Event) UnmarshalJSON(data []byte) error {
	var rec eventRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	cmd, err := UnmarshalCommand(rec.Action)
	if err != nil {
		return err
	}
	e.Round = rec.Round
	e.Command = cmd
	return nil
}

// History is the append-only event log. Only Pop removes entries, and only
// from the tail.
type History struct {
	events []Event
}

// NewHistory creates a history seeded with the given events.
func NewHistory(events ...Event) *History {
	h := &History{events: make([]Event, 0, len(events)+16)}
	for _, evt := range events {
		h.Push(evt)
	}
	return h
}

// Push appends an event to the tail.
func (h *History) Push(evt Event) {
	evt.Command = cloneCommand(evt.Command)
	h.events = append(h.events, evt)
}

// Pop removes the tail event.
func (h *History) Pop() (Event, bool) {
	if len(h.events) == 0 {
		return Event{}, false
	}
	idx := len(h.events) - 1
	evt := h.events[idx]
	h.events = h.events[:idx]
	return evt, true
}

// Peek returns the tail event without removing it.
func (h *History) Peek() (Event, bool) {
	if len(h.events) == 0 {
		return Event{}, false
	}
	return h.events[len(h.events)-1], true
}

// List returns a copy of all events, oldest first.
func (h *History) List() []Event {
	cpy := make([]Event, len(h.events))
	for i, evt := range h.events {
		evt.Command = cloneCommand(evt.Command)
		cpy[i] = evt
	}
	return cpy
}

// Len returns the number of logged events.
func (h *History) Len() int {
	return len(h.events)
}
