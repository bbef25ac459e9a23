package events

import (
	"context"
	"sync"
)

// Recorded is one captured event.
type Recorded struct {
	InstitutionID string
	Type          EventType
	Payload       map[string]any
}

// Recorder keeps every emitted event in memory. Test sink.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(_ context.Context, institutionID string, eventType EventType, payload map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{InstitutionID: institutionID, Type: eventType, Payload: payload})
}

// Events returns a copy of everything captured so far.
func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.events))
	copy(out, r.events)
	return out
}

// OfType filters captured events by type.
func (r *Recorder) OfType(t EventType) []Recorded {
	var out []Recorded
	for _, ev := range r.Events() {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}
