// Package audit provides the async diagnostic event channel for the
// lifecycle resolver: the canonical event model, pluggable sinks, and a
// buffered dispatcher with a drop counter.
//
// # Architecture boundaries
//
// Resolution code emits events; sinks consume them. Dispatch is
// fire-and-forget: a slow or failing sink can drop events (counted), it can
// never slow down or fail a resolution.
package audit

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Event types emitted by the resolver.
const (
	TypeResolved           = "lifecycle.resolved"
	TypeLookupDegraded     = "lifecycle.lookup_degraded"
	TypeFallbackTaken      = "lifecycle.fallback_taken"
	TypeInvariantViolation = "lifecycle.invariant_violation"
)

// Event is the canonical diagnostic event model.
type Event struct {
	Timestamp    time.Time         `json:"timestamp"`
	EventType    string            `json:"event_type"`
	ResolutionID string            `json:"resolution_id,omitempty"`
	PrincipalID  string            `json:"principal_id,omitempty"`
	OrgID        string            `json:"org_id,omitempty"`
	State        string            `json:"state,omitempty"`
	Detail       string            `json:"detail,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Sink receives emitted events.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink drops events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink writes events into a buffered channel for test and pipeline
// consumers.
type ChannelSink struct {
	events chan Event
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan Event, buffer)}
}

func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

func (s *JSONWriterSink) Emit(_ context.Context, event Event) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.writer.Write(append(data, '\n'))
}
