// Package audit delivers human-readable notices about ledger activity to
// whatever sink the deployment configures.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	TypePollCreated = "poll_created"
	TypeVoteCast    = "vote_cast"
	TypePollClosed  = "poll_closed"
)

type Event struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	PollID uint64    `json:"poll_id"`
	Actor  string    `json:"actor"`
	Detail string    `json:"detail"`
	At     time.Time `json:"at"`
}

// Sink receives one event per committed create/vote/close. Emit is called
// after the transaction commits; it must not fail the operation.
type Sink interface {
	Emit(e Event)
}

func NewEvent(eventType string, pollID uint64, actor, detail string) Event {
	return Event{
		ID:     uuid.NewString(),
		Type:   eventType,
		PollID: pollID,
		Actor:  actor,
		Detail: detail,
		At:     time.Now().UTC(),
	}
}

// LogSink writes events to the process log.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Emit(e Event) {
	log.WithFields(log.Fields{
		"event_id": e.ID,
		"type":     e.Type,
		"poll_id":  e.PollID,
		"actor":    e.Actor,
	}).Info(e.Detail)
}

// MemorySink collects events for tests.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Emit(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
