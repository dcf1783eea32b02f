package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEvent(t *testing.T) {
	e := NewEvent(TypeVoteCast, 7, "actor", "detail")

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, TypeVoteCast, e.Type)
	assert.Equal(t, uint64(7), e.PollID)
	assert.Equal(t, "actor", e.Actor)
	assert.Equal(t, "detail", e.Detail)
	assert.False(t, e.At.IsZero())

	// Ids are unique per event.
	assert.NotEqual(t, e.ID, NewEvent(TypeVoteCast, 7, "actor", "detail").ID)
}

func TestMemorySink(t *testing.T) {
	sink := NewMemorySink()
	assert.Empty(t, sink.Events())

	sink.Emit(NewEvent(TypePollCreated, 1, "a", "created"))
	sink.Emit(NewEvent(TypePollClosed, 1, "a", "closed"))

	events := sink.Events()
	assert.Len(t, events, 2)
	assert.Equal(t, TypePollCreated, events[0].Type)
	assert.Equal(t, TypePollClosed, events[1].Type)
}
