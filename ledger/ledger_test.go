package ledger_test

import (
	"bytes"
	"strings"
	"testing"

	"voting-ledger/audit"
	"voting-ledger/ledger"
	"voting-ledger/storage"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(b byte) ledger.Identity {
	return solana.PublicKeyFromBytes(bytes.Repeat([]byte{b}, 32))
}

var (
	admin  = identity(1)
	voterA = identity(2)
	voterB = identity(3)
	voterC = identity(4)
)

func newLedger() (*ledger.Ledger, *audit.MemorySink) {
	sink := audit.NewMemorySink()
	return ledger.New(storage.NewMemory(), sink), sink
}

func candidateNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = strings.Repeat("x", 3)
	}
	return names
}

func TestCreatePoll(t *testing.T) {
	l, sink := newLedger()

	poll, err := l.CreatePoll(1, "Best Language", []string{"Rust", "Go"}, admin)
	require.NoError(t, err)

	assert.Equal(t, admin, poll.Admin)
	assert.Equal(t, uint64(1), poll.PollID)
	assert.Equal(t, "Best Language", poll.Title)
	assert.Equal(t, []ledger.Candidate{{Name: "Rust"}, {Name: "Go"}}, poll.Candidates)
	assert.Equal(t, uint64(0), poll.TotalVotes)
	assert.True(t, poll.IsActive)

	stored, err := l.GetPoll(1)
	require.NoError(t, err)
	assert.Equal(t, poll, stored)

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.TypePollCreated, events[0].Type)
	assert.Equal(t, uint64(1), events[0].PollID)
	assert.Equal(t, admin.String(), events[0].Actor)
}

func TestCreatePollValidation(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		candidates []string
		wantErr    error
	}{
		{"one candidate", "t", candidateNames(1), ledger.ErrTooFewCandidates},
		{"eleven candidates", "t", candidateNames(11), ledger.ErrTooManyCandidates},
		{"two candidates ok", "t", candidateNames(2), nil},
		{"ten candidates ok", "t", candidateNames(10), nil},
		{"title at limit ok", strings.Repeat("a", 100), candidateNames(2), nil},
		{"title over limit", strings.Repeat("a", 101), candidateNames(2), ledger.ErrTitleTooLong},
		{"candidate name at limit ok", "t", []string{strings.Repeat("n", 50), "b"}, nil},
		{"candidate name over limit", "t", []string{strings.Repeat("n", 51), "b"}, ledger.ErrNameTooLong},
		// Candidate count is checked before the title.
		{"count checked first", strings.Repeat("a", 101), candidateNames(11), ledger.ErrTooManyCandidates},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newLedger()
			_, err := l.CreatePoll(uint64(i+1), tt.title, tt.candidates, admin)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCreatePollDuplicate(t *testing.T) {
	l, sink := newLedger()

	_, err := l.CreatePoll(7, "first", []string{"a", "b"}, admin)
	require.NoError(t, err)

	_, err = l.CreatePoll(7, "second", []string{"c", "d"}, voterA)
	assert.ErrorIs(t, err, ledger.ErrDuplicatePoll)

	// The original poll is untouched.
	poll, err := l.GetPoll(7)
	require.NoError(t, err)
	assert.Equal(t, "first", poll.Title)
	assert.Equal(t, admin, poll.Admin)
	assert.Len(t, sink.Events(), 1)
}

func TestVote(t *testing.T) {
	l, sink := newLedger()
	_, err := l.CreatePoll(1, "Best Language", []string{"Rust", "Go"}, admin)
	require.NoError(t, err)

	record, err := l.Vote(1, 0, voterA)
	require.NoError(t, err)
	assert.Equal(t, voterA, record.Voter)
	assert.Equal(t, uint64(1), record.PollID)
	assert.Equal(t, uint8(0), record.CandidateIndex)

	poll, err := l.GetPoll(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), poll.Candidates[0].Votes)
	assert.Equal(t, uint64(0), poll.Candidates[1].Votes)
	assert.Equal(t, uint64(1), poll.TotalVotes)

	stored, err := l.GetVoteRecord(1, voterA)
	require.NoError(t, err)
	assert.Equal(t, record, stored)

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, audit.TypeVoteCast, events[1].Type)
	assert.Contains(t, events[1].Detail, "Rust")
	assert.Contains(t, events[1].Detail, "Best Language")
}

func TestDuplicateVote(t *testing.T) {
	l, _ := newLedger()
	_, err := l.CreatePoll(1, "Best Language", []string{"Rust", "Go"}, admin)
	require.NoError(t, err)

	_, err = l.Vote(1, 0, voterA)
	require.NoError(t, err)

	// A second vote fails even for a different candidate, and the first
	// vote stays counted exactly once.
	_, err = l.Vote(1, 1, voterA)
	assert.ErrorIs(t, err, ledger.ErrDuplicateVote)

	poll, err := l.GetPoll(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), poll.TotalVotes)
	assert.Equal(t, uint64(1), poll.Candidates[0].Votes)
	assert.Equal(t, uint64(0), poll.Candidates[1].Votes)

	record, err := l.GetVoteRecord(1, voterA)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), record.CandidateIndex)
}

func TestVotePollNotFound(t *testing.T) {
	l, _ := newLedger()
	_, err := l.Vote(99, 0, voterA)
	assert.ErrorIs(t, err, ledger.ErrPollNotFound)
}

func TestVoteInvalidCandidate(t *testing.T) {
	l, _ := newLedger()
	_, err := l.CreatePoll(1, "Best Language", []string{"Rust", "Go"}, admin)
	require.NoError(t, err)

	_, err = l.Vote(1, 5, voterC)
	assert.ErrorIs(t, err, ledger.ErrInvalidCandidate)

	// No partial effect: no record, no tally change.
	poll, err := l.GetPoll(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), poll.TotalVotes)

	_, err = l.GetVoteRecord(1, voterC)
	assert.ErrorIs(t, err, ledger.ErrVoteNotFound)
}

func TestClosePoll(t *testing.T) {
	l, sink := newLedger()
	_, err := l.CreatePoll(1, "Best Language", []string{"Rust", "Go"}, admin)
	require.NoError(t, err)

	err = l.ClosePoll(1, voterA)
	assert.ErrorIs(t, err, ledger.ErrUnauthorized)

	poll, err := l.GetPoll(1)
	require.NoError(t, err)
	assert.True(t, poll.IsActive)

	require.NoError(t, l.ClosePoll(1, admin))

	poll, err = l.GetPoll(1)
	require.NoError(t, err)
	assert.False(t, poll.IsActive)

	_, err = l.Vote(1, 1, voterB)
	assert.ErrorIs(t, err, ledger.ErrPollClosed)
	_, err = l.GetVoteRecord(1, voterB)
	assert.ErrorIs(t, err, ledger.ErrVoteNotFound)

	// Closing again is a silent no-op and emits nothing new.
	closedEvents := len(sink.Events())
	require.NoError(t, l.ClosePoll(1, admin))
	assert.Len(t, sink.Events(), closedEvents)
}

func TestClosePollNotFound(t *testing.T) {
	l, _ := newLedger()
	err := l.ClosePoll(42, admin)
	assert.ErrorIs(t, err, ledger.ErrPollNotFound)
}

func TestTallyMatchesVoteRecords(t *testing.T) {
	l, _ := newLedger()
	_, err := l.CreatePoll(1, "snacks", []string{"chips", "fruit", "nuts"}, admin)
	require.NoError(t, err)

	votes := []struct {
		voter ledger.Identity
		index uint8
	}{
		{voterA, 0},
		{voterB, 2},
		{voterC, 0},
		{identity(9), 1},
	}
	for _, v := range votes {
		_, err := l.Vote(1, v.index, v.voter)
		require.NoError(t, err)

		poll, err := l.GetPoll(1)
		require.NoError(t, err)

		var sum uint64
		for _, cand := range poll.Candidates {
			sum += cand.Votes
		}
		assert.Equal(t, poll.TotalVotes, sum)
	}

	poll, err := l.GetPoll(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), poll.TotalVotes)
	assert.Equal(t, uint64(2), poll.Candidates[0].Votes)
	assert.Equal(t, uint64(1), poll.Candidates[1].Votes)
	assert.Equal(t, uint64(1), poll.Candidates[2].Votes)
}

func TestVotersIsolatedPerPoll(t *testing.T) {
	l, _ := newLedger()
	_, err := l.CreatePoll(1, "first", []string{"a", "b"}, admin)
	require.NoError(t, err)
	_, err = l.CreatePoll(2, "second", []string{"c", "d"}, admin)
	require.NoError(t, err)

	// One vote per wallet per poll, not one per wallet globally.
	_, err = l.Vote(1, 0, voterA)
	require.NoError(t, err)
	_, err = l.Vote(2, 1, voterA)
	require.NoError(t, err)

	first, err := l.GetPoll(1)
	require.NoError(t, err)
	second, err := l.GetPoll(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.TotalVotes)
	assert.Equal(t, uint64(1), second.TotalVotes)
}

func TestLedgerOnBuntEngine(t *testing.T) {
	engine, err := storage.NewBunt(":memory:")
	require.NoError(t, err)
	defer engine.Close()

	l := ledger.New(engine, audit.NewMemorySink())

	_, err = l.CreatePoll(1, "Best Language", []string{"Rust", "Go"}, admin)
	require.NoError(t, err)
	_, err = l.Vote(1, 0, voterA)
	require.NoError(t, err)
	_, err = l.Vote(1, 0, voterA)
	assert.ErrorIs(t, err, ledger.ErrDuplicateVote)

	poll, err := l.GetPoll(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), poll.TotalVotes)
	assert.Equal(t, uint64(1), poll.Candidates[0].Votes)
}
