// Package ledger implements the poll voting ledger: polls and vote
// records live at deterministically derived addresses in a transactional
// record store, and exactly-once record creation is what enforces one
// vote per wallet.
package ledger

import (
	"errors"
	"fmt"

	"voting-ledger/audit"
	"voting-ledger/storage"
)

type Ledger struct {
	store  storage.Engine
	events audit.Sink
}

func New(store storage.Engine, events audit.Sink) *Ledger {
	return &Ledger{store: store, events: events}
}

// CreatePoll creates a new poll owned by admin. The poll record is
// allocated at the address derived from pollID; if that address is
// already taken the storage engine rejects the creation and the poll is
// reported as a duplicate. Any identity may create a poll and becomes
// its admin.
func (l *Ledger) CreatePoll(pollID uint64, title string, candidates []string, admin Identity) (*Poll, error) {
	if len(candidates) < MinCandidates {
		return nil, ErrTooFewCandidates
	}
	if len(candidates) > MaxCandidates {
		return nil, ErrTooManyCandidates
	}
	if len(title) > MaxTitleLen {
		return nil, ErrTitleTooLong
	}
	for _, name := range candidates {
		if len(name) > MaxCandidateName {
			return nil, ErrNameTooLong
		}
	}

	addr, bump, err := DerivePollAddress(pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive poll address: %w", err)
	}

	poll := &Poll{
		Admin:      admin,
		PollID:     pollID,
		Title:      title,
		Candidates: make([]Candidate, len(candidates)),
		TotalVotes: 0,
		IsActive:   true,
		Bump:       bump,
	}
	for i, name := range candidates {
		poll.Candidates[i] = Candidate{Name: name, Votes: 0}
	}

	data, err := encodePoll(poll)
	if err != nil {
		return nil, err
	}

	err = l.store.Update(func(tx storage.Tx) error {
		return mapStorageErr(tx.CreateIfAbsent(addr.String(), PollSpace(len(candidates)), data), ErrDuplicatePoll)
	})
	if err != nil {
		return nil, err
	}

	l.events.Emit(audit.NewEvent(audit.TypePollCreated, pollID, admin.String(),
		fmt.Sprintf("Poll '%s' created with %d candidates", title, len(candidates))))
	return poll, nil
}

// Vote records one vote by voter for the candidate at candidateIndex.
// The vote record creation and the tally increments happen in the same
// storage transaction, so a vote is either fully counted or not at all.
func (l *Ledger) Vote(pollID uint64, candidateIndex uint8, voter Identity) (*VoteRecord, error) {
	pollAddr, _, err := DerivePollAddress(pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive poll address: %w", err)
	}
	voteAddr, bump, err := DeriveVoteAddress(pollID, voter)
	if err != nil {
		return nil, fmt.Errorf("failed to derive vote address: %w", err)
	}

	record := &VoteRecord{
		Voter:          voter,
		PollID:         pollID,
		CandidateIndex: candidateIndex,
		Bump:           bump,
	}

	var candidateName, pollTitle string
	err = l.store.Update(func(tx storage.Tx) error {
		raw, err := tx.Read(pollAddr.String())
		if errors.Is(err, storage.ErrAbsent) {
			return ErrPollNotFound
		}
		if err != nil {
			return err
		}
		poll, err := decodePoll(raw)
		if err != nil {
			return err
		}
		if !poll.IsActive {
			return ErrPollClosed
		}
		if int(candidateIndex) >= len(poll.Candidates) {
			return ErrInvalidCandidate
		}
		candidateName = poll.Candidates[candidateIndex].Name
		pollTitle = poll.Title

		data, err := encodeVoteRecord(record)
		if err != nil {
			return err
		}
		if err := mapStorageErr(tx.CreateIfAbsent(voteAddr.String(), VoteRecordSpace(), data), ErrDuplicateVote); err != nil {
			return err
		}

		return tx.Update(pollAddr.String(), func(cur []byte) ([]byte, error) {
			p, err := decodePoll(cur)
			if err != nil {
				return nil, err
			}
			p.Candidates[candidateIndex].Votes++
			p.TotalVotes++
			return encodePoll(p)
		})
	})
	if err != nil {
		return nil, err
	}

	l.events.Emit(audit.NewEvent(audit.TypeVoteCast, pollID, voter.String(),
		fmt.Sprintf("Vote cast by %s for candidate '%s' in poll '%s'", voter, candidateName, pollTitle)))
	return record, nil
}

// ClosePoll deactivates the poll so no further votes can be cast. Only
// the admin recorded at creation may close a poll. Closing an already
// closed poll is a no-op.
func (l *Ledger) ClosePoll(pollID uint64, caller Identity) error {
	pollAddr, _, err := DerivePollAddress(pollID)
	if err != nil {
		return fmt.Errorf("failed to derive poll address: %w", err)
	}

	var pollTitle string
	alreadyClosed := false
	err = l.store.Update(func(tx storage.Tx) error {
		raw, err := tx.Read(pollAddr.String())
		if errors.Is(err, storage.ErrAbsent) {
			return ErrPollNotFound
		}
		if err != nil {
			return err
		}
		poll, err := decodePoll(raw)
		if err != nil {
			return err
		}
		if !poll.Admin.Equals(caller) {
			return ErrUnauthorized
		}
		pollTitle = poll.Title
		if !poll.IsActive {
			alreadyClosed = true
			return nil
		}

		return tx.Update(pollAddr.String(), func(cur []byte) ([]byte, error) {
			p, err := decodePoll(cur)
			if err != nil {
				return nil, err
			}
			p.IsActive = false
			return encodePoll(p)
		})
	})
	if err != nil {
		return err
	}

	if !alreadyClosed {
		l.events.Emit(audit.NewEvent(audit.TypePollClosed, pollID, caller.String(),
			fmt.Sprintf("Poll '%s' has been closed", pollTitle)))
	}
	return nil
}

// GetPoll reads the current state of a poll, tallies included.
func (l *Ledger) GetPoll(pollID uint64) (*Poll, error) {
	pollAddr, _, err := DerivePollAddress(pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive poll address: %w", err)
	}

	var poll *Poll
	err = l.store.View(func(tx storage.Tx) error {
		raw, err := tx.Read(pollAddr.String())
		if errors.Is(err, storage.ErrAbsent) {
			return ErrPollNotFound
		}
		if err != nil {
			return err
		}
		poll, err = decodePoll(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return poll, nil
}

// GetVoteRecord reads the vote record for (pollID, voter), if one exists.
func (l *Ledger) GetVoteRecord(pollID uint64, voter Identity) (*VoteRecord, error) {
	voteAddr, _, err := DeriveVoteAddress(pollID, voter)
	if err != nil {
		return nil, fmt.Errorf("failed to derive vote address: %w", err)
	}

	var record *VoteRecord
	err = l.store.View(func(tx storage.Tx) error {
		raw, err := tx.Read(voteAddr.String())
		if errors.Is(err, storage.ErrAbsent) {
			return ErrVoteNotFound
		}
		if err != nil {
			return err
		}
		record, err = decodeVoteRecord(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func mapStorageErr(err error, onExists *Error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrExists):
		return onExists
	case errors.Is(err, storage.ErrSpaceExceeded):
		return ErrSizeMismatch
	default:
		return err
	}
}
