package ledger

import (
	"fmt"

	"github.com/near/borsh-go"
)

// Poll is the persisted state of one poll. Field order is the wire
// layout; do not reorder.
type Poll struct {
	Admin      Identity    `borsh:"admin" json:"admin"`
	PollID     uint64      `borsh:"poll_id" json:"poll_id"`
	Title      string      `borsh:"title" json:"title"`
	Candidates []Candidate `borsh:"candidates" json:"candidates"`
	TotalVotes uint64      `borsh:"total_votes" json:"total_votes"`
	IsActive   bool        `borsh:"is_active" json:"is_active"`
	Bump       uint8       `borsh:"bump" json:"-"`
}

type Candidate struct {
	Name  string `borsh:"name" json:"name"`
	Votes uint64 `borsh:"votes" json:"votes"`
}

// VoteRecord proves that Voter voted exactly once in PollID. It is
// created once and never mutated or deleted.
type VoteRecord struct {
	Voter          Identity `borsh:"voter" json:"voter"`
	PollID         uint64   `borsh:"poll_id" json:"poll_id"`
	CandidateIndex uint8    `borsh:"candidate_index" json:"candidate_index"`
	Bump           uint8    `borsh:"bump" json:"-"`
}

func encodePoll(p *Poll) ([]byte, error) {
	data, err := borsh.Serialize(*p)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize poll: %w", err)
	}
	return data, nil
}

func decodePoll(data []byte) (*Poll, error) {
	var p Poll
	if err := borsh.Deserialize(&p, data); err != nil {
		return nil, fmt.Errorf("failed to deserialize poll: %w", err)
	}
	return &p, nil
}

func encodeVoteRecord(r *VoteRecord) ([]byte, error) {
	data, err := borsh.Serialize(*r)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize vote record: %w", err)
	}
	return data, nil
}

func decodeVoteRecord(data []byte) (*VoteRecord, error) {
	var r VoteRecord
	if err := borsh.Deserialize(&r, data); err != nil {
		return nil, fmt.Errorf("failed to deserialize vote record: %w", err)
	}
	return &r, nil
}
