package models

import "time"

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

type CreatePollRequest struct {
	// PollID of 0 lets the server derive one from the poll contents.
	PollID        uint64   `json:"poll_id"`
	Title         string   `json:"title" binding:"required"`
	Candidates    []string `json:"candidates" binding:"required"`
	CreatorWallet string   `json:"creator_wallet" binding:"required"`
}

type CreatePollResponse struct {
	PollID      uint64   `json:"poll_id"`
	PollAddress string   `json:"poll_address"`
	Title       string   `json:"title"`
	Candidates  []string `json:"candidates"`
}

type CastVoteRequest struct {
	CandidateIndex *uint8 `json:"candidate_index" binding:"required"`
	VoterWallet    string `json:"voter_wallet" binding:"required"`
}

type CastVoteResponse struct {
	PollID         uint64 `json:"poll_id"`
	CandidateIndex uint8  `json:"candidate_index"`
	VoteAddress    string `json:"vote_address"`
}

type ClosePollRequest struct {
	CallerWallet string `json:"caller_wallet" binding:"required"`
}

type UserVotesRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
}

type UserVote struct {
	PollID         uint64 `json:"pollId"`
	CandidateIndex uint8  `json:"candidateIndex"`
}

// MirrorPoll is a row in the Postgres mirror, used only by the list
// endpoints. The ledger stays the source of truth for tallies and state.
type MirrorPoll struct {
	PollID      uint64    `db:"poll_id" json:"poll_id"`
	Title       string    `db:"title" json:"title"`
	Candidates  []string  `db:"candidates" json:"candidates"`
	Admin       string    `db:"admin" json:"admin"`
	PollAddress string    `db:"poll_address" json:"poll_address"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
