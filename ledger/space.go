package ledger

// Record size limits. The storage engine needs an exact byte budget up
// front, so every variable-length field is budgeted at its maximum.
const (
	MinCandidates    = 2
	MaxCandidates    = 10
	MaxTitleLen      = 100
	MaxCandidateName = 50
)

const (
	identitySize   = 32
	lenPrefixSize  = 4 // borsh string/vec length prefix
	counterSize    = 8
	pollPadding    = 64
	votePadding    = 16
	candidateSpace = lenPrefixSize + MaxCandidateName + counterSize
)

// PollSpace returns the byte budget for a poll record with the given
// candidate count. Deterministic and engine-independent, so clients can
// predict allocation cost before submitting a creation request.
func PollSpace(candidateCount int) int {
	return identitySize + // admin
		8 + // poll_id
		lenPrefixSize + MaxTitleLen + // title slot
		lenPrefixSize + candidateCount*candidateSpace + // candidates
		counterSize + // total_votes
		1 + // is_active
		1 + // bump
		pollPadding
}

// VoteRecordSpace returns the byte budget for a vote record.
func VoteRecordSpace() int {
	return identitySize + // voter
		8 + // poll_id
		1 + // candidate_index
		1 + // bump
		votePadding
}
