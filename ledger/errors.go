package ledger

import "errors"

// Kind groups ledger errors the way callers react to them.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindState
	KindAuthorization
	KindConflict
	KindResource
)

// Error is a ledger failure with a stable machine-readable code. Every
// failed operation is rejected as a whole: the ledger never commits a
// partial write alongside an Error.
type Error struct {
	Code    string
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrTooFewCandidates  = &Error{"TOO_FEW_CANDIDATES", KindValidation, "poll must have at least 2 candidates"}
	ErrTooManyCandidates = &Error{"TOO_MANY_CANDIDATES", KindValidation, "poll cannot have more than 10 candidates"}
	ErrTitleTooLong      = &Error{"TITLE_TOO_LONG", KindValidation, "title must be 100 characters or less"}
	ErrNameTooLong       = &Error{"CANDIDATE_NAME_TOO_LONG", KindValidation, "candidate name must be 50 characters or less"}
	ErrInvalidCandidate  = &Error{"INVALID_CANDIDATE", KindValidation, "invalid candidate index"}

	ErrPollNotFound = &Error{"POLL_NOT_FOUND", KindState, "poll not found"}
	ErrPollClosed   = &Error{"POLL_CLOSED", KindState, "this poll is closed"}
	ErrVoteNotFound = &Error{"VOTE_NOT_FOUND", KindState, "no vote recorded for this wallet in this poll"}

	ErrUnauthorized = &Error{"UNAUTHORIZED", KindAuthorization, "only the poll admin can perform this action"}

	ErrDuplicatePoll = &Error{"DUPLICATE_POLL", KindConflict, "a poll already exists with this id"}
	ErrDuplicateVote = &Error{"DUPLICATE_VOTE", KindConflict, "this wallet has already voted in this poll"}

	ErrSizeMismatch = &Error{"SIZE_MISMATCH", KindResource, "record does not fit its allocated space"}
)

// KindOf returns the Kind of err, or 0 when err is not a ledger Error.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return 0
}
