package match

import "errors"

// Kind classifies an error for the caller.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	}
	return "internal"
}

// Error is a failure whose message is safe to show to the caller.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Kind returns the class of the error.
func (e *Error) Kind() Kind { return e.kind }

func newError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// KindOf returns the kind of err, or KindInternal when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

// ErrNotFound covers both a missing match and a match the caller may not see.
var ErrNotFound = newError(KindNotFound, "Failed to get obj")

// Proposal errors.
var (
	ErrSelfProposal       = newError(KindValidation, "You cannot propose a match with yourself!")
	ErrUnknownOpponent    = newError(KindValidation, "You cannot propose a match with a non-existent user!")
	ErrInvalidDate        = newError(KindValidation, "Invalid date")
	ErrInvalidSport       = newError(KindValidation, "Invalid sport")
	ErrNotLeagueMember    = newError(KindValidation, "You are not a member of this league!")
	ErrRoundWithoutLeague = newError(KindValidation, "A round requires a league")
	ErrInvalidRound       = newError(KindValidation, "The round must be a positive number")
)

// Payload errors.
var (
	ErrScoreMismatch = newError(KindValidation, "The number of scores + players does not match")
	ErrNegativeScore = newError(KindValidation, "Scores must not be negative")
	ErrEmptyMessage  = newError(KindValidation, "The message cannot be empty")
	ErrInvalidStars  = newError(KindValidation, "Stars must be between 1 and 5")
)

// Profile and league errors.
var (
	ErrEmptyName       = newError(KindValidation, "The name cannot be empty")
	ErrEmptyLeagueName = newError(KindValidation, "The league name cannot be empty")
)

// State conflicts.
var (
	ErrAlreadyAccepted = newError(KindConflict, "The match is already accepted")
	ErrHasCompleted    = newError(KindConflict, "The match has completed")
	ErrNotAccepted     = newError(KindConflict, "The match is not in accepted state")
	ErrNotStarted      = newError(KindConflict, "The match has not started")
	ErrNotAccepting    = newError(KindConflict, "The match is not in an accepting state")
	ErrNotCompleted    = newError(KindConflict, "The match has not completed")
	ErrAlreadyRated    = newError(KindConflict, "You have already rated the match!")
	ErrStaleWrite      = newError(KindConflict, "The match was changed by another request")
)
