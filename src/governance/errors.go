package governance

import "errors"

var (
	// ErrEntityNotFound is returned when a referenced DAO, proposal or user
	// does not exist.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrDuplicateVote is returned when a user has already voted on a
	// proposal. The existing tally is left untouched.
	ErrDuplicateVote = errors.New("duplicate vote")

	// ErrValidation is returned for malformed input the store cannot accept.
	ErrValidation = errors.New("validation failed")
)
