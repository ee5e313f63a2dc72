package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	// ErrTerminal signals a status mutation raced a transition into
	// Cancelled or Completed; callers must re-fetch and re-classify.
	ErrTerminal = errors.New("booking already in a terminal state")

	ErrDuplicateID = errors.New("booking id already exists")
)
