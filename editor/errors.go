package editor

import "errors"

var (
	// ErrBusy rejects an operation that would race an outstanding remote write.
	ErrBusy = errors.New("remote write in flight")
	// ErrDetached is returned once the session has been closed, and by
	// completions whose target no longer exists.
	ErrDetached = errors.New("editing session detached")

	ErrUnknownQuestion = errors.New("unknown question")
	ErrUnknownChoice   = errors.New("unknown choice")
)

// Validation issues reported by Aggregate.Validate.
var (
	ErrMissingTitle    = errors.New("missing title")
	ErrMissingContent  = errors.New("missing content")
	ErrTooFewChoices   = errors.New("fewer than two choices")
	ErrNoCorrectChoice = errors.New("no correct choice")
	ErrDanglingCorrect = errors.New("correct choice is not among the choices")
	ErrUnsavedChoices  = errors.New("unsaved choices")
)
