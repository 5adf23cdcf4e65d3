package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoCandidates is returned when a selection prompt would be empty.
	ErrNoCandidates = errors.New("tui: no candidates to select from")
)
