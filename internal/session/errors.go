package session

import (
	"errors"
	"fmt"
)

// Stage names the part of a session that failed.
type Stage string

const (
	StageEnumeration Stage = "enumeration"
	StageLoad        Stage = "load"
	StageFilter      Stage = "filter"
	StageScoring     Stage = "scoring"
)

// ErrEmptyCandidates means the feedback so far matches no hand in the universe.
var ErrEmptyCandidates = errors.New("no candidate hand is consistent with the feedback")

// ErrNoPendingGuess is returned by Observe before any guess was handed out.
var ErrNoPendingGuess = errors.New("no guess awaiting feedback")

// StageError tags a fatal condition with the stage it came from and the number of
// candidates the session still held.
type StageError struct {
	Stage     Stage
	Remaining int
	Err       error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage=%s remaining=%d: %v", e.Stage, e.Remaining, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// StageOf extracts the failing stage from err, if it carries one.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// ErrSolved is returned when a guess is requested after the secret was found.
var ErrSolved = errors.New("session already solved")

// ErrRoundLimit ends a self-play game that ran out of rounds.
var ErrRoundLimit = errors.New("round limit reached")
