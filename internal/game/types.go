// apps/handle-solver/internal/game/types.go
//
// Core type definitions for the judge.
// Defines:
//   - State: coarse game state (playing/won/lost).
//   - Game: state for a single in-progress or finished game.

package game

import (
	"sync"
	"time"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
)

// State is the coarse state of a game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Game holds the state of a single judged game.
type Game struct {
	mu sync.Mutex

	ID        string          // Unique game identifier (uuid).
	Secret    handle.Hand     // The hidden hand.
	Daily     string          // Date key when this is the daily puzzle, else empty.
	DailyIdx  int             // Universe index of the daily secret.
	Player    string          // Who plays the daily puzzle (anonymous id).
	Rows      int             // Maximum number of guesses allowed (typically 6).
	Guesses   []handle.Hand   // Guesses made so far.
	Results   []handle.Result // Result of each guess.
	StartedAt time.Time
	Finished  bool // True once the game is over (won or lost).
	Won       bool // True if the game was finished with a win.
}
