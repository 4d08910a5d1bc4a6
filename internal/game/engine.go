// apps/handle-solver/internal/game/engine.go
//
// Judge for a single hidden hand.
// Responsibilities:
//   - Create new games around a secret hand (6 rows).
//   - Validate guesses (complete hand, canonical layout, at most four copies).
//   - Score guesses with the two-pass feedback algorithm.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Guesses need not score under any context; only legality is checked.
//   - Scoring lives in the handle package so the judge and the solver can never disagree.
package game

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
)

const defaultRows = 6

var (
	// ErrFinished is returned for guesses after the game ended.
	ErrFinished = errors.New("game finished")
	// ErrInvalidGuess is returned for guesses that are not legal winning hands.
	ErrInvalidGuess = errors.New("invalid guess")
)

// New constructs a new game around secret.
func New(secret handle.Hand) *Game {
	return &Game{
		ID:        uuid.NewString(),
		Secret:    secret,
		Rows:      defaultRows,
		StartedAt: time.Now(),
	}
}

// Random picks a secret from u with crypto/rand and starts a game.
func Random(u []handle.Handle) (*Game, error) {
	if len(u) == 0 {
		return nil, errors.New("empty universe")
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(u))))
	if err != nil {
		return nil, err
	}
	return New(u[n.Int64()].Hand), nil
}

// ApplyGuess validates and scores a guess, mutating the game state.
//
// State transitions:
//   - If every slot matches → Finished = true, Won = true.
//   - Else if the number of guesses reaches g.Rows → Finished = true (loss).
func (g *Game) ApplyGuess(guess handle.Hand) (handle.Result, State, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Finished {
		return handle.Result{}, g.state(), ErrFinished
	}
	if err := guess.Validate(); err != nil {
		return handle.Result{}, g.state(), fmt.Errorf("%w: %v", ErrInvalidGuess, err)
	}

	res := handle.Feedback(guess, g.Secret)
	g.Guesses = append(g.Guesses, guess)
	g.Results = append(g.Results, res)

	if res.Solved() {
		g.Finished, g.Won = true, true
	} else if len(g.Guesses) >= g.Rows {
		g.Finished = true
	}
	return res, g.state(), nil
}

// State reports the current game state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state()
}

func (g *Game) state() State {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// Judge adapts the game to the solver's self-play loop.
func (g *Game) Judge(guess handle.Hand) (handle.Result, error) {
	res, _, err := g.ApplyGuess(guess)
	return res, err
}

// Played is the number of guesses made so far.
func (g *Game) Played() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Guesses)
}
