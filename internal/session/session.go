// apps/handle-solver/internal/session/session.go
//
// Solver session: the round loop around one hidden hand.
// Responsibilities:
//   - Hand out the next guess (fixed opening guess first, engine plan afterwards).
//   - Narrow the candidate set by each observed result.
//   - Keep the round history for display and journaling.
//
// Notes:
//   - Context filtering is applied once, to the candidate set and the guess universe alike.
//   - The candidate set is replaced by a filtered copy each round, never edited in place.
//   - A failed Observe leaves the session as it was, so a mistyped result can be retried.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/solver"
)

// Universe is where a session reads hands from.
type Universe interface {
	// All returns every hand. The slice is shared and read-only.
	All() ([]handle.Handle, error)
	// FirstRound returns the hands that give result against the opening guess.
	FirstRound(result handle.Result) ([]handle.Handle, error)
}

// Static serves a universe already in memory.
type Static []handle.Handle

func (u Static) All() ([]handle.Handle, error) { return u, nil }

func (u Static) FirstRound(result handle.Result) ([]handle.Handle, error) {
	return handle.FilterFeedback(u, handle.BestFirst().Hand, result), nil
}

// Round is one completed guess/result exchange.
type Round struct {
	Number    int
	Guess     handle.Handle
	Result    handle.Result
	Remaining int
}

// Session guesses one hidden hand. It is safe for concurrent use.
type Session struct {
	ID        string
	Context   handle.Context
	StartedAt time.Time

	mu         sync.Mutex
	src        Universe
	engine     *solver.Engine
	universe   []handle.Handle // context-filtered, loaded for round two
	candidates []handle.Handle // nil until the first result
	rounds     []Round
	pending    *handle.Handle
	plan       solver.Plan
	solved     bool
}

// New starts a session over src under context c.
func New(src Universe, engine *solver.Engine, c handle.Context) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Context:   c,
		StartedAt: time.Now(),
		src:       src,
		engine:    engine,
	}
}

// Next returns the plan for the coming round. Asking twice without an Observe in
// between returns the same plan.
func (s *Session) Next(ctx context.Context) (solver.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.solved {
		return solver.Plan{}, ErrSolved
	}
	if s.pending != nil {
		return s.plan, nil
	}

	if s.candidates == nil {
		s.plan = solver.Plan{Ranked: []solver.Suggestion{{Guess: handle.BestFirst(), Candidate: true}}}
	} else {
		u, err := s.loadUniverse()
		if err != nil {
			return solver.Plan{}, err
		}
		plan, err := s.engine.Next(ctx, s.candidates, u)
		if err != nil {
			return solver.Plan{}, &StageError{Stage: StageScoring, Remaining: len(s.candidates), Err: err}
		}
		s.plan = plan
	}
	g := s.plan.Best()
	s.pending = &g
	return s.plan, nil
}

// Observe applies the result the pending guess received.
func (s *Session) Observe(result handle.Result) (Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Round{}, ErrNoPendingGuess
	}
	guess := *s.pending

	var next []handle.Handle
	if s.candidates == nil {
		first, err := s.src.FirstRound(result)
		if err != nil {
			return Round{}, &StageError{Stage: StageLoad, Err: err}
		}
		next = handle.FilterContext(first, s.Context)
	} else {
		next = handle.FilterFeedback(s.candidates, guess.Hand, result)
	}
	if len(next) == 0 {
		return Round{}, &StageError{
			Stage:     StageFilter,
			Remaining: len(s.candidates),
			Err:       fmt.Errorf("%w: %s for %s", ErrEmptyCandidates, result, guess.Hand),
		}
	}

	s.pending = nil
	s.candidates = next
	s.solved = result.Solved()
	r := Round{Number: len(s.rounds) + 1, Guess: guess, Result: result, Remaining: len(next)}
	s.rounds = append(s.rounds, r)
	return r, nil
}

func (s *Session) loadUniverse() ([]handle.Handle, error) {
	if s.universe != nil {
		return s.universe, nil
	}
	all, err := s.src.All()
	if err != nil {
		return nil, &StageError{Stage: StageLoad, Remaining: len(s.candidates), Err: err}
	}
	s.universe = handle.FilterContext(all, s.Context)
	return s.universe, nil
}

// Solved returns the secret once a guess received an all-match result.
func (s *Session) Solved() (handle.Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.solved {
		return handle.Handle{}, false
	}
	return s.rounds[len(s.rounds)-1].Guess, true
}

// Candidates returns the current candidate set, nil before the first result.
func (s *Session) Candidates() []handle.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candidates
}

// Rounds returns a copy of the history.
func (s *Session) Rounds() []Round {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Round(nil), s.rounds...)
}

// Snapshot is a read-only view for display and persistence.
type Snapshot struct {
	ID        string
	Context   handle.Context
	StartedAt time.Time
	Rounds    []Round
	Pending   *handle.Handle
	Remaining int
	Solved    bool
}

// Snapshot captures the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:        s.ID,
		Context:   s.Context,
		StartedAt: s.StartedAt,
		Rounds:    append([]Round(nil), s.rounds...),
		Remaining: len(s.candidates),
		Solved:    s.solved,
	}
	if s.pending != nil {
		g := *s.pending
		snap.Pending = &g
	}
	return snap
}
