package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
)

// ErrNoCandidates is returned when asked to plan over an empty candidate set.
var ErrNoCandidates = errors.New("no candidates left")

// Options tunes the engine.
type Options struct {
	// Budget caps the exact phase at Budget feedback evaluations. It must be at least
	// the universe size so the shortlist never comes out empty.
	Budget int
	// MaxShortlist bounds the shortlist independently of Budget.
	MaxShortlist int
	// SeparatorLimit enables the perfect-separator search below this many candidates.
	SeparatorLimit int
	// KillerSize is the number of ranked suggestions returned.
	KillerSize int
	Workers    int
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Budget:         150_000_000,
		MaxShortlist:   1_000_000,
		SeparatorLimit: 1000,
		KillerSize:     10,
		Workers:        runtime.NumCPU(),
	}
}

// Engine picks guesses for a candidate set.
type Engine struct {
	opts Options
}

// New validates opts against the universe the engine will guess from.
func New(opts Options, universeSize int) (*Engine, error) {
	if opts.Budget < universeSize || opts.Budget < 1 {
		return nil, fmt.Errorf("budget %d below universe size %d", opts.Budget, universeSize)
	}
	if opts.KillerSize < 1 {
		opts.KillerSize = 1
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Engine{opts: opts}, nil
}

// Plan is the engine's answer for one round, best first.
type Plan struct {
	Ranked []Suggestion
	// Separator is set when the first suggestion splits every candidate apart.
	Separator bool
}

// Best is the guess to play.
func (p Plan) Best() handle.Handle { return p.Ranked[0].Guess }

// Next chooses the next guess: the sole candidate, a perfect separator when the set is
// small, otherwise the exact-entropy winner of the pairwise shortlist over universe.
func (e *Engine) Next(ctx context.Context, candidates, universe []handle.Handle) (Plan, error) {
	n := len(candidates)
	switch {
	case n == 0:
		return Plan{}, ErrNoCandidates
	case n == 1:
		return Plan{Ranked: []Suggestion{{Guess: candidates[0], Candidate: true}}, Separator: true}, nil
	}

	if n < e.opts.SeparatorLimit {
		start := time.Now()
		if g, ok := PerfectSeparator(candidates); ok {
			log.Debug().Int("candidates", n).Dur("took", time.Since(start)).Msg("perfect separator found")
			return Plan{
				Ranked:    []Suggestion{{Guess: g, Entropy: math.Log2(float64(n)), Candidate: true}},
				Separator: true,
			}, nil
		}
		log.Debug().Int("candidates", n).Dur("took", time.Since(start)).Msg("no perfect separator")
	}

	start := time.Now()
	tally, err := TallyOf(ctx, candidates, e.opts.Workers)
	if err != nil {
		return Plan{}, err
	}
	tab, err := tally.Entropies()
	if err != nil {
		return Plan{}, err
	}
	log.Debug().Int("candidates", n).Dur("took", time.Since(start)).Msg("pair entropies ready")

	start = time.Now()
	k := shortlistSize(e.opts.Budget, e.opts.MaxShortlist, n)
	short := Shortlist(universe, tab, k)
	log.Debug().Int("k", k).Int("universe", len(universe)).Dur("took", time.Since(start)).Msg("shortlist ready")

	start = time.Now()
	ranked, err := Killer(ctx, universe, short, candidates, e.opts.KillerSize, e.opts.Workers)
	if err != nil {
		return Plan{}, err
	}
	log.Debug().Int("shortlist", len(short)).Dur("took", time.Since(start)).Msg("exact phase done")
	if len(ranked) == 0 {
		return Plan{}, fmt.Errorf("empty shortlist for %d candidates over %d guesses", n, len(universe))
	}
	return Plan{Ranked: ranked}, nil
}
