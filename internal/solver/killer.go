package solver

import (
	"context"
	"math"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
)

// Suggestion is a ranked guess.
type Suggestion struct {
	Guess handle.Handle
	// Entropy is the exact information, in bits, the guess yields over the candidates.
	Entropy float64
	// Approx is the pairwise estimate the guess was shortlisted with.
	Approx float64
	// Candidate marks guesses that may themselves be the secret.
	Candidate bool
}

// ExactEntropy partitions candidates by the result guess would receive and returns the
// entropy of that partition. scratch is reused when large enough.
func ExactEntropy(guess *handle.Hand, candidates []handle.Handle, scratch []uint32) (float64, []uint32) {
	scratch = scratch[:0]
	for i := range candidates {
		scratch = append(scratch, handle.Feedback(*guess, candidates[i].Hand).Index())
	}
	slices.Sort(scratch)

	n := float64(len(scratch))
	var sum float64
	for i := 0; i < len(scratch); {
		j := i + 1
		for j < len(scratch) && scratch[j] == scratch[i] {
			j++
		}
		c := float64(j - i)
		sum += c * math.Log2(c)
		i = j
	}
	if n == 0 {
		return 0, scratch
	}
	return math.Log2(n) - sum/n, scratch
}

// Killer computes the exact entropy of every shortlisted guess and returns the best keep.
// Ties prefer guesses that are candidates, then the higher estimate.
func Killer(ctx context.Context, universe []handle.Handle, shortlist []Scored, candidates []handle.Handle, keep, workers int) ([]Suggestion, error) {
	inS := make(map[handle.Hand]struct{}, len(candidates))
	for i := range candidates {
		inS[candidates[i].Hand] = struct{}{}
	}

	out := make([]Suggestion, len(shortlist))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	chunk := max(len(shortlist)/(max(workers, 1)*4), 64)
	for lo := 0; lo < len(shortlist); lo += chunk {
		hi := min(lo+chunk, len(shortlist))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var scratch []uint32
			for i := lo; i < hi; i++ {
				s := shortlist[i]
				guess := universe[s.Index]
				var e float64
				e, scratch = ExactEntropy(&guess.Hand, candidates, scratch)
				_, cand := inS[guess.Hand]
				out[i] = Suggestion{Guess: guess, Entropy: e, Approx: s.Score, Candidate: cand}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Entropy != b.Entropy {
			return a.Entropy > b.Entropy
		}
		if a.Candidate != b.Candidate {
			return a.Candidate
		}
		return a.Approx > b.Approx
	})
	if len(out) > keep {
		out = out[:keep]
	}
	return out, nil
}

// PerfectSeparator returns the first candidate whose results over candidates are all
// distinct: guessing it settles the game on the following round.
func PerfectSeparator(candidates []handle.Handle) (handle.Handle, bool) {
	scratch := make([]uint32, 0, len(candidates))
	for i := range candidates {
		scratch = scratch[:0]
		for j := range candidates {
			scratch = append(scratch, handle.Feedback(candidates[i].Hand, candidates[j].Hand).Index())
		}
		slices.Sort(scratch)
		if len(slices.Compact(scratch)) == len(candidates) {
			return candidates[i], true
		}
	}
	return handle.Handle{}, false
}
