package solver

import (
	"container/heap"
	"sort"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
)

// Scored is a guess, by index into the universe, with its approximate score.
type Scored struct {
	Score float64
	Index uint32
}

// minHeap keeps the weakest retained guess on top so it can be evicted.
type minHeap []Scored

func (h minHeap) Len() int { return len(h) }
func (h minHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].Index > h[j].Index
}
func (h minHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)   { *h = append(*h, x.(Scored)) }
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Shortlist scores every guess in universe against tab and returns the indexes of the
// k best, best first. Ties prefer the earlier guess.
func Shortlist(universe []handle.Handle, tab *Table, k int) []Scored {
	if k <= 0 {
		return nil
	}
	h := make(minHeap, 0, min(k, len(universe)))
	for i := range universe {
		s := Scored{Score: tab.Score(&universe[i].Hand), Index: uint32(i)}
		if len(h) < k {
			heap.Push(&h, s)
			continue
		}
		if s.Score > h[0].Score {
			h[0] = s
			heap.Fix(&h, 0)
		}
	}
	out := []Scored(h)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// shortlistSize is the number of guesses the exact phase can afford for n candidates.
// budget >= |universe| >= n keeps it at least 1.
func shortlistSize(budget, limit, n int) int {
	k := budget / n
	if limit > 0 && k > limit {
		k = limit
	}
	return k
}
