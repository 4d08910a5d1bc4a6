package enumerate

import (
	"context"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/tile"
)

// fromCounts lays out a complete hand won on w: the other 13 tiles sorted, then w.
func fromCounts(c tile.Counts, w tile.Kind) handle.Hand {
	c[w]--
	var h handle.Hand
	i := 0
	for k, n := range c {
		for j := uint8(0); j < n; j++ {
			h[i] = tile.Kind(k)
			i++
		}
	}
	h[handle.WinSlot] = w
	return h
}

// SevenPairs enumerates seven distinct pairs, each pair taking a turn as the wait.
type SevenPairs struct {
	Span Span
}

func (SevenPairs) Name() string { return "seven-pairs" }

func (g SevenPairs) Generate(ctx context.Context, emit func(handle.Handle) error) error {
	n := int(g.Span.Last-g.Span.First) + 1
	if n < 7 {
		return nil
	}
	// idx walks the 7-combinations of the span in lexicographic order.
	var idx [7]int
	for i := range idx {
		idx[i] = i
	}
	for {
		var c tile.Counts
		for _, i := range idx {
			c[g.Span.First+tile.Kind(i)] = 2
		}
		for _, i := range idx {
			if err := emit(handle.New(fromCounts(c, g.Span.First+tile.Kind(i)), handle.Always)); err != nil {
				return err
			}
		}

		j := 6
		for j >= 0 && idx[j] == n-7+j {
			j--
		}
		if j < 0 {
			break
		}
		idx[j]++
		for k := j + 1; k < 7; k++ {
			idx[k] = idx[k-1] + 1
		}
	}
	return ctx.Err()
}

// ThirteenUnique enumerates the 13 terminal and honor kinds with one doubled,
// won on any of the 13 kinds.
type ThirteenUnique struct{}

func (ThirteenUnique) Name() string { return "thirteen-unique" }

func (ThirteenUnique) Generate(ctx context.Context, emit func(handle.Handle) error) error {
	for _, d := range tile.TerminalsAndHonors {
		var c tile.Counts
		for _, k := range tile.TerminalsAndHonors {
			c[k] = 1
		}
		c[d]++
		for _, w := range tile.TerminalsAndHonors {
			if err := emit(handle.New(fromCounts(c, w), handle.Always)); err != nil {
				return err
			}
		}
	}
	return ctx.Err()
}
