// apps/handle-solver/internal/enumerate/standard.go
//
// Standard hands: one pair and four melds, every reading of every composition.
//
// The walk visits kinds in ascending order and, at each kind, decides in stages
// whether to place a pair, a triplet and any number of runs starting there. The first
// group to claim the winning tile fixes the wait shape. A state is emitted once it
// holds four melds, a pair and a winning tile. The walk keeps its pending states on
// an explicit stack; each state is a small value copied on branch.
package enumerate

import (
	"context"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/tile"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/yaku"
)

// Span restricts a generator to the kinds First..Last inclusive.
type Span struct {
	First, Last tile.Kind
}

// FullSpan covers all 34 kinds.
var FullSpan = Span{First: tile.Man1, Last: tile.Red}

func (s Span) contains(k tile.Kind) bool { return k >= s.First && k <= s.Last }

type stage uint8

const (
	stagePair stage = iota
	stageTriplet
	stageRun
	stageCheck
)

type finder struct {
	counts  tile.Counts
	groups  [5]tile.Group
	n       uint8
	melds   uint8
	hasPair bool
	win     int8
	winTile tile.Kind
	narrow  bool
	curr    tile.Kind
	stage   stage
}

func (f *finder) place(t tile.GroupType) finder {
	g := *f
	g.groups[g.n] = tile.Group{Type: t, Base: f.curr}
	g.n++
	for _, k := range g.groups[g.n-1].Tiles() {
		g.counts[k]++
	}
	return g
}

func (f *finder) claim(k tile.Kind, narrow bool) finder {
	g := *f
	g.win = int8(g.n - 1)
	g.winTile = k
	g.narrow = narrow
	return g
}

func (f *finder) done() bool { return f.melds == 4 && f.hasPair && f.win >= 0 }

// narrowRunWait reports whether completing run base..base+2 on base+off is an edge or
// closed wait.
func narrowRunWait(base tile.Kind, off int) bool {
	switch off {
	case 0:
		return base.Rank() == 7
	case 2:
		return base.Rank() == 1
	default:
		return true
	}
}

func (f *finder) handle() handle.Handle {
	h := fromCounts(f.counts, f.winTile)
	v := yaku.Evaluate(yaku.Partition{Groups: f.groups, WinGroup: int(f.win), Narrow: f.narrow})
	return handle.New(h, handle.DeriveFlags(v))
}

// Standard enumerates standard hands.
type Standard struct {
	Span Span
}

func (Standard) Name() string { return "standard" }

func (g Standard) Generate(ctx context.Context, emit func(handle.Handle) error) error {
	span := g.Span
	stack := []finder{{win: -1, curr: span.First, stage: stagePair}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		k := f.curr

		switch f.stage {
		case stagePair:
			if !f.hasPair && f.counts[k] <= 2 {
				p := f.place(tile.Pair)
				p.hasPair = true
				p.stage = stageRun
				if p.win < 0 {
					stack = append(stack, p.claim(k, true))
				}
				stack = append(stack, p)
			}
			f.stage = stageTriplet
			stack = append(stack, f)

		case stageTriplet:
			if f.melds < 4 && f.counts[k] <= 1 {
				t := f.place(tile.Triplet)
				t.melds++
				t.stage = stageRun
				if t.win < 0 {
					stack = append(stack, t.claim(k, false))
				}
				stack = append(stack, t)
			}
			f.stage = stageRun
			stack = append(stack, f)

		case stageRun:
			if f.melds < 4 && k.StartsRun() && span.contains(k+2) &&
				f.counts[k] <= 3 && f.counts[k+1] <= 3 && f.counts[k+2] <= 3 {
				r := f.place(tile.Run)
				r.melds++
				if r.win < 0 {
					for off := 0; off < 3; off++ {
						stack = append(stack, r.claim(k+tile.Kind(off), narrowRunWait(k, off)))
					}
				}
				stack = append(stack, r)
			}
			f.stage = stageCheck
			stack = append(stack, f)

		case stageCheck:
			if f.done() {
				if err := emit(f.handle()); err != nil {
					return err
				}
				continue
			}
			if k < span.Last {
				f.curr++
				f.stage = stagePair
				stack = append(stack, f)
			}
		}
	}
	return ctx.Err()
}
