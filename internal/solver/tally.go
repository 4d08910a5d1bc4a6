// apps/handle-solver/internal/solver/tally.go
//
// Pairwise co-occurrence tallies over a candidate set.
//
// For each adjacent slot pair (t, t+1) the judge's verdicts on a guess holding (a, b)
// there fall into nine outcomes. Their frequencies over the candidates follow from six
// running counts by inclusion-exclusion, so a single pass over the candidates prices
// every (t, a, b) at once. Tallies from disjoint shards add up to the tally of their union.
package solver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/tile"
)

const (
	pairs = handle.HandSize - 1
	kinds = tile.NumKinds
)

// Tally holds the running counts for one candidate set.
type Tally struct {
	gg [pairs][kinds][kinds]uint32 // a at t and b at t+1
	gy [pairs][kinds][kinds]uint32 // a at t, b anywhere
	yg [pairs][kinds][kinds]uint32 // a anywhere, b at t+1
	g  [handle.HandSize][kinds]uint32
	yy [kinds][kinds]uint32 // a and b anywhere; upper triangle until mirrored
	y  [kinds]uint32
	n  uint32

	mirrored bool
}

// Add counts one candidate.
func (t *Tally) Add(h *handle.Handle) {
	var buf [handle.HandSize]tile.Kind
	pool := h.Pool.AppendKinds(buf[:0])

	t.n++
	for i, a := range pool {
		t.y[a]++
		for _, b := range pool[i:] {
			t.yy[a][b]++
		}
	}
	for i, k := range h.Hand {
		t.g[i][k]++
	}
	for p := 0; p < pairs; p++ {
		a, b := h.Hand[p], h.Hand[p+1]
		t.gg[p][a][b]++
		gy, yg := &t.gy[p], &t.yg[p]
		for _, q := range pool {
			gy[a][q]++
			yg[q][b]++
		}
	}
}

// Merge adds another unmirrored tally into t.
func (t *Tally) Merge(o *Tally) {
	t.n += o.n
	for a := 0; a < kinds; a++ {
		t.y[a] += o.y[a]
		for b := 0; b < kinds; b++ {
			t.yy[a][b] += o.yy[a][b]
		}
	}
	for i := range t.g {
		for a := 0; a < kinds; a++ {
			t.g[i][a] += o.g[i][a]
		}
	}
	for p := 0; p < pairs; p++ {
		for a := 0; a < kinds; a++ {
			for b := 0; b < kinds; b++ {
				t.gg[p][a][b] += o.gg[p][a][b]
				t.gy[p][a][b] += o.gy[p][a][b]
				t.yg[p][a][b] += o.yg[p][a][b]
			}
		}
	}
}

// mirror copies the upper triangle of yy below the diagonal. Call once, after merging.
func (t *Tally) mirror() {
	if t.mirrored {
		return
	}
	for a := 0; a < kinds; a++ {
		for b := a + 1; b < kinds; b++ {
			t.yy[b][a] = t.yy[a][b]
		}
	}
	t.mirrored = true
}

// Len is the number of candidates counted.
func (t *Tally) Len() int { return int(t.n) }

// TallyOf counts hs, splitting the work across workers shards.
func TallyOf(ctx context.Context, hs []handle.Handle, workers int) (*Tally, error) {
	if workers < 1 {
		workers = 1
	}
	chunk := (len(hs) + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	var parts []*Tally
	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(hs); lo += chunk {
		hi := min(lo+chunk, len(hs))
		part := new(Tally)
		parts = append(parts, part)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckEvery == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				part.Add(&hs[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := new(Tally)
	for _, p := range parts {
		total.Merge(p)
	}
	total.mirror()
	return total, nil
}

const (
	minChunk         = 4096
	cancelCheckEvery = 1 << 16
)
