package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/tile"
)

// ErrNegativeCategory reports an outcome count below zero, which means the tallies
// were accumulated inconsistently.
var ErrNegativeCategory = errors.New("negative outcome count")

// Outcome is the verdict pair on slots (t, t+1).
type Outcome uint8

const (
	MatchMatch Outcome = iota
	MatchPresent
	PresentMatch
	PresentPresent
	MatchAbsent
	AbsentMatch
	PresentAbsent
	AbsentPresent
	AbsentAbsent
	numOutcomes
)

// Categories returns how many counted candidates produce each outcome for a guess
// holding a at slot p and b at slot p+1.
func (t *Tally) Categories(p int, a, b tile.Kind) ([numOutcomes]int64, error) {
	t.mirror()
	gg := int64(t.gg[p][a][b])
	gy := int64(t.gy[p][a][b])
	yg := int64(t.yg[p][a][b])
	yy := int64(t.yy[a][b])
	ga := int64(t.g[p][a])
	gb := int64(t.g[p+1][b])
	ya, yb := int64(t.y[a]), int64(t.y[b])

	var c [numOutcomes]int64
	c[MatchMatch] = gg
	c[MatchPresent] = gy - gg
	c[PresentMatch] = yg - gg
	c[PresentPresent] = yy + gg - gy - yg
	c[MatchAbsent] = ga - gy
	c[AbsentMatch] = gb - yg
	c[PresentAbsent] = ya - yy - c[MatchAbsent]
	c[AbsentPresent] = yb - yy - c[AbsentMatch]
	c[AbsentAbsent] = int64(t.n) + yy - ya - yb

	for o, v := range c {
		if v < 0 {
			return c, fmt.Errorf("%w: slot %d, %v%v, outcome %d = %d", ErrNegativeCategory, p, a, b, o, v)
		}
	}
	return c, nil
}

// Table caches the outcome entropy, in bits, of every (slot pair, kind, kind).
type Table [pairs][kinds][kinds]float64

// Entropies prices every slot pair and kind pair.
func (t *Tally) Entropies() (*Table, error) {
	tab := new(Table)
	if t.n == 0 {
		return tab, nil
	}
	n := float64(t.n)
	for p := 0; p < pairs; p++ {
		for a := tile.Kind(0); a < kinds; a++ {
			for b := tile.Kind(0); b < kinds; b++ {
				c, err := t.Categories(p, a, b)
				if err != nil {
					return nil, err
				}
				var h float64
				for _, v := range c {
					if v > 0 {
						q := float64(v) / n
						h -= q * math.Log2(q)
					}
				}
				tab[p][a][b] = h
			}
		}
	}
	return tab, nil
}

// Score approximates the information a guess yields as the sum of its 13 pair entropies.
func (tab *Table) Score(h *handle.Hand) float64 {
	var s float64
	for p := 0; p < pairs; p++ {
		s += tab[p][h[p]][h[p+1]]
	}
	return s
}
