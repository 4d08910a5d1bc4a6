// apps/handle-solver/internal/yaku/yaku.go
//
// Scoring oracle for closed standard hands.
// Responsibilities:
//   - Decide which yaku a partition earns without knowing the round context.
//   - Report yaku that hold in every context as unconditional.
//   - Report context-dependent yaku (pinfu, wind triplets, wind pairs that void pinfu)
//     as conditional rules naming the wind they depend on.
//
// The enumerator turns a Verdict into handle flags; this package does not know about flags.
package yaku

import (
	"github.com/robalobadob/wordle/apps/handle-solver/internal/tile"
)

// Partition is one reading of a 14-tile standard hand.
type Partition struct {
	// Groups holds one pair and four melds in any order.
	Groups [5]tile.Group
	// WinGroup indexes the group completed by the winning tile.
	WinGroup int
	// Narrow marks pair, edge and closed waits.
	Narrow bool
}

// Pair returns the pair group.
func (p *Partition) Pair() tile.Group {
	for _, g := range p.Groups {
		if g.Type == tile.Pair {
			return g
		}
	}
	return p.Groups[0]
}

// Rule names a context-dependent yaku.
type Rule uint8

const (
	// Pinfu holds unless its wind pair is live.
	Pinfu Rule = iota
	// WindTriplet holds when its wind is live.
	WindTriplet
	// WindPair is not a yaku: it voids pinfu when its wind is live.
	WindPair
)

var ruleNames = [...]string{"pinfu", "wind-triplet", "wind-pair"}

func (r Rule) String() string { return ruleNames[r] }

// Conditional is a rule together with the wind it names.
type Conditional struct {
	Rule Rule
	Wind tile.Wind
}

// Verdict is the oracle output for one partition.
type Verdict struct {
	// Unconditional lists yaku that hold in every context.
	Unconditional []string
	// Conditional lists context-dependent rules.
	Conditional []Conditional
}

// Always reports whether the hand scores regardless of context.
func (v Verdict) Always() bool { return len(v.Unconditional) > 0 }

// Has reports whether the verdict contains a conditional rule.
func (v Verdict) Has(r Rule) bool {
	for _, c := range v.Conditional {
		if c.Rule == r {
			return true
		}
	}
	return false
}

type check struct {
	name string
	fn   func(p *Partition) bool
}

// registry of context-free yaku for a closed hand.
var registry = []check{
	{"tanyao", checkTanyao},
	{"iipeikou", checkIipeikou},
	{"sanshoku-doujun", checkSanshokuDoujun},
	{"sanshoku-doukou", checkSanshokuDoukou},
	{"ittsu", checkIttsu},
	{"chanta", checkChanta},
	{"honroutou", checkHonroutou},
	{"toitoi", checkToitoi},
	{"sanankou", checkSanankou},
	{"yakuhai-dragon", checkDragonTriplet},
	{"honitsu", checkHonitsu},
	{"shousuushii", checkShousuushii},
}

// Evaluate runs every check against the partition.
func Evaluate(p Partition) Verdict {
	var v Verdict
	for _, c := range registry {
		if c.fn(&p) {
			v.Unconditional = append(v.Unconditional, c.name)
		}
	}
	for _, g := range p.Groups {
		if g.Type != tile.Triplet {
			continue
		}
		if w, ok := g.Base.IsWind(); ok {
			v.Conditional = append(v.Conditional, Conditional{Rule: WindTriplet, Wind: w})
		}
	}
	if checkPinfuShape(&p) {
		v.Conditional = append(v.Conditional, Conditional{Rule: Pinfu})
		if w, ok := p.Pair().Base.IsWind(); ok {
			v.Conditional = append(v.Conditional, Conditional{Rule: WindPair, Wind: w})
		}
	}
	return v
}

func runs(p *Partition) []tile.Kind {
	var out []tile.Kind
	for _, g := range p.Groups {
		if g.Type == tile.Run {
			out = append(out, g.Base)
		}
	}
	return out
}

func triplets(p *Partition) []tile.Kind {
	var out []tile.Kind
	for _, g := range p.Groups {
		if g.Type == tile.Triplet {
			out = append(out, g.Base)
		}
	}
	return out
}

// checkPinfuShape: four runs, an open wait and a pair that is never a value pair.
func checkPinfuShape(p *Partition) bool {
	return len(runs(p)) == 4 && !p.Narrow && !p.Pair().Base.IsDragon()
}

func checkTanyao(p *Partition) bool {
	for _, g := range p.Groups {
		for _, k := range g.Tiles() {
			if k.IsTerminalOrHonor() {
				return false
			}
		}
	}
	return true
}

func checkIipeikou(p *Partition) bool {
	seen := map[tile.Kind]bool{}
	for _, b := range runs(p) {
		if seen[b] {
			return true
		}
		seen[b] = true
	}
	return false
}

// sameRankAllSuits reports whether some rank appears in all three numbered suits.
func sameRankAllSuits(bases []tile.Kind) bool {
	var mask [10]uint8
	for _, b := range bases {
		if b.IsHonor() {
			continue
		}
		mask[b.Rank()] |= 1 << b.Suit()
	}
	for _, m := range mask {
		if m == 0b111 {
			return true
		}
	}
	return false
}

func checkSanshokuDoujun(p *Partition) bool { return sameRankAllSuits(runs(p)) }

func checkSanshokuDoukou(p *Partition) bool { return sameRankAllSuits(triplets(p)) }

func checkIttsu(p *Partition) bool {
	var have [3][10]bool
	for _, b := range runs(p) {
		have[b.Suit()][b.Rank()] = true
	}
	for s := range have {
		if have[s][1] && have[s][4] && have[s][7] {
			return true
		}
	}
	return false
}

// checkChanta covers chanta and junchan: every group touches a terminal or honor
// and at least one run exists.
func checkChanta(p *Partition) bool {
	for _, g := range p.Groups {
		if !g.HasTerminalOrHonor() {
			return false
		}
	}
	return len(runs(p)) > 0
}

func checkHonroutou(p *Partition) bool {
	for _, g := range p.Groups {
		if g.Type == tile.Run || !g.Base.IsTerminalOrHonor() {
			return false
		}
	}
	return true
}

func checkToitoi(p *Partition) bool { return len(triplets(p)) == 4 }

// checkSanankou ignores the triplet completed by the winning tile, which is open on ron.
func checkSanankou(p *Partition) bool {
	n := 0
	for i, g := range p.Groups {
		if g.Type == tile.Triplet && i != p.WinGroup {
			n++
		}
	}
	return n >= 3
}

func checkDragonTriplet(p *Partition) bool {
	for _, b := range triplets(p) {
		if b.IsDragon() {
			return true
		}
	}
	return false
}

// checkHonitsu covers honitsu, chinitsu and tsuuiisou: at most one numbered suit.
func checkHonitsu(p *Partition) bool {
	var suits uint8
	for _, g := range p.Groups {
		if !g.Base.IsHonor() {
			suits |= 1 << g.Base.Suit()
		}
	}
	return suits&(suits-1) == 0
}

func checkShousuushii(p *Partition) bool {
	winds := 0
	for _, b := range triplets(p) {
		if _, ok := b.IsWind(); ok {
			winds++
		}
	}
	_, pairIsWind := p.Pair().Base.IsWind()
	return winds == 4 || (winds == 3 && pairIsWind)
}
