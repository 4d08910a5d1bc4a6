// apps/handle-solver/internal/handle/handle.go
//
// Core value types of the solver.
//   - Hand: 14 tile kinds; slots 0..12 sorted ascending, slot 13 is the winning tile.
//   - Pool: presence set of the kinds in a hand.
//   - Handle: a hand, its pool and its context flags. One Handle is one candidate secret.
//
// Handles are plain values; the universe is a []Handle shared read-only by the solver.
package handle

import (
	"fmt"
	"math/bits"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/tile"
)

// HandSize is the number of tiles in a winning hand.
const HandSize = 14

// WinSlot is the position of the winning tile.
const WinSlot = HandSize - 1

// Hand is the positional tile layout the game compares against.
type Hand [HandSize]tile.Kind

// Pool is a 34-bit presence set; bit k is set when kind k occurs in the hand.
type Pool uint64

// Has reports whether kind k is present.
func (p Pool) Has(k tile.Kind) bool { return p&(1<<k) != 0 }

// With returns p with kind k added.
func (p Pool) With(k tile.Kind) Pool { return p | 1<<k }

// Len is the number of distinct kinds.
func (p Pool) Len() int { return bits.OnesCount64(uint64(p)) }

// AppendKinds appends the present kinds in ascending order to dst.
func (p Pool) AppendKinds(dst []tile.Kind) []tile.Kind {
	for v := uint64(p); v != 0; v &= v - 1 {
		dst = append(dst, tile.Kind(bits.TrailingZeros64(v)))
	}
	return dst
}

// Pool derives the presence set of the hand.
func (h *Hand) Pool() Pool {
	var p Pool
	for _, k := range h {
		p = p.With(k)
	}
	return p
}

// Counts tallies the hand by kind.
func (h *Hand) Counts() tile.Counts {
	return tile.CountsOf(h[:])
}

func (h Hand) String() string { return tile.Format(h[:]) }

// ParseHand reads a 14-tile hand in compact notation, winning tile last.
func ParseHand(s string) (Hand, error) {
	var h Hand
	ks, err := tile.Parse(s)
	if err != nil {
		return h, err
	}
	if len(ks) != HandSize {
		return h, fmt.Errorf("hand %q has %d tiles, want %d", s, len(ks), HandSize)
	}
	copy(h[:], ks)
	return h, nil
}

// MustParseHand is ParseHand for literals.
func MustParseHand(s string) Hand {
	h, err := ParseHand(s)
	if err != nil {
		panic(err)
	}
	return h
}

// Handle is one candidate: hand, derived pool and the context flags it scores under.
type Handle struct {
	Hand  Hand
	Pool  Pool
	Flags Flags
}

// New builds a Handle, deriving the pool from the hand.
func New(h Hand, f Flags) Handle {
	return Handle{Hand: h, Pool: h.Pool(), Flags: f}
}

func (h Handle) String() string {
	return fmt.Sprintf("%-20s %s", h.Hand.String(), h.Flags)
}

// BestFirst is the fixed opening guess: 345m 345p 345s 678s with a 7m pair, won on 7m.
func BestFirst() Handle {
	return New(Hand{2, 3, 4, 6, 11, 12, 13, 20, 21, 22, 23, 24, 25, 6}, Always)
}

// Filter keeps the handles for which keep returns true, in a fresh slice.
func Filter(hs []Handle, keep func(*Handle) bool) []Handle {
	out := make([]Handle, 0, len(hs)/4+1)
	for i := range hs {
		if keep(&hs[i]) {
			out = append(out, hs[i])
		}
	}
	return out
}

// FilterContext drops handles that cannot score under ctx.
func FilterContext(hs []Handle, ctx Context) []Handle {
	return Filter(hs, func(h *Handle) bool { return Qualifies(h.Flags, ctx) })
}

// FilterFeedback keeps handles consistent with result for guess.
func FilterFeedback(hs []Handle, guess Hand, result Result) []Handle {
	return Filter(hs, func(h *Handle) bool { return Satisfies(h.Hand, guess, result) })
}
