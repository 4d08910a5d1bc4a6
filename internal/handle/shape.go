package handle

import (
	"fmt"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/tile"
)

// Family is the structural family of a winning hand.
type Family uint8

const (
	Standard Family = iota
	SevenPairs
	ThirteenUnique
)

var familyNames = [...]string{"standard", "seven-pairs", "thirteen-unique"}

func (f Family) String() string { return familyNames[f] }

// Families reports every family the hand completes.
func (h *Hand) Families() []Family {
	c := h.Counts()
	var out []Family
	if completesStandard(c) {
		out = append(out, Standard)
	}
	if completesSevenPairs(c) {
		out = append(out, SevenPairs)
	}
	if completesThirteenUnique(c) {
		out = append(out, ThirteenUnique)
	}
	return out
}

// Validate checks the canonical layout and that the hand is a complete winning hand.
func (h *Hand) Validate() error {
	for i, k := range h {
		if !k.Valid() {
			return fmt.Errorf("slot %d: kind %d out of range", i, k)
		}
	}
	for i := 1; i < WinSlot; i++ {
		if h[i] < h[i-1] {
			return fmt.Errorf("slots not sorted at %d", i)
		}
	}
	for k, n := range h.Counts() {
		if n > tile.MaxCopies {
			return fmt.Errorf("%d copies of %v", n, tile.Kind(k))
		}
	}
	if len(h.Families()) == 0 {
		return fmt.Errorf("%s is not a complete hand", h)
	}
	return nil
}

func completesSevenPairs(c tile.Counts) bool {
	for _, n := range c {
		if n != 0 && n != 2 {
			return false
		}
	}
	return true
}

func completesThirteenUnique(c tile.Counts) bool {
	doubled := 0
	for _, k := range tile.TerminalsAndHonors {
		switch c[k] {
		case 1:
		case 2:
			doubled++
		default:
			return false
		}
	}
	return doubled == 1 && c.Total() == HandSize
}

// completesStandard tries each pair and then strips melds greedily from the lowest kind.
func completesStandard(c tile.Counts) bool {
	for k := range c {
		if c[k] < 2 {
			continue
		}
		c[k] -= 2
		ok := meldsOnly(c)
		c[k] += 2
		if ok {
			return true
		}
	}
	return false
}

// meldsOnly reports whether c splits into triplets and runs. Taking a triplet first at
// the lowest kind is safe: three identical runs cover the same tiles.
func meldsOnly(c tile.Counts) bool {
	for k := 0; k < tile.NumKinds; k++ {
		for c[k] > 0 {
			if c[k] >= 3 {
				c[k] -= 3
				continue
			}
			kind := tile.Kind(k)
			if !kind.StartsRun() || c[k+1] == 0 || c[k+2] == 0 {
				return false
			}
			c[k]--
			c[k+1]--
			c[k+2]--
		}
	}
	return true
}
