package handle

import (
	"fmt"
	"strings"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/tile"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/yaku"
)

// Flags records under which game contexts a hand scores.
//
//	bits 0-3  any-of: scores when at least one flagged wind is live
//	bits 4-5  none-of selector: scores unless the named wind is live
//	bit  6    voided when the hand is won by self-draw
//	bit  7    always scores
//
// Exactly one reading applies, checked from bit 7 downwards.
type Flags uint8

const (
	AnyEast  Flags = 0x01
	AnySouth Flags = 0x02
	AnyWest  Flags = 0x04
	AnyNorth Flags = 0x08
	MaskAny  Flags = 0x0F

	NoneEast  Flags = 0x00
	NoneSouth Flags = 0x10
	NoneWest  Flags = 0x20
	NoneNorth Flags = 0x30
	MaskNone  Flags = 0x30

	VoidOnSelfDraw Flags = 0x40
	Always         Flags = 0x80
)

// AnyWind is the any-of bit for w.
func AnyWind(w tile.Wind) Flags { return AnyEast << w }

// NoneOfWind is the none-of selector naming w.
func NoneOfWind(w tile.Wind) Flags { return Flags(w) << 4 }

func (f Flags) String() string {
	switch {
	case f&Always != 0:
		return "always"
	case f&VoidOnSelfDraw != 0:
		return "not-self-draw"
	case f&MaskAny != 0:
		var b strings.Builder
		b.WriteString("any:")
		for w := tile.Wind(0); w < tile.NumWinds; w++ {
			if f&AnyWind(w) != 0 {
				b.WriteByte(contextLetters[w+1])
			}
		}
		return b.String()
	default:
		return "none:" + string(contextLetters[tile.Wind(f&MaskNone>>4)+1])
	}
}

// Context is the real game's draw method and live winds, fixed for a session.
type Context struct {
	SelfDraw bool
	Winds    [tile.NumWinds]bool
}

var contextLetters = [...]byte{'t', 'e', 's', 'w', 'n'}

// ParseContext reads the letters t (self-draw) and e s w n (live winds), in any case.
// Other characters are ignored.
func ParseContext(s string) Context {
	var c Context
	for _, r := range strings.ToLower(s) {
		switch r {
		case 't':
			c.SelfDraw = true
		case 'e':
			c.Winds[tile.WindEast] = true
		case 's':
			c.Winds[tile.WindSouth] = true
		case 'w':
			c.Winds[tile.WindWest] = true
		case 'n':
			c.Winds[tile.WindNorth] = true
		}
	}
	return c
}

func (c Context) String() string {
	var b strings.Builder
	if c.SelfDraw {
		b.WriteByte('t')
	}
	for w, live := range c.Winds {
		if live {
			b.WriteByte(contextLetters[w+1])
		}
	}
	return b.String()
}

// windMask packs the live winds into the any-of bit layout.
func (c Context) windMask() Flags {
	var m Flags
	for w, live := range c.Winds {
		if live {
			m |= AnyWind(tile.Wind(w))
		}
	}
	return m
}

// Qualifies resolves flags against the session context.
func Qualifies(f Flags, c Context) bool {
	switch {
	case f&Always != 0:
		return true
	case f&VoidOnSelfDraw != 0:
		// The selector bits are zero here; they do not mean none-of-east.
		return !c.SelfDraw
	case f&MaskAny != 0:
		return f&c.windMask() != 0
	default:
		return !c.Winds[tile.Wind(f&MaskNone>>4)]
	}
}

// DeriveFlags folds an oracle verdict into flags.
//   - unconditional yaku: always.
//   - wind triplets: any-of bits.
//   - pinfu with a wind pair: none-of that wind; pinfu alone: always.
//   - nothing: voided on self-draw.
func DeriveFlags(v yaku.Verdict) Flags {
	if v.Always() {
		return Always
	}
	var f Flags
	pinfu := v.Has(yaku.Pinfu)
	pendingPair := false
	for _, c := range v.Conditional {
		switch c.Rule {
		case yaku.WindTriplet:
			f |= AnyWind(c.Wind)
		case yaku.WindPair:
			if pinfu {
				f |= NoneOfWind(c.Wind)
				pendingPair = true
			}
		}
	}
	switch {
	case pinfu && !pendingPair:
		return Always
	case !pinfu && f&MaskAny == 0:
		return VoidOnSelfDraw
	}
	return f
}

// Merge combines the flags of two readings of the same hand, keeping the more permissive.
// Two any-of masks union their winds; a mask that survives self-draw beats one that does not.
// Otherwise the existing mask a is kept.
func Merge(a, b Flags) Flags {
	switch {
	case a&Always != 0 || b&Always != 0:
		return Always
	case a&VoidOnSelfDraw != 0 && b&VoidOnSelfDraw == 0:
		return b
	case b&VoidOnSelfDraw != 0:
		return a
	case a&MaskAny != 0 && b&MaskAny != 0:
		return (a | b) & MaskAny
	}
	return a
}

// Validate rejects bit patterns no reading produces.
func (f Flags) Validate() error {
	switch {
	case f&Always != 0 && f != Always:
		return fmt.Errorf("flags %08b: always combined with other bits", uint8(f))
	case f&VoidOnSelfDraw != 0 && f != VoidOnSelfDraw:
		return fmt.Errorf("flags %08b: self-draw bit combined with other bits", uint8(f))
	case f&MaskAny != 0 && f&MaskNone != 0:
		return fmt.Errorf("flags %08b: any-of and none-of both set", uint8(f))
	}
	return nil
}
