package tile

import (
	"fmt"
	"strings"
)

// Parse reads compact notation such as "2235m345p345888s4m": rank digits followed by
// the suit letter they belong to. Honors are 1z..7z.
func Parse(s string) ([]Kind, error) {
	var out []Kind
	var pending []int
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '1' && c <= '9':
			pending = append(pending, int(c-'0'))
		case c == 'm' || c == 'p' || c == 's' || c == 'z':
			if len(pending) == 0 {
				return nil, fmt.Errorf("suit %q at %d has no ranks", c, i)
			}
			suit := Suit(strings.IndexByte("mpsz", c))
			for _, r := range pending {
				if suit == SuitHonor && r > 7 {
					return nil, fmt.Errorf("honor rank %d out of range", r)
				}
				out = append(out, Kind(int(suit)*9+r-1))
			}
			pending = pending[:0]
		case c == ' ':
		default:
			return nil, fmt.Errorf("unexpected %q at %d", c, i)
		}
	}
	if len(pending) > 0 {
		return nil, fmt.Errorf("trailing ranks without suit in %q", s)
	}
	return out, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) []Kind {
	ks, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return ks
}

// Format writes tiles in order, emitting the suit letter whenever the suit changes.
func Format(tiles []Kind) string {
	var b strings.Builder
	for i, t := range tiles {
		if i > 0 && tiles[i-1].Suit() != t.Suit() {
			b.WriteByte(tiles[i-1].Suit().Letter())
		}
		b.WriteByte(byte('0' + t.Rank()))
	}
	if len(tiles) > 0 {
		b.WriteByte(tiles[len(tiles)-1].Suit().Letter())
	}
	return b.String()
}

func (k Kind) String() string { return Format([]Kind{k}) }
