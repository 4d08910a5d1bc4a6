package handle

import (
	"fmt"
	"strings"
)

// Color is the per-position verdict of the judge.
type Color uint8

const (
	Match   Color = iota // right kind, right slot (G)
	Present              // kind occurs elsewhere (Y)
	Absent               // no unconsumed copy left (N)
)

var colorLetters = [...]byte{'G', 'Y', 'N'}

func (c Color) String() string { return string(colorLetters[c]) }

// NumResults is 3^14, the number of distinct results.
const NumResults = 4782969

// Result is the judge's answer for one guess.
type Result [HandSize]Color

// AllMatch is the winning result.
var AllMatch Result

// ParseResult reads 14 characters: G/g is Match, Y/y is Present, anything else Absent.
func ParseResult(s string) (Result, error) {
	var r Result
	s = strings.TrimSpace(s)
	if len(s) != HandSize {
		return r, fmt.Errorf("result %q has %d symbols, want %d", s, len(s), HandSize)
	}
	for i := 0; i < HandSize; i++ {
		switch s[i] {
		case 'G', 'g':
			r[i] = Match
		case 'Y', 'y':
			r[i] = Present
		default:
			r[i] = Absent
		}
	}
	return r, nil
}

// MustParseResult is ParseResult for literals.
func MustParseResult(s string) Result {
	r, err := ParseResult(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Result) String() string {
	var b [HandSize]byte
	for i, c := range r {
		b[i] = colorLetters[c]
	}
	return string(b[:])
}

// Index is the base-3 value of the result, position 0 most significant.
// AllMatch is 0 and all Absent is NumResults-1.
func (r Result) Index() uint32 {
	var idx uint32
	for _, c := range r {
		idx = idx*3 + uint32(c)
	}
	return idx
}

// ResultFromIndex inverts Index.
func ResultFromIndex(idx uint32) Result {
	var r Result
	for i := HandSize - 1; i >= 0; i-- {
		r[i] = Color(idx % 3)
		idx /= 3
	}
	return r
}

// Solved reports whether every position matched.
func (r Result) Solved() bool { return r == AllMatch }
