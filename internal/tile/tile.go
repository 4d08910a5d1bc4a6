// apps/handle-solver/internal/tile/tile.go
//
// Tile kinds of a riichi set without red fives.
//   - 34 kinds numbered 0..33: 1-9m, 1-9p, 1-9s, then East South West North White Green Red.
//   - Adjacency (run successor) only exists inside a numbered suit.
//   - Winds are ordered East..North; wind i is bit i of a context or flag mask.
package tile

// Kind is a tile kind in 0..NumKinds-1.
type Kind uint8

// NumKinds is the number of distinct tile kinds.
const NumKinds = 34

// MaxCopies is the number of physical copies of each kind.
const MaxCopies = 4

const (
	Man1 Kind = iota
	Man2
	Man3
	Man4
	Man5
	Man6
	Man7
	Man8
	Man9
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	Pin8
	Pin9
	Sou1
	Sou2
	Sou3
	Sou4
	Sou5
	Sou6
	Sou7
	Sou8
	Sou9
	East
	South
	West
	North
	White
	Green
	Red
)

// Suit groups kinds for notation and adjacency.
type Suit uint8

const (
	SuitMan Suit = iota
	SuitPin
	SuitSou
	SuitHonor
)

var suitLetters = [...]byte{'m', 'p', 's', 'z'}

// Letter is the notation letter of the suit.
func (s Suit) Letter() byte { return suitLetters[s] }

// Wind indexes the four winds in seat order.
type Wind uint8

const (
	WindEast Wind = iota
	WindSouth
	WindWest
	WindNorth
)

// NumWinds is the number of wind kinds.
const NumWinds = 4

var windNames = [...]string{"east", "south", "west", "north"}

func (w Wind) String() string { return windNames[w] }

// Kind returns the honor kind for the wind.
func (w Wind) Kind() Kind { return East + Kind(w) }

// TerminalsAndHonors are the 13 kinds of a thirteen-unique hand, in kind order.
var TerminalsAndHonors = [13]Kind{Man1, Man9, Pin1, Pin9, Sou1, Sou9, East, South, West, North, White, Green, Red}

// Valid reports whether k is a real kind.
func (k Kind) Valid() bool { return k < NumKinds }

// Suit of the kind.
func (k Kind) Suit() Suit { return Suit(k / 9) }

// Rank is 1..9 for numbered kinds and 1..7 for honors.
func (k Kind) Rank() int { return int(k%9) + 1 }

func (k Kind) IsHonor() bool { return k >= East }

func (k Kind) IsDragon() bool { return k >= White }

// IsWind reports whether k is one of the four winds, returning which.
func (k Kind) IsWind() (Wind, bool) {
	if k >= East && k <= North {
		return Wind(k - East), true
	}
	return 0, false
}

// IsTerminal reports whether k is a 1 or 9 of a numbered suit.
func (k Kind) IsTerminal() bool {
	if k.IsHonor() {
		return false
	}
	r := k.Rank()
	return r == 1 || r == 9
}

func (k Kind) IsTerminalOrHonor() bool { return k.IsHonor() || k.IsTerminal() }

// Successor returns the next rank in the same numbered suit.
func (k Kind) Successor() (Kind, bool) {
	if k.IsHonor() || k.Rank() == 9 {
		return 0, false
	}
	return k + 1, true
}

// StartsRun reports whether a run k, k+1, k+2 exists.
func (k Kind) StartsRun() bool { return !k.IsHonor() && k.Rank() <= 7 }

// Counts is a per-kind multiset of tiles.
type Counts [NumKinds]uint8

// CountsOf tallies a tile slice.
func CountsOf(tiles []Kind) Counts {
	var c Counts
	for _, t := range tiles {
		c[t]++
	}
	return c
}

// Total is the number of tiles in the multiset.
func (c *Counts) Total() int {
	n := 0
	for _, v := range c {
		n += int(v)
	}
	return n
}

// Tiles flattens the multiset into ascending kind order.
func (c *Counts) Tiles() []Kind {
	out := make([]Kind, 0, c.Total())
	for k, v := range c {
		for i := uint8(0); i < v; i++ {
			out = append(out, Kind(k))
		}
	}
	return out
}
