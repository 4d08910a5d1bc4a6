package tile

// GroupType is the shape of a group in a standard hand.
type GroupType uint8

const (
	Pair GroupType = iota
	Triplet
	Run
)

var groupNames = [...]string{"pair", "triplet", "run"}

func (t GroupType) String() string { return groupNames[t] }

// Group is a pair, triplet or run identified by its lowest kind.
type Group struct {
	Type GroupType
	Base Kind
}

// Tiles lists the kinds the group consumes.
func (g Group) Tiles() []Kind {
	switch g.Type {
	case Pair:
		return []Kind{g.Base, g.Base}
	case Triplet:
		return []Kind{g.Base, g.Base, g.Base}
	default:
		return []Kind{g.Base, g.Base + 1, g.Base + 2}
	}
}

// Contains reports whether kind k is part of the group.
func (g Group) Contains(k Kind) bool {
	if g.Type == Run {
		return k >= g.Base && k <= g.Base+2
	}
	return k == g.Base
}

// HasTerminalOrHonor reports whether any tile of the group is a terminal or honor.
func (g Group) HasTerminalOrHonor() bool {
	if g.Type == Run {
		return g.Base.Rank() == 1 || g.Base.Rank() == 7
	}
	return g.Base.IsTerminalOrHonor()
}

func (g Group) String() string {
	return Format(g.Tiles())
}
