package handle

import (
	"errors"
	"testing"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/tile"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/yaku"
)

func TestQualifies(t *testing.T) {
	cases := []struct {
		name  string
		flags Flags
		ctx   string
		want  bool
	}{
		{"always under self-draw", Always, "t", true},
		{"always empty", Always, "", true},
		{"void on self-draw", VoidOnSelfDraw, "t", false},
		{"void without self-draw", VoidOnSelfDraw, "esw", true},
		{"void bit ignores the wind selector", VoidOnSelfDraw, "e", true},
		{"any east, none live", AnyEast, "", false},
		{"any east, east live", AnyEast, "E", true},
		{"any south|west, west live", AnySouth | AnyWest, "tw", true},
		{"none east, east live", NoneEast, "e", false},
		{"none east, south live", NoneEast, "s", true},
		{"none north, north live", NoneNorth, "n", false},
		{"none north, empty", NoneNorth, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Qualifies(tc.flags, ParseContext(tc.ctx)); got != tc.want {
				t.Errorf("Qualifies(%s, %q) = %v, want %v", tc.flags, tc.ctx, got, tc.want)
			}
		})
	}
}

func TestParseContext(t *testing.T) {
	c := ParseContext("TeX n")
	if !c.SelfDraw || !c.Winds[tile.WindEast] || !c.Winds[tile.WindNorth] || c.Winds[tile.WindSouth] {
		t.Fatalf("ParseContext = %+v", c)
	}
	if c.String() != "ten" {
		t.Errorf("String = %q", c.String())
	}
}

func group(typ tile.GroupType, b tile.Kind) tile.Group { return tile.Group{Type: typ, Base: b} }

func TestDeriveFlags(t *testing.T) {
	runs := func(p tile.Kind, narrow bool) yaku.Partition {
		return yaku.Partition{
			Groups: [5]tile.Group{
				group(tile.Pair, p),
				group(tile.Run, tile.Pin2), group(tile.Run, tile.Pin5),
				group(tile.Run, tile.Sou3), group(tile.Run, tile.Man6),
			},
			WinGroup: 1,
			Narrow:   narrow,
		}
	}
	cases := []struct {
		name string
		p    yaku.Partition
		want Flags
	}{
		{"pinfu", runs(tile.Man1, false), Always},
		{"no pinfu on narrow wait", runs(tile.Man1, true), VoidOnSelfDraw},
		{"dragon pair", runs(tile.Green, false), VoidOnSelfDraw},
		{"east pair", runs(tile.East, false), NoneEast},
		{"north pair", runs(tile.North, false), 0x30},
		{"wind triplets", yaku.Partition{
			Groups: [5]tile.Group{
				group(tile.Pair, tile.Man1),
				group(tile.Triplet, tile.East), group(tile.Triplet, tile.South),
				group(tile.Triplet, tile.West), group(tile.Run, tile.Sou5),
			},
			WinGroup: 2,
		}, 0x07},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveFlags(yaku.Evaluate(tc.p)); got != tc.want {
				t.Errorf("DeriveFlags = %08b, want %08b", got, tc.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	cases := []struct {
		a, b, want Flags
	}{
		{VoidOnSelfDraw, Always, Always},
		{AnyEast, Always, Always},
		{VoidOnSelfDraw, AnyWest, AnyWest},
		{NoneSouth, VoidOnSelfDraw, NoneSouth},
		{AnyEast, AnyNorth, AnyEast | AnyNorth},
		{NoneEast, NoneWest, NoneEast},
	}
	for _, tc := range cases {
		if got := Merge(tc.a, tc.b); got != tc.want {
			t.Errorf("Merge(%s, %s) = %s, want %s", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestRecordRoundTrip(t *testing.T) {
	hands := []Handle{
		BestFirst(),
		New(MustParseHand("2235m345p345888s4m"), VoidOnSelfDraw),
		New(MustParseHand("19m19p19s1234567z7z"), Always),
		New(MustParseHand("11m567s11122333z2z"), AnyEast|AnySouth|AnyWest),
		New(MustParseHand("234567m234p56s44z7s"), NoneNorth),
	}
	for _, h := range hands {
		r := Encode(h)
		got, err := Decode(r)
		if err != nil {
			t.Fatalf("Decode(%s): %v", h, err)
		}
		if got != h {
			t.Errorf("round trip %s -> %s", h, got)
		}
	}
}

func TestRecordLayout(t *testing.T) {
	h := BestFirst()
	r := Encode(h)
	if r[15] != byte(Always) {
		t.Errorf("flags byte = %08b", r[15])
	}
	if r[14]&0x3F != byte(h.Hand[0]) {
		t.Errorf("slot 0 = %d, want %d", r[14]&0x3F, h.Hand[0])
	}
	if r[0]&0xC0 != 0 {
		t.Errorf("reserved bits set: %08b", r[0])
	}
}

func TestDecodeMalformed(t *testing.T) {
	good := Encode(BestFirst())

	badPool := good
	badPool[1] ^= 0x10
	reserved := good
	reserved[0] |= 0x80
	badKind := good
	badKind[14] |= 0x3F

	for name, r := range map[string]Record{"pool": badPool, "reserved": reserved, "kind": badKind} {
		if _, err := Decode(r); !errors.Is(err, ErrMalformedRecord) {
			t.Errorf("%s: err = %v, want ErrMalformedRecord", name, err)
		}
	}
}

func TestHandValidate(t *testing.T) {
	valid := []string{
		"2235m345p345888s4m",
		"112233m445566p7s7s",
		"19m19p19s1234567z9p",
	}
	for _, s := range valid {
		h := MustParseHand(s)
		if err := h.Validate(); err != nil {
			t.Errorf("%s: %v", s, err)
		}
	}
	h := BestFirst().Hand
	if err := h.Validate(); err != nil {
		t.Errorf("opening guess invalid: %v", err)
	}
	bad := MustParseHand("12345678m123p12s9s")
	if err := bad.Validate(); err == nil {
		t.Errorf("%s accepted", bad)
	}
	both := MustParseHand("112233m445566p7s7s")
	fams := both.Families()
	if len(fams) != 2 {
		t.Errorf("families = %v, want standard and seven pairs", fams)
	}
}
