package enumerate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/tile"
)

func drain(t *testing.T, g Generator) []handle.Handle {
	t.Helper()
	var out []handle.Handle
	if err := g.Generate(context.Background(), func(h handle.Handle) error {
		out = append(out, h)
		return nil
	}); err != nil {
		t.Fatalf("%s: %v", g.Name(), err)
	}
	return out
}

func distinct(hs []handle.Handle) map[handle.Hand]bool {
	m := make(map[handle.Hand]bool, len(hs))
	for _, h := range hs {
		m[h.Hand] = true
	}
	return m
}

func TestStandardHonorsOnly(t *testing.T) {
	// 4 triplet kinds of 7, pair from the other 3, won on any of the 5 groups.
	hs := drain(t, Standard{Span: Span{First: tile.East, Last: tile.Red}})
	if len(hs) != 525 {
		t.Fatalf("emitted %d hands, want 525", len(hs))
	}
	if n := len(distinct(hs)); n != 525 {
		t.Fatalf("distinct %d, want 525", n)
	}
	for _, h := range hs {
		if err := h.Hand.Validate(); err != nil {
			t.Fatalf("%s: %v", h, err)
		}
		if h.Flags != handle.Always {
			t.Fatalf("%s: flags %s, want always", h, h.Flags)
		}
	}
}

// bruteForce lists every complete hand over span by walking all tile multisets.
func bruteForce(span Span) map[handle.Hand]bool {
	out := map[handle.Hand]bool{}
	var c tile.Counts
	var walk func(k tile.Kind, left int)
	walk = func(k tile.Kind, left int) {
		if left == 0 {
			for w := span.First; w <= span.Last; w++ {
				if c[w] == 0 {
					continue
				}
				h := fromCounts(c, w)
				if len(h.Families()) > 0 {
					out[h] = true
				}
			}
			return
		}
		if k > span.Last {
			return
		}
		for n := 0; n <= tile.MaxCopies && n <= left; n++ {
			c[k] = uint8(n)
			walk(k+1, left-n)
		}
		c[k] = 0
	}
	walk(span.First, handle.HandSize)
	return out
}

func TestSingleSuitMatchesBruteForce(t *testing.T) {
	span := Span{First: tile.Man1, Last: tile.Man9}
	want := bruteForce(span)

	got, err := Collect(context.Background(), []Generator{Standard{Span: span}, SevenPairs{Span: span}})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("collected %d hands, brute force %d", len(got), len(want))
	}
	for _, h := range got {
		if !want[h.Hand] {
			t.Fatalf("%s not a complete hand", h.Hand)
		}
		// every single-suit hand is a flush
		if h.Flags != handle.Always {
			t.Errorf("%s: flags %s", h.Hand, h.Flags)
		}
	}
}

func TestSevenPairs(t *testing.T) {
	hs := drain(t, SevenPairs{Span: Span{First: tile.Man1, Last: tile.Man8}})
	if len(hs) != 56 {
		t.Fatalf("emitted %d, want C(8,7)*7 = 56", len(hs))
	}
	if n := len(distinct(hs)); n != 56 {
		t.Fatalf("distinct %d, want 56", n)
	}
	for _, h := range hs {
		if err := h.Hand.Validate(); err != nil {
			t.Fatalf("%s: %v", h, err)
		}
	}
	if hs := drain(t, SevenPairs{Span: Span{First: tile.East, Last: tile.Red}}); len(hs) != 7 {
		t.Errorf("honor pairs: %d hands, want 7", len(hs))
	}
}

func TestThirteenUnique(t *testing.T) {
	hs := drain(t, ThirteenUnique{})
	if len(hs) != 169 {
		t.Fatalf("emitted %d, want 169", len(hs))
	}
	if n := len(distinct(hs)); n != 169 {
		t.Fatalf("distinct %d, want 169", n)
	}
	for _, h := range hs {
		if err := h.Hand.Validate(); err != nil {
			t.Fatalf("%s: %v", h, err)
		}
	}
}

func TestCollectorMerges(t *testing.T) {
	h := handle.MustParseHand("112233m445566p7s7s")
	c := NewCollector()
	c.Add(handle.New(h, handle.VoidOnSelfDraw))
	c.Add(handle.New(h, handle.AnyEast))
	c.Add(handle.New(h, handle.AnyWest))
	hs := c.Handles()
	if len(hs) != 1 || hs[0].Flags != handle.AnyEast|handle.AnyWest {
		t.Fatalf("merged = %v", hs)
	}
	c.Add(handle.New(h, handle.Always))
	if got := c.Handles()[0].Flags; got != handle.Always {
		t.Errorf("flags = %s, want always", got)
	}
}

func TestRunPropagatesSinkError(t *testing.T) {
	boom := errors.New("boom")
	n := 0
	_, err := Run(context.Background(), []Generator{ThirteenUnique{}}, func(handle.Handle) error {
		n++
		if n == 10 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

// repeatGen emits the same hand n times and counts what got through.
type repeatGen struct {
	n       int
	emitted *atomic.Int64
}

func (repeatGen) Name() string { return "repeat" }

func (g repeatGen) Generate(ctx context.Context, emit func(handle.Handle) error) error {
	h := handle.BestFirst()
	for i := 0; i < g.n; i++ {
		if err := emit(h); err != nil {
			return err
		}
		g.emitted.Add(1)
	}
	return nil
}

func TestRunStopsProducersOnSinkError(t *testing.T) {
	const total = 1_000_000
	full := errors.New("disk full")
	var emitted atomic.Int64
	calls := 0
	_, err := Run(context.Background(), []Generator{repeatGen{n: total, emitted: &emitted}}, func(handle.Handle) error {
		calls++
		return full
	})
	if !errors.Is(err, full) {
		t.Fatalf("err = %v, want the sink error", err)
	}
	if calls != 1 {
		t.Errorf("sink called %d times after failing", calls)
	}
	if got := emitted.Load(); got >= total {
		t.Fatalf("producer emitted all %d hands after the sink failed", got)
	}
}

func TestNarrowRunWait(t *testing.T) {
	cases := []struct {
		base tile.Kind
		off  int
		want bool
	}{
		{tile.Man1, 0, false},
		{tile.Man1, 1, true},
		{tile.Man1, 2, true},
		{tile.Man7, 0, true},
		{tile.Man7, 2, false},
		{tile.Pin4, 0, false},
		{tile.Pin4, 2, false},
	}
	for _, tc := range cases {
		if got := narrowRunWait(tc.base, tc.off); got != tc.want {
			t.Errorf("narrowRunWait(%v, %d) = %v, want %v", tc.base, tc.off, got, tc.want)
		}
	}
}
