package solver

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/enumerate"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/tile"
)

func randomHandles(rng *rand.Rand, n, kindRange int) []handle.Handle {
	out := make([]handle.Handle, n)
	for i := range out {
		var h handle.Hand
		for j := range h {
			h[j] = tile.Kind(rng.Intn(kindRange))
		}
		out[i] = handle.New(h, handle.Always)
	}
	return out
}

// outcomeOf classifies one candidate the way the tallies approximate it.
func outcomeOf(s *handle.Handle, p int, a, b tile.Kind) Outcome {
	verdict := func(slot int, k tile.Kind) int {
		switch {
		case s.Hand[slot] == k:
			return 0
		case s.Pool.Has(k):
			return 1
		}
		return 2
	}
	table := [3][3]Outcome{
		{MatchMatch, MatchPresent, MatchAbsent},
		{PresentMatch, PresentPresent, PresentAbsent},
		{AbsentMatch, AbsentPresent, AbsentAbsent},
	}
	return table[verdict(p, a)][verdict(p+1, b)]
}

func TestCategoriesMatchBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	hs := randomHandles(rng, 500, 8)
	tally, err := TallyOf(context.Background(), hs, 1)
	if err != nil {
		t.Fatal(err)
	}
	for p := 0; p < pairs; p++ {
		for a := tile.Kind(0); a < 9; a++ {
			for b := tile.Kind(0); b < 9; b++ {
				var want [numOutcomes]int64
				for i := range hs {
					want[outcomeOf(&hs[i], p, a, b)]++
				}
				got, err := tally.Categories(p, a, b)
				if err != nil {
					t.Fatalf("p=%d a=%d b=%d: %v", p, a, b, err)
				}
				if got != want {
					t.Fatalf("p=%d a=%d b=%d: got %v, want %v", p, a, b, got, want)
				}
			}
		}
	}
}

func TestShardedTallyEqualsSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	hs := randomHandles(rng, 20000, 34)
	serial, err := TallyOf(context.Background(), hs, 1)
	if err != nil {
		t.Fatal(err)
	}
	sharded, err := TallyOf(context.Background(), hs, 4)
	if err != nil {
		t.Fatal(err)
	}
	if *serial != *sharded {
		t.Fatal("sharded tally differs from serial tally")
	}
}

func TestEntropyBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	hs := randomHandles(rng, 300, 34)
	tally, err := TallyOf(context.Background(), hs, 2)
	if err != nil {
		t.Fatal(err)
	}
	tab, err := tally.Entropies()
	if err != nil {
		t.Fatal(err)
	}
	limit := math.Log2(float64(numOutcomes)) + 1e-9
	for p := range tab {
		for a := range tab[p] {
			for b, h := range tab[p][a] {
				if h < 0 || h > limit {
					t.Fatalf("entropy[%d][%d][%d] = %f", p, a, b, h)
				}
			}
		}
	}
}

func TestExactEntropy(t *testing.T) {
	same := []handle.Handle{handle.BestFirst(), handle.BestFirst(), handle.BestFirst()}
	g := handle.BestFirst().Hand
	if e, _ := ExactEntropy(&g, same, nil); e != 0 {
		t.Errorf("identical candidates: entropy %f", e)
	}
	distinctSet := separable()
	if e, _ := ExactEntropy(&g, distinctSet, nil); math.Abs(e-math.Log2(3)) > 1e-9 {
		t.Errorf("separated candidates: entropy %f, want log2(3)", e)
	}
}

// separable returns the opening guess and two hands that differ from it in one slot each.
func separable() []handle.Handle {
	a := handle.BestFirst()
	b, c := a.Hand, a.Hand
	b[0] = tile.East
	c[1] = tile.South
	return []handle.Handle{a, handle.New(b, handle.Always), handle.New(c, handle.Always)}
}

func TestPerfectSeparator(t *testing.T) {
	s := separable()
	g, ok := PerfectSeparator(s)
	if !ok {
		t.Fatal("no separator found")
	}
	if g.Hand != s[0].Hand {
		t.Errorf("separator = %s, want %s", g, s[0])
	}
	seen := map[handle.Result]bool{}
	for _, c := range s {
		r := handle.Feedback(g.Hand, c.Hand)
		if seen[r] {
			t.Fatalf("result %s repeats", r)
		}
		seen[r] = true
	}
}

func TestShortlist(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	u := randomHandles(rng, 1000, 34)
	tally, _ := TallyOf(context.Background(), u[:200], 1)
	tab, err := tally.Entropies()
	if err != nil {
		t.Fatal(err)
	}
	short := Shortlist(u, tab, 25)
	if len(short) != 25 {
		t.Fatalf("len = %d", len(short))
	}
	worstKept := short[len(short)-1].Score
	kept := map[uint32]bool{}
	for i, s := range short {
		kept[s.Index] = true
		if i > 0 && s.Score > short[i-1].Score {
			t.Fatalf("not sorted at %d", i)
		}
	}
	for i := range u {
		if !kept[uint32(i)] && tab.Score(&u[i].Hand) > worstKept {
			t.Fatalf("guess %d scores above the shortlist", i)
		}
	}
	if got := shortlistSize(100, 0, 7); got != 14 {
		t.Errorf("shortlistSize = %d", got)
	}
	if got := shortlistSize(100, 5, 7); got != 5 {
		t.Errorf("capped shortlistSize = %d", got)
	}
}

func smallUniverse(t *testing.T) []handle.Handle {
	t.Helper()
	u, err := enumerate.Collect(context.Background(), []enumerate.Generator{
		enumerate.ThirteenUnique{},
		enumerate.Standard{Span: enumerate.Span{First: tile.East, Last: tile.Red}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestEngineNext(t *testing.T) {
	u := smallUniverse(t)
	opts := DefaultOptions()
	opts.SeparatorLimit = 0
	opts.KillerSize = 5
	opts.Workers = 2
	e, err := New(opts, len(u))
	if err != nil {
		t.Fatal(err)
	}

	candidates := u[:169]
	plan, err := e.Next(context.Background(), candidates, u)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Ranked) == 0 || len(plan.Ranked) > 5 || plan.Separator {
		t.Fatalf("plan = %+v", plan)
	}
	for i, s := range plan.Ranked {
		want, _ := ExactEntropy(&s.Guess.Hand, candidates, nil)
		if math.Abs(want-s.Entropy) > 1e-9 {
			t.Errorf("rank %d: entropy %f, recomputed %f", i, s.Entropy, want)
		}
		if s.Entropy > math.Log2(float64(len(candidates)))+1e-9 {
			t.Errorf("rank %d: entropy %f above log2|S|", i, s.Entropy)
		}
		if i > 0 && s.Entropy > plan.Ranked[i-1].Entropy {
			t.Errorf("rank %d out of order", i)
		}
	}
}

func TestEngineDegenerate(t *testing.T) {
	u := separable()
	e, err := New(DefaultOptions(), len(u))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Next(context.Background(), nil, u); !errors.Is(err, ErrNoCandidates) {
		t.Errorf("empty set: err = %v", err)
	}
	plan, err := e.Next(context.Background(), u[1:2], u)
	if err != nil || plan.Best().Hand != u[1].Hand {
		t.Errorf("single candidate: plan %+v err %v", plan, err)
	}
	plan, err = e.Next(context.Background(), u, u)
	if err != nil || !plan.Separator {
		t.Errorf("separable set: plan %+v err %v", plan, err)
	}

	small := DefaultOptions()
	small.Budget = 2
	if _, err := New(small, len(u)); err == nil {
		t.Error("budget below universe size accepted")
	}
}
