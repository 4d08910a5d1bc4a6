package game

import (
	"errors"
	"testing"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
)

func TestApplyGuess(t *testing.T) {
	secret := handle.MustParseHand("2235m345p345888s4m")
	tests := []struct {
		name    string
		guesses []string
		want    State
		wantErr error
	}{
		{"win first try", []string{"2235m345p345888s4m"}, StateWon, nil},
		{"wrong then right", []string{"12345678m11p123s9m", "2235m345p345888s4m"}, StateWon, nil},
		{"illegal hand", []string{"1234567m1234567p"}, StatePlaying, ErrInvalidGuess},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := New(secret)
			var state State
			var err error
			for _, s := range tc.guesses {
				_, state, err = g.ApplyGuess(handle.MustParseHand(s))
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if state != tc.want {
				t.Fatalf("state = %s, want %s", state, tc.want)
			}
		})
	}
}

func TestLossAfterRows(t *testing.T) {
	g := New(handle.MustParseHand("2235m345p345888s4m"))
	wrong := handle.MustParseHand("12345678m11p123s9m")
	var state State
	for i := 0; i < g.Rows; i++ {
		res, st, err := g.ApplyGuess(wrong)
		if err != nil {
			t.Fatalf("guess %d: %v", i+1, err)
		}
		if res.Solved() {
			t.Fatal("wrong guess solved the game")
		}
		state = st
	}
	if state != StateLost || !g.Finished || g.Won {
		t.Fatalf("state = %s finished=%v won=%v", state, g.Finished, g.Won)
	}
	if _, _, err := g.ApplyGuess(wrong); !errors.Is(err, ErrFinished) {
		t.Fatalf("guess after loss: err = %v", err)
	}
	if len(g.Guesses) != g.Rows || len(g.Results) != g.Rows {
		t.Fatalf("recorded %d guesses, %d results", len(g.Guesses), len(g.Results))
	}
}

func TestJudgeMatchesFeedback(t *testing.T) {
	secret := handle.MustParseHand("2235m345p345888s4m")
	guess := handle.MustParseHand("12345678m11p123s9m")
	g := New(secret)
	got, err := g.Judge(guess)
	if err != nil {
		t.Fatal(err)
	}
	if want := handle.Feedback(guess, secret); got != want {
		t.Fatalf("Judge = %s, Feedback = %s", got, want)
	}
}

func TestRandom(t *testing.T) {
	if _, err := Random(nil); err == nil {
		t.Error("empty universe accepted")
	}
	u := []handle.Handle{handle.BestFirst()}
	g, err := Random(u)
	if err != nil {
		t.Fatal(err)
	}
	if g.Secret != u[0].Hand || g.ID == "" {
		t.Fatalf("game = %+v", g)
	}
}
