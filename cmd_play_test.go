package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/enumerate"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/session"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/store"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/tile"
)

func TestKeptProgress(t *testing.T) {
	u, err := enumerate.Collect(context.Background(), []enumerate.Generator{enumerate.ThirteenUnique{}})
	if err != nil {
		t.Fatal(err)
	}
	opts := solver.DefaultOptions()
	opts.Workers = 1
	engine, err := solver.New(opts, len(u))
	if err != nil {
		t.Fatal(err)
	}
	sess := session.New(session.Static(u), engine, handle.Context{})
	se := &session.StageError{Stage: session.StageFilter}
	if got := keptProgress(sess, se); got != "progress is kept (no rounds yet)" {
		t.Errorf("before any round: %q", got)
	}
	if _, err := sess.Next(context.Background()); err != nil {
		t.Fatal(err)
	}
	r, err := sess.Observe(handle.Feedback(handle.BestFirst().Hand, u[0].Hand))
	if err != nil {
		t.Fatal(err)
	}
	se.Remaining = r.Remaining
	want := fmt.Sprintf("progress is kept (1 rounds, %d candidates)", r.Remaining)
	if got := keptProgress(sess, se); got != want {
		t.Errorf("after one round: %q, want %q", got, want)
	}
}

func TestPlayInteractive(t *testing.T) {
	u, err := enumerate.Collect(context.Background(), []enumerate.Generator{
		enumerate.ThirteenUnique{},
		enumerate.Standard{Span: enumerate.Span{First: tile.East, Last: tile.Red}},
	})
	if err != nil {
		t.Fatal(err)
	}
	var secret handle.Hand
	for _, h := range u {
		if h.Flags&handle.Always != 0 {
			secret = h.Hand
			break
		}
	}
	opts := solver.DefaultOptions()
	opts.Workers = 2
	engine, err := solver.New(opts, len(u))
	if err != nil {
		t.Fatal(err)
	}
	db, err := openStore(filepath.Join(t.TempDir(), "play.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	journal := store.NewJournal(db)
	showTop = 3

	// Answer each guess honestly; a bogus line and an impossible result come first.
	sess := session.New(session.Static(u), engine, handle.Context{})
	in := &judgeReader{secret: secret, sess: sess, lines: []string{"garbage", handle.AllMatch.String()}}
	var out bytes.Buffer
	if err := playInteractive(context.Background(), sess, journal, in, &out); err != nil {
		t.Fatalf("play: %v\n%s", err, out.String())
	}
	if _, ok := sess.Solved(); !ok {
		t.Fatalf("not solved:\n%s", out.String())
	}
	text := out.String()
	for _, want := range []string{"check the result", "progress is kept (no rounds yet)", "solved in", secret.String()} {
		if !strings.Contains(text, want) {
			t.Errorf("output lacks %q:\n%s", want, text)
		}
	}

	entry, err := journal.Get(context.Background(), sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Status != store.StatusSolved || len(entry.Rounds) != len(sess.Rounds()) {
		t.Fatalf("journal = %+v", entry)
	}
}

// judgeReader feeds scripted lines, then the true result for whatever guess is pending.
type judgeReader struct {
	secret handle.Hand
	sess   *session.Session
	lines  []string
	buf    []byte
}

func (r *judgeReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		line := ""
		if len(r.lines) > 0 {
			line, r.lines = r.lines[0], r.lines[1:]
		} else {
			pending := r.sess.Snapshot().Pending
			if pending == nil {
				return 0, context.Canceled
			}
			line = handle.Feedback(pending.Hand, r.secret).String()
		}
		r.buf = []byte(line + "\n")
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
