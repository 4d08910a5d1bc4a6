// apps/handle-solver/cmd_play.go
//
// Solver commands.
//   - play [context]:            interactive; prints a guess, reads the result it received
//   - simulate <context> <hand>: the solver plays against a known secret
//
// Context letters: t (tsumo), e/s/w/n (seat wind). Results are 14 letters:
// G match, Y present, anything else absent.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/game"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/session"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/store"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/universe"
)

var (
	showTop   int
	simRounds int
)

var playCmd = &cobra.Command{
	Use:   "play [context]",
	Short: "Solve a puzzle interactively",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := handle.ParseContext(firstArg(args))
		sess, err := newSession(c)
		if err != nil {
			return err
		}
		db, err := openStore(cfg.Data.DB)
		if err != nil {
			return err
		}
		var journal *store.Journal
		if db != nil {
			defer db.Close()
			journal = store.NewJournal(db)
		}
		return playInteractive(cmd.Context(), sess, journal, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <context> <secret>",
	Short: "Let the solver play against a known secret",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, err := handle.ParseHand(args[1])
		if err != nil {
			return err
		}
		slices.Sort(secret[:handle.WinSlot])
		if err := secret.Validate(); err != nil {
			return err
		}
		c := handle.ParseContext(args[0])
		sess, err := newSession(c)
		if err != nil {
			return err
		}

		g := game.New(secret)
		g.Rows = simRounds
		out := cmd.OutOrStdout()
		last, err := session.Play(cmd.Context(), sess, g.Judge, simRounds, func(r session.Round, p solver.Plan) {
			fmt.Fprintf(out, "%2d  %s  %s  %d left\n", r.Number, r.Guess.Hand, r.Result, r.Remaining)
		})
		if errors.Is(err, session.ErrRoundLimit) {
			fmt.Fprintf(out, "not solved in %d rounds\n", simRounds)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "solved in %d rounds\n", last.Number)
		return nil
	},
}

func init() {
	playCmd.Flags().IntVar(&showTop, "top", 5, "ranked guesses to show each round")
	simulateCmd.Flags().IntVar(&simRounds, "rounds", 10, "give up after this many rounds")
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// newSession builds an engine sized to the universe on disk and a session over it.
func newSession(c handle.Context) (*session.Session, error) {
	n, err := universe.Count(cfg.Data.Universe)
	if err != nil {
		return nil, &session.StageError{Stage: session.StageLoad, Err: err}
	}
	if err := cfg.Validate(n); err != nil {
		return nil, err
	}
	engine, err := solver.New(cfg.SolverOptions(), n)
	if err != nil {
		return nil, err
	}
	src := universe.NewSource(cfg.Data.Universe, cfg.Data.Index)
	log.Debug().Int("universe", n).Str("context", c.String()).Msg("session ready")
	return session.New(src, engine, c), nil
}

func playInteractive(ctx context.Context, sess *session.Session, journal *store.Journal, in io.Reader, out io.Writer) error {
	if journal != nil {
		if err := journal.Begin(ctx, sess.ID, sess.Context, sess.StartedAt); err != nil {
			log.Warn().Err(err).Msg("journal begin")
		}
	}
	finish := func(status string) {
		if journal == nil {
			return
		}
		if err := journal.Finish(ctx, sess.ID, status); err != nil {
			log.Warn().Err(err).Msg("journal finish")
		}
	}

	sc := bufio.NewScanner(in)
	for {
		plan, err := sess.Next(ctx)
		if err != nil {
			finish(store.StatusFailed)
			return err
		}
		printPlan(out, plan)
		fmt.Fprint(out, "result> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		result, err := handle.ParseResult(line)
		if err != nil {
			fmt.Fprintf(out, "  %v\n", err)
			continue
		}
		r, err := sess.Observe(result)
		var se *session.StageError
		if errors.As(err, &se) && se.Stage == session.StageFilter {
			fmt.Fprintf(out, "  %v\n  %s; check the result and enter it again\n", err, keptProgress(sess, se))
			continue
		}
		if err != nil {
			finish(store.StatusFailed)
			return err
		}
		if journal != nil {
			if err := journal.Record(ctx, sess.ID, r); err != nil {
				log.Warn().Err(err).Int("round", r.Number).Msg("journal round")
			}
		}
		if result.Solved() {
			finish(store.StatusSolved)
			fmt.Fprintf(out, "solved in %d rounds: %s\n", r.Number, r.Guess.Hand)
			return nil
		}
		fmt.Fprintf(out, "  %d candidates left\n", r.Remaining)
	}
}

// keptProgress describes what survives a rejected result: the session is unchanged.
func keptProgress(sess *session.Session, se *session.StageError) string {
	n := len(sess.Rounds())
	if n == 0 {
		return "progress is kept (no rounds yet)"
	}
	return fmt.Sprintf("progress is kept (%d rounds, %d candidates)", n, se.Remaining)
}

func printPlan(out io.Writer, p solver.Plan) {
	fmt.Fprintf(out, "guess: %s\n", p.Best().Hand)
	if p.Separator {
		fmt.Fprintln(out, "  (separates every remaining candidate)")
	}
	for i, s := range p.Ranked {
		if i >= showTop {
			break
		}
		mark := " "
		if s.Candidate {
			mark = "*"
		}
		fmt.Fprintf(out, "  %s %s  %.3f bits\n", mark, s.Guess.Hand, s.Entropy)
	}
}
