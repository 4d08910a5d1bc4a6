// apps/handle-solver/cmd_universe.go
//
// Universe file commands.
//   - generate: enumerate every winning hand into data.universe (+ digest and index)
//   - index:    rebuild data.index from an existing universe file
//   - verify:   check the digest, every record and the index
//   - show:     decode one hand (by notation or record offset) and print what is known about it

package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/enumerate"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/session"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/universe"
)

var shards int

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Enumerate all winning hands into the universe file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Info().Str("universe", cfg.Data.Universe).Str("index", cfg.Data.Index).Int("shards", shards).Msg("generating")
		stats, err := universe.Build(cmd.Context(), enumerate.All(), cfg.Data.Universe, cfg.Data.Index, shards)
		if err != nil {
			return &session.StageError{Stage: session.StageEnumeration, Remaining: stats.Distinct, Err: err}
		}
		sum, err := universe.Digest(cfg.Data.Universe)
		if err != nil {
			return err
		}
		log.Info().Int("emitted", stats.Emitted).Int("distinct", stats.Distinct).
			Dur("took", stats.Took).Str("blake2b", sum).Msg("universe written")
		return nil
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the first-round index from the universe file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, err := universe.Reindex(cfg.Data.Universe)
		if err != nil {
			return err
		}
		if err := universe.WriteIndex(cfg.Data.Index, ix); err != nil {
			return err
		}
		log.Info().Str("index", cfg.Data.Index).Int("records", ix.Len()).Msg("index written")
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the universe digest, records and index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := universe.Verify(cfg.Data.Universe)
		if err != nil {
			return err
		}
		ix, err := universe.ReadIndex(cfg.Data.Index)
		if err != nil {
			return err
		}
		if ix.Len() != n {
			return fmt.Errorf("%w: index covers %d records, universe has %d; run index", universe.ErrIndexMismatch, ix.Len(), n)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d hands\n", n)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <hand|offset>",
	Short: "Describe one hand, given in tile notation or as a record offset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, known, err := lookupHand(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "hand:      %s\n", h.Hand)
		fmt.Fprintf(out, "key:       %d (%s)\n", universe.Key(&h.Hand), handle.Feedback(handle.BestFirst().Hand, h.Hand))
		fmt.Fprintf(out, "families:  %v\n", h.Hand.Families())
		if err := h.Hand.Validate(); err != nil {
			fmt.Fprintf(out, "invalid:   %v\n", err)
			return nil
		}
		if !known {
			fmt.Fprintln(out, "flags:     not in universe")
			return nil
		}
		fmt.Fprintf(out, "flags:     %s\n", h.Flags)
		return nil
	},
}

func init() {
	generateCmd.Flags().IntVar(&shards, "shards", 64, "temporary shard files used while deduplicating")
}

// lookupHand reads a record offset or parses notation; parsed hands are looked up in
// the universe through the index to recover their flags. known reports whether the
// flags came from the universe.
func lookupHand(arg string) (handle.Handle, bool, error) {
	if off, err := strconv.ParseUint(arg, 10, 32); err == nil {
		hs, err := universe.LoadRange(cfg.Data.Universe, uint32(off), uint32(off)+1)
		if err != nil {
			return handle.Handle{}, false, err
		}
		return hs[0], true, nil
	}
	hand, err := handle.ParseHand(arg)
	if err != nil {
		return handle.Handle{}, false, err
	}
	slices.Sort(hand[:handle.WinSlot])
	found, ok, err := findInUniverse(hand)
	if err != nil {
		log.Warn().Err(err).Msg("universe lookup failed")
	}
	if ok {
		return found, true, nil
	}
	return handle.New(hand, 0), false, nil
}

func findInUniverse(h handle.Hand) (handle.Handle, bool, error) {
	ix, err := universe.ReadIndex(cfg.Data.Index)
	if err != nil {
		return handle.Handle{}, false, err
	}
	k := universe.Key(&h)
	hs, err := universe.LoadRange(cfg.Data.Universe, ix[k], ix[k+1])
	if err != nil {
		return handle.Handle{}, false, err
	}
	for _, c := range hs {
		if c.Hand == h {
			return c, true, nil
		}
	}
	return handle.Handle{}, false, nil
}
