// apps/handle-solver/main.go
//
// Entry point for the handle solver.
// Responsibilities:
//   - Load .env (development) and the YAML/env configuration.
//   - Set the global zerolog level.
//   - Dispatch to the subcommands: generate, index, verify, show, play, simulate, serve.
//
// A failing session prints the stage it failed in and the candidates it still held,
// then exits non-zero.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/config"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/session"
)

var (
	configFile string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "handle-solver",
	Short:         "Enumerate winning mahjong hands and solve the hand-guessing puzzle",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return err
		}
		return config.ApplyLogLevel(cfg.Log.Level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "handle.yaml", "config file (optional)")
	rootCmd.AddCommand(generateCmd, indexCmd, verifyCmd, showCmd, playCmd, simulateCmd, serveCmd)
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var se *session.StageError
		if errors.As(err, &se) {
			fmt.Fprintf(os.Stderr, "stage=%s remaining=%d\n", se.Stage, se.Remaining)
		}
		log.Error().Err(err).Msg("handle-solver failed")
		stop()
		os.Exit(1)
	}
}
