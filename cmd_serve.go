// apps/handle-solver/cmd_serve.go
//
// serve: the HTTP API over the universe on disk.
//   - Solver sessions live in memory; the journal records them in SQLite.
//   - First-round candidate sets are shared between sessions through the cache.
//   - A change to the config file re-applies log.level without a restart.

package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/cache"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/config"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/daily"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/httpserver"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/session"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/store"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/universe"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the solver and judge over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := universe.Count(cfg.Data.Universe)
		if err != nil {
			return &session.StageError{Stage: session.StageLoad, Err: err}
		}
		if err := cfg.Validate(n); err != nil {
			return err
		}
		engine, err := solver.New(cfg.SolverOptions(), n)
		if err != nil {
			return err
		}

		deps := httpserver.Deps{
			Engine:   engine,
			Sessions: store.NewMemorySessions(),
			Games:    store.NewMemoryGames(),
		}
		db, err := openStore(cfg.Data.DB)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
			deps.Journal = store.NewJournal(db)
			deps.Daily = daily.NewStore(db)
		}

		gc, err := cache.NewGeneralCache(cfg.Server.CacheMaxCost, cfg.Server.CacheTTL)
		if err != nil {
			return err
		}
		defer gc.Close()
		deps.Universe = cache.NewFirstRound(universe.NewSource(cfg.Data.Universe, cfg.Data.Index), gc)

		if cfg.Server.JwtSecret == "dev_secret_change_me" {
			log.Warn().Msg("server.jwtSecret is the development default")
		}
		srv, err := httpserver.New(deps, httpserver.Options{
			JWTSecret:  cfg.Server.JwtSecret,
			TokenTTL:   cfg.Server.TokenTTL,
			CORSOrigin: cfg.Server.CORSOrigin,
			DailySalt:  cfg.Daily.Salt,
			Timeout:    cfg.Server.Timeout,
			Monitor:    cfg.Server.Monitor,
		})
		if err != nil {
			return err
		}

		cfg.Watch(func(next *config.Config) {
			if next.Server.Addr != cfg.Server.Addr || next.Data != cfg.Data {
				log.Warn().Msg("address and data paths take effect on restart")
			}
		})

		log.Info().Str("addr", cfg.Server.Addr).Int("universe", n).Msg("starting handle-solver")
		return srv.Start(cfg.Server.Addr)
	},
}
