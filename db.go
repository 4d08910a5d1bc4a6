// apps/handle-solver/db.go
//
// Database helpers for the commands.
// Responsibilities:
//   - Opening the SQLite database named by data.db.
//   - Applying the embedded migrations (idempotent, recorded in _migrations).
//
// An empty data.db disables the journal and the daily leaderboard.

package main

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/handle-solver/assets"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/store"
)

// openStore opens data.db and brings its schema up to date. It returns a nil
// handle when no database is configured.
func openStore(dsn string) (*sql.DB, error) {
	if dsn == "" {
		log.Info().Msg("no database configured; journal and leaderboard disabled")
		return nil, nil
	}
	db, err := store.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", dsn, err)
	}
	if err := store.Migrate(db, assets.Migrations()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}
	log.Debug().Str("db", dsn).Msg("database ready")
	return db, nil
}
