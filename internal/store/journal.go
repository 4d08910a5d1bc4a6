package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/session"
)

// Session statuses stored in the journal.
const (
	StatusPlaying = "playing"
	StatusSolved  = "solved"
	StatusFailed  = "failed"
)

// Journal records sessions and their rounds in SQLite, so a failed session still
// leaves its narrowing history behind.
type Journal struct{ db *sql.DB }

func NewJournal(db *sql.DB) *Journal { return &Journal{db: db} }

// Begin records a new session.
func (j *Journal) Begin(ctx context.Context, id string, c handle.Context, started time.Time) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO sessions(id, context, started_at, status) VALUES(?,?,?,?)`,
		id, c.String(), started.UTC().Format(time.RFC3339Nano), StatusPlaying,
	)
	return err
}

// Record appends one round.
func (j *Journal) Record(ctx context.Context, id string, r session.Round) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO rounds(session_id, round, guess, result, remaining) VALUES(?,?,?,?,?)`,
		id, r.Number, r.Guess.Hand.String(), r.Result.String(), r.Remaining,
	)
	return err
}

// Finish closes a session with status.
func (j *Journal) Finish(ctx context.Context, id, status string) error {
	res, err := j.db.ExecContext(ctx,
		`UPDATE sessions SET status=?, finished_at=? WHERE id=?`,
		status, time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// JournalEntry is a session row with its rounds.
type JournalEntry struct {
	ID       string
	Context  string
	Started  string
	Finished string
	Status   string
	Rounds   []JournalRound
}

// JournalRound is one stored round.
type JournalRound struct {
	Round     int
	Guess     string
	Result    string
	Remaining int
}

// Get loads a session and its rounds.
func (j *Journal) Get(ctx context.Context, id string) (*JournalEntry, error) {
	var e JournalEntry
	var finished sql.NullString
	err := j.db.QueryRowContext(ctx,
		`SELECT id, context, started_at, finished_at, status FROM sessions WHERE id=?`, id,
	).Scan(&e.ID, &e.Context, &e.Started, &finished, &e.Status)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session %s: %w", id, err)
	}
	e.Finished = finished.String

	rows, err := j.db.QueryContext(ctx,
		`SELECT round, guess, result, remaining FROM rounds WHERE session_id=? ORDER BY round`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var r JournalRound
		if err := rows.Scan(&r.Round, &r.Guess, &r.Result, &r.Remaining); err != nil {
			return nil, err
		}
		e.Rounds = append(e.Rounds, r)
	}
	return &e, rows.Err()
}
