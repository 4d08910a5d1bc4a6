// apps/handle-solver/internal/httpserver/routes_daily.go
//
// Daily puzzle leaderboard. Daily games themselves go through /game/new {"daily":true};
// a win is recorded once per player and date.
//   - GET /daily/leaderboard?date=YYYY-MM-DD → top 20 for the date (default today, UTC)

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/daily"
)

func (s *Server) mountDaily(r chi.Router) {
	r.Get("/daily/leaderboard", s.handleLeaderboard)
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.deps.Daily == nil {
		writeError(w, http.StatusServiceUnavailable, "no_database")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	rows, err := s.deps.Daily.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if rows == nil {
		rows = []daily.LBRow{}
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
