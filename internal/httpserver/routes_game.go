// apps/handle-solver/internal/httpserver/routes_game.go
//
// Judge routes: play against a hidden hand.
//   - POST /game/new   → random secret, a fixed secret (testing) or today's daily puzzle
//   - POST /game/guess → score a guess; a daily win is recorded for the leaderboard

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/daily"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/game"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Post("/game/guess", s.handleGuess)
}

type newGameReq struct {
	Daily  bool   `json:"daily"`
	Secret string `json:"secret"` // optional fixed secret (testing)
}

type newGameRes struct {
	GameID string `json:"gameId,omitempty"`
	Rows   int    `json:"rows,omitempty"`
	Date   string `json:"date,omitempty"`
	Played bool   `json:"played,omitempty"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}

	var g *game.Game
	switch {
	case req.Secret != "":
		h, err := handle.ParseHand(req.Secret)
		if err == nil {
			err = h.Validate()
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_secret")
			return
		}
		g = game.New(h)

	case req.Daily:
		player := ensureAnonID(w, r)
		now := time.Now()
		date := daily.DateKey(now)
		if s.deps.Daily != nil {
			played, err := s.deps.Daily.AlreadyPlayed(r.Context(), player, date)
			if err != nil {
				log.Error().Err(err).Msg("daily lookup")
				writeError(w, http.StatusInternalServerError, "db_error")
				return
			}
			if played {
				writeJSON(w, http.StatusOK, newGameRes{Date: date, Played: true})
				return
			}
		}
		all, err := s.deps.Universe.All()
		if err != nil || len(all) == 0 {
			log.Error().Err(err).Msg("load universe for daily")
			writeError(w, http.StatusServiceUnavailable, "universe_unavailable")
			return
		}
		secret, idx := daily.Secret(all, now, s.opts.DailySalt)
		g = game.New(secret)
		g.Daily, g.DailyIdx, g.Player = date, idx, player

	default:
		all, err := s.deps.Universe.All()
		if err == nil {
			g, err = game.Random(all)
		}
		if err != nil {
			log.Error().Err(err).Msg("pick secret")
			writeError(w, http.StatusServiceUnavailable, "universe_unavailable")
			return
		}
	}

	if err := s.deps.Games.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, Rows: g.Rows, Date: g.Daily})
}

type guessReq struct {
	GameID string `json:"gameId"`
	Hand   string `json:"hand"`
}

type guessRes struct {
	Result  string     `json:"result"`
	State   game.State `json:"state"`
	Guesses int        `json:"guesses"`
	Secret  string     `json:"secret,omitempty"` // revealed once the game is lost
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, err := s.deps.Games.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	h, err := handle.ParseHand(req.Hand)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_hand")
		return
	}
	res, state, err := g.ApplyGuess(h)
	switch {
	case errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusConflict, "game_finished")
		return
	case errors.Is(err, game.ErrInvalidGuess):
		writeError(w, http.StatusBadRequest, "invalid_guess")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}

	out := guessRes{Result: res.String(), State: state, Guesses: g.Played()}
	if state == game.StateLost {
		out.Secret = g.Secret.String()
	}
	if state == game.StateWon && g.Daily != "" && s.deps.Daily != nil {
		err := s.deps.Daily.InsertResult(r.Context(), daily.Result{
			UserID:    g.Player,
			Date:      g.Daily,
			HandIndex: g.DailyIdx,
			Guesses:   g.Played(),
			ElapsedMs: int(time.Since(g.StartedAt).Milliseconds()),
		})
		if err != nil {
			log.Warn().Err(err).Str("game", g.ID).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, out)
}
