// apps/handle-solver/internal/httpserver/routes_session.go
//
// Solver session routes.
//   - POST /session/new      → start a session for a context string; returns a token and the opening guess
//   - POST /session/feedback → report the result the pending guess received; returns the next guess
//   - GET  /session          → history of the session
//
// An inconsistent result answers 409 with stage "filter" and leaves the session as it
// was, so the caller can correct a mistyped result and retry.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/handle"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/session"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/store"
)

func (s *Server) mountSession(r chi.Router) {
	r.Post("/session/new", s.handleNewSession)
	r.With(s.requireSession).Post("/session/feedback", s.handleFeedback)
	r.With(s.requireSession).Get("/session", s.handleGetSession)
}

type newSessionReq struct {
	Context string `json:"context"` // letters t/e/s/w/n
}

type newSessionRes struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	SessionID string    `json:"sessionId"`
	Context   string    `json:"context"`
	Round     int       `json:"round"`
	Guess     string    `json:"guess"`
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	c := handle.ParseContext(req.Context)
	sess := session.New(s.deps.Universe, s.deps.Engine, c)
	plan, err := sess.Next(r.Context())
	if err != nil {
		s.writeStageError(w, err)
		return
	}
	if err := s.deps.Sessions.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	if s.deps.Journal != nil {
		if err := s.deps.Journal.Begin(r.Context(), sess.ID, c, sess.StartedAt); err != nil {
			log.Warn().Err(err).Str("session", sess.ID).Msg("journal begin")
		}
	}
	tok, exp, err := s.signToken(sess.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token_failed")
		return
	}
	log.Info().Str("session", sess.ID).Str("context", c.String()).Msg("session started")
	writeJSON(w, http.StatusOK, newSessionRes{
		Token:     tok,
		ExpiresAt: exp,
		SessionID: sess.ID,
		Context:   c.String(),
		Round:     1,
		Guess:     plan.Best().Hand.String(),
	})
}

type feedbackReq struct {
	Result string `json:"result"` // 14 letters: G match, Y present, anything else absent
}

type rankedGuess struct {
	Hand      string  `json:"hand"`
	Entropy   float64 `json:"entropy"`
	Approx    float64 `json:"approx"`
	Candidate bool    `json:"candidate"`
}

type feedbackRes struct {
	Round     int           `json:"round"`
	Remaining int           `json:"remaining"`
	Guess     string        `json:"guess,omitempty"`
	Separator bool          `json:"separator,omitempty"`
	Ranked    []rankedGuess `json:"ranked,omitempty"`
	Solved    string        `json:"solved,omitempty"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	result, err := handle.ParseResult(req.Result)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_result")
		return
	}

	round, err := sess.Observe(result)
	if errors.Is(err, session.ErrNoPendingGuess) {
		writeError(w, http.StatusConflict, "no_pending_guess")
		return
	}
	if err != nil {
		s.writeStageError(w, err)
		return
	}
	s.journalRound(r.Context(), sess.ID, round)

	if _, ok := sess.Solved(); ok {
		s.journalFinish(r.Context(), sess.ID, store.StatusSolved)
		writeJSON(w, http.StatusOK, feedbackRes{Round: round.Number, Remaining: round.Remaining, Solved: round.Guess.Hand.String()})
		return
	}

	plan, err := sess.Next(r.Context())
	if err != nil {
		s.journalFinish(r.Context(), sess.ID, store.StatusFailed)
		s.writeStageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feedbackRes{
		Round:     round.Number + 1,
		Remaining: round.Remaining,
		Guess:     plan.Best().Hand.String(),
		Separator: plan.Separator,
		Ranked:    ranked(plan),
	})
}

func ranked(p solver.Plan) []rankedGuess {
	out := make([]rankedGuess, len(p.Ranked))
	for i, s := range p.Ranked {
		out[i] = rankedGuess{Hand: s.Guess.Hand.String(), Entropy: s.Entropy, Approx: s.Approx, Candidate: s.Candidate}
	}
	return out
}

type roundRes struct {
	Round     int    `json:"round"`
	Guess     string `json:"guess"`
	Result    string `json:"result"`
	Remaining int    `json:"remaining"`
}

type sessionRes struct {
	SessionID string     `json:"sessionId"`
	Context   string     `json:"context"`
	StartedAt time.Time  `json:"startedAt"`
	Remaining int        `json:"remaining"`
	Pending   string     `json:"pending,omitempty"`
	Solved    bool       `json:"solved"`
	Rounds    []roundRes `json:"rounds"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap := currentSession(r).Snapshot()
	res := sessionRes{
		SessionID: snap.ID,
		Context:   snap.Context.String(),
		StartedAt: snap.StartedAt,
		Remaining: snap.Remaining,
		Solved:    snap.Solved,
		Rounds:    make([]roundRes, len(snap.Rounds)),
	}
	if snap.Pending != nil {
		res.Pending = snap.Pending.Hand.String()
	}
	for i, rd := range snap.Rounds {
		res.Rounds[i] = roundRes{Round: rd.Number, Guess: rd.Guess.Hand.String(), Result: rd.Result.String(), Remaining: rd.Remaining}
	}
	writeJSON(w, http.StatusOK, res)
}

// writeStageError maps session failures to responses that name the failing stage.
func (s *Server) writeStageError(w http.ResponseWriter, err error) {
	var se *session.StageError
	if !errors.As(err, &se) {
		log.Error().Err(err).Msg("session")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	status := http.StatusInternalServerError
	if se.Stage == session.StageFilter {
		status = http.StatusConflict
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		status = http.StatusServiceUnavailable
	}
	log.Warn().Err(se.Err).Str("stage", string(se.Stage)).Int("remaining", se.Remaining).Msg("session stage failed")
	writeJSON(w, status, map[string]any{
		"error":     se.Err.Error(),
		"stage":     se.Stage,
		"remaining": se.Remaining,
	})
}

func (s *Server) journalRound(ctx context.Context, id string, r session.Round) {
	if s.deps.Journal == nil {
		return
	}
	if err := s.deps.Journal.Record(ctx, id, r); err != nil {
		log.Warn().Err(err).Str("session", id).Int("round", r.Number).Msg("journal round")
	}
}

func (s *Server) journalFinish(ctx context.Context, id, status string) {
	if s.deps.Journal == nil {
		return
	}
	if err := s.deps.Journal.Finish(ctx, id, status); err != nil {
		log.Warn().Err(err).Str("session", id).Msg("journal finish")
	}
}
