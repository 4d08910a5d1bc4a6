// apps/handle-solver/internal/httpserver/server.go
//
// HTTP server wiring for the solver.
// Responsibilities:
//   - Router + middleware (request IDs, request log, panic recovery, timeouts, JSON, CORS).
//   - Public endpoints: "/", "/health".
//   - Solver sessions: POST /session/new, POST /session/feedback, GET /session (bearer token).
//   - Judge games: POST /game/new, POST /game/guess.
//   - Daily puzzle leaderboard: GET /daily/leaderboard.
//   - Runtime dashboard under /debug/statsviz/ when enabled.
//
// Notes:
//   - Session tokens are HS256 JWTs whose subject is the session id.
//   - Guests playing the daily puzzle are identified by an anonymous cookie.
//   - The request timeout also bounds solver work: the engine honours the request context.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/arl/statsviz"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/handle-solver/internal/daily"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/session"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/handle-solver/internal/store"
)

// Options are the server settings taken from configuration.
type Options struct {
	JWTSecret  string
	TokenTTL   time.Duration
	CORSOrigin string
	DailySalt  string
	Timeout    time.Duration
	Monitor    bool
}

// Deps are the collaborators the handlers use. Journal and Daily may be nil.
type Deps struct {
	Universe session.Universe
	Engine   *solver.Engine
	Sessions store.Sessions
	Games    store.Games
	Journal  *store.Journal
	Daily    *daily.Store
}

// Server bundles the router and its dependencies.
type Server struct {
	r    *chi.Mux
	deps Deps
	opts Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(deps Deps, opts Options) (*Server, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	s := &Server{r: chi.NewRouter(), deps: deps, opts: opts}

	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)

	if opts.Monitor {
		viz, err := statsviz.NewServer()
		if err != nil {
			return nil, err
		}
		s.r.Get("/debug/statsviz", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/debug/statsviz/", http.StatusMovedPermanently)
		})
		s.r.Get("/debug/statsviz/ws", viz.Ws())
		s.r.Get("/debug/statsviz/*", viz.Index())
		log.Info().Str("path", "/debug/statsviz/").Msg("runtime dashboard enabled")
	}

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(opts.Timeout))
		r.Use(jsonContentType)
		r.Use(cors(opts.CORSOrigin))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"handle-solver","endpoints":["/health","POST /session/new","POST /session/feedback","GET /session","POST /game/new","POST /game/guess","GET /daily/leaderboard"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		s.mountSession(r)
		s.mountGame(r)
		s.mountDaily(r)

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
		})
	})
	return s, nil
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger writes one line per request with status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Info().
				Str("reqId", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("took", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
