// internal/httpserver/server.go
//
// HTTP server wiring for the numerix backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess, GET /game/{id}.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Progress endpoints (optional auth): /stats/me, /achievements, /settings, /progress.
//   - Auth endpoints: /auth/signup, /auth/login, /auth/logout, /auth/me.
//
// Notes:
//   - Every request resolves to a player: the logged-in user or an anonymous
//     cookie identity. All records are keyed by that player.
//   - CORS is origin-aware and credentials-enabled (so cookies work).

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numerix/apps/go-server/internal/achievements"
	"github.com/robalobadob/numerix/apps/go-server/internal/config"
	"github.com/robalobadob/numerix/apps/go-server/internal/daily"
	"github.com/robalobadob/numerix/apps/go-server/internal/game"
	"github.com/robalobadob/numerix/apps/go-server/internal/metrics"
	"github.com/robalobadob/numerix/apps/go-server/internal/progress"
	"github.com/robalobadob/numerix/apps/go-server/internal/puzzle"
	"github.com/robalobadob/numerix/apps/go-server/internal/speed"
	"github.com/robalobadob/numerix/apps/go-server/internal/store"
)

// Deps are the collaborators a Server is built from. DB may be nil, in
// which case accounts and the daily leaderboard are unavailable.
type Deps struct {
	Config   *config.Config
	DB       *sql.DB
	KV       store.KV
	Registry *game.Registry
	Speed    *speed.Generator
	Puzzle   *puzzle.Generator
	Now      func() time.Time
}

// Server bundles the router, active sessions and persistence.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	db       *sql.DB
	registry *game.Registry
	speed    *speed.Generator
	puzzle   *puzzle.Generator
	repo     *progress.Repository
	tracker  *progress.Tracker
	eval     *achievements.Evaluator
	board    *daily.Store
	sessions *sessionTable
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      d.Config,
		db:       d.DB,
		registry: d.Registry,
		speed:    d.Speed,
		puzzle:   d.Puzzle,
		repo:     progress.NewRepository(d.KV),
		eval:     achievements.NewEvaluator(),
		sessions: newSessionTable(),
		now:      d.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	var board progress.WinRecorder
	if d.DB != nil {
		s.board = daily.NewStore(d.DB)
		board = s.board
	}
	s.tracker = progress.NewTracker(s.repo, s.eval, board)

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"numerix-go","endpoints":["/health","POST /game/new","POST /game/guess","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Handle("/metrics", metrics.Handler())

	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		s.mountGame(r)
		s.mountDaily(r)
		s.mountProgress(r)
	})
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("http listening")
	return http.ListenAndServe(addr, s.r)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Close abandons every active session and stops their countdowns.
func (s *Server) Close() { s.sessions.closeAll() }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
