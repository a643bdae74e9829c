// internal/httpserver/server.go
//
// HTTP server wiring for the peg solitaire backend.
// Responsibilities:
//   - Router + middleware (request IDs, access logs, panic recovery,
//     timeouts, JSON, CORS).
//   - Public endpoints: "/api/health", "/metrics".
//   - Game endpoints (API key): state, peg click, reset, new game.
//   - Results leaderboard when a results log is configured.
//
// Notes:
//   - A missing game id means the shared "default" game.
//   - The API key is accepted as "Authorization: Bearer <key>" or ?apiKey=.
//   - Position validation happens here; the engine only ever sees holes on
//     the board.

package httpserver

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pegsolitaire/internal/board"
	"github.com/robalobadob/pegsolitaire/internal/game"
	"github.com/robalobadob/pegsolitaire/internal/results"
	"github.com/robalobadob/pegsolitaire/internal/store"
	"github.com/robalobadob/pegsolitaire/internal/telemetry"
)

const defaultGameID = "default"

// ResultsLog persists finished games. *results.Store implements it.
type ResultsLog interface {
	Record(ctx context.Context, r results.Result) (results.Result, error)
	Leaderboard(ctx context.Context, limit int) ([]results.Result, error)
}

// Options configures a Server. Zero values get usable defaults.
type Options struct {
	APIKey         string
	FrontendURL    string
	RequestTimeout time.Duration
	Results        ResultsLog // nil disables /api/stats
	Metrics        *telemetry.Metrics
	Gatherer       prometheus.Gatherer // served on /metrics
}

// Server bundles router, session store, and collaborators.
type Server struct {
	r       *chi.Mux
	store   store.Store
	opts    Options
	metrics *telemetry.Metrics
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.FrontendURL == "" {
		opts.FrontendURL = "http://localhost:3000"
	}
	if opts.Metrics == nil {
		reg := prometheus.NewRegistry()
		opts.Metrics = telemetry.New(reg)
		opts.Gatherer = reg
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{r: chi.NewRouter(), store: st, opts: opts, metrics: opts.Metrics}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))        // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog))      // one line per request
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(corsFor(opts.FrontendURL))          // single-origin CORS

	s.r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	s.r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Server is running"})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAPIKey)

			r.Get("/game", s.handleState)
			r.Get("/game/{id}", s.handleState)
			r.Post("/game/peg", s.handleClick)
			r.Post("/game/{id}/peg", s.handleClick)
			r.Post("/game/reset", s.handleReset)
			r.Post("/game/{id}/reset", s.handleReset)

			r.Post("/games", s.handleNewGame)

			if s.opts.Results != nil {
				r.Get("/stats/leaderboard", s.handleLeaderboard)
			}
		})
	})

	// Debug: move table
	s.r.With(s.requireAPIKey).Get("/debug/moves", func(w http.ResponseWriter, r *http.Request) {
		moves := board.AllMoves()
		out := make([][3]int, len(moves))
		for i, m := range moves {
			out[i] = [3]int{int(m.From), int(m.Over), int(m.To)}
		}
		writeJSON(w, http.StatusOK, map[string]any{"count": len(out), "moves": out})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("reqId", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor allows a single browser origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAPIKey rejects requests that do not carry the configured key.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	want := []byte(s.opts.APIKey)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := apiKeyFrom(r)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			writeError(w, http.StatusUnauthorized, "Unauthorized: Invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// apiKeyFrom reads "Authorization: Bearer <key>" or the apiKey query param.
func apiKeyFrom(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return r.URL.Query().Get("apiKey")
}

// ------------------------------ GAME ---------------------------------------

// gameID returns the {id} route param or the shared default game.
func gameID(r *http.Request) string {
	if id := chi.URLParam(r, "id"); id != "" {
		return id
	}
	return defaultGameID
}

// engineFor resolves the request's engine, writing the error response itself
// when that fails.
func (s *Server) engineFor(w http.ResponseWriter, r *http.Request) (*game.Engine, string, bool) {
	id := gameID(r)
	e, err := s.store.GetOrCreate(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			writeError(w, http.StatusBadRequest, "Invalid game id")
		} else {
			log.Error().Err(err).Str("gameId", id).Msg("resolve game")
			writeError(w, http.StatusInternalServerError, "server error")
		}
		return nil, id, false
	}
	return e, id, true
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	e, _, ok := s.engineFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotDTO(e.Snapshot()))
}

// clickReq is the payload for POST .../peg. Position stays raw so both
// 3 and "3" decode.
type clickReq struct {
	Position json.RawMessage `json:"position"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	p, err := parsePosition(req.Position)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid position")
		return
	}

	e, id, ok := s.engineFor(w, r)
	if !ok {
		return
	}
	snap, outcome := e.Click(p)
	s.metrics.Click(outcome)

	if outcome == game.OutcomeJumped && snap.GameOver {
		s.gameFinished(r.Context(), id, snap)
	}
	writeJSON(w, http.StatusOK, toSnapshotDTO(snap))
}

// gameFinished records the end of a game. Failures are logged, never
// surfaced to the player.
func (s *Server) gameFinished(ctx context.Context, id string, snap game.Snapshot) {
	s.metrics.GameFinished(snap.PegCount)
	log.Info().Str("gameId", id).Int("pegsLeft", snap.PegCount).Int("jumps", snap.Jumps).Msg("game over")

	if s.opts.Results == nil {
		return
	}
	if _, err := s.opts.Results.Record(ctx, results.Result{
		GameID:   id,
		PegsLeft: snap.PegCount,
		Jumps:    snap.Jumps,
	}); err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("record result")
	}
}

// parsePosition accepts a JSON integer or a string holding one.
func parsePosition(raw json.RawMessage) (board.Position, error) {
	text := strings.TrimSpace(string(raw))
	if unq, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unq)
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return board.Invalid, board.ErrInvalidPosition
	}
	return board.Parse(n)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	e, _, ok := s.engineFor(w, r)
	if !ok {
		return
	}
	snap := e.Reset()
	s.metrics.Reset()
	writeJSON(w, http.StatusOK, toSnapshotDTO(snap))
}

type newGameRes struct {
	GameID string `json:"gameId"`
}

// handleNewGame starts a game under a fresh id so clients need not share
// the default board.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	if _, err := s.store.GetOrCreate(r.Context(), id); err != nil {
		log.Error().Err(err).Msg("create game")
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusCreated, newGameRes{GameID: id})
}

// ----------------------------- RESULTS -------------------------------------

type leaderboardRes struct {
	Top []results.Result `json:"top"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}
	top, err := s.opts.Results.Leaderboard(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, leaderboardRes{Top: top})
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
