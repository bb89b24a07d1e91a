// internal/httpserver/server.go
//
// HTTP server wiring for the Letterpress analysis backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints (optional auth): new, get, search, words, play, undo.
//   - Result streaming over a websocket (ws.go).
//   - Daily board endpoints (routes_daily.go) and auth (auth.go).
//
// Notes:
//   - Live games sit in the in-memory store; every change is also written
//     to sqlite so a game can be restored after a restart.
//   - Persistence failures are logged and do not fail the request.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/letterpress/internal/board"
	"github.com/robalobadob/letterpress/internal/engine"
	"github.com/robalobadob/letterpress/internal/game"
	"github.com/robalobadob/letterpress/internal/history"
	"github.com/robalobadob/letterpress/internal/store"
	"github.com/robalobadob/letterpress/internal/words"
)

// Server bundles router, live game store, solver and DB handle.
type Server struct {
	r        *chi.Mux
	store    store.Store
	db       *sql.DB
	history  *history.Store
	solver   *engine.Solver
	pageSize int
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, solver *engine.Solver) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		store:    st,
		db:       db,
		history:  history.NewStore(db),
		solver:   solver,
		pageSize: getEnvInt("SEARCH_PAGE_SIZE", 20),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// Streaming runs as long as the client listens; no handler timeout.
	s.r.With(s.withOptionalAuth()).Get("/ws/game/{id}/search", s.handleStream)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"letterpress-go","endpoints":["/health","POST /game/new","POST /game/search","POST /game/play","/ws/game/{id}/search","/daily/*","/auth/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			total, extra := words.Stats()
			_ = json.NewEncoder(w).Encode(map[string]int{
				"loaded":     total,
				"extra":      extra,
				"dictionary": s.solver.WordCount(),
				"liveGames":  s.store.Len(),
			})
		})

		// Game endpoints, optional auth (guests can analyse)
		r.Group(func(r chi.Router) {
			r.Use(s.withOptionalAuth())
			r.Post("/game/new", s.handleNewGame)
			r.Get("/game/{id}", s.handleGetGame)
			r.Post("/game/search", s.handleSearch)
			r.Post("/game/words", s.handleWords)
			r.Post("/game/play", s.handlePlay)
			r.Post("/game/undo", s.handleUndo)
			s.mountDaily(r)
		})

		s.mountAuthRoutes(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
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

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := getEnv("CLIENT_ORIGIN", "http://localhost:5173")
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

// ------------------------------ GAME ---------------------------------------

type newGameReq struct {
	Letters string `json:"letters"` // empty picks a random board
	Colors  string `json:"colors"`
	Move    string `json:"move"` // "blue" | "red"
}

// handleNewGame creates a game, keeps it live and stores it for its owner.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	move, err := board.ParseSide(req.Move)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g, err := game.New(s.solver, req.Letters, req.Colors, move)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	owner := s.owner(w, r)
	snap := g.Snapshot()
	s.persist(r.Context(), snap, owner)
	if owner.UserID != "" {
		if _, err := s.db.Exec(`UPDATE users SET games_played = games_played + 1 WHERE id=?`, owner.UserID); err != nil {
			log.Warn().Err(err).Str("user", owner.UserID).Msg("bump games played")
		}
	}
	_ = json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.gameOr404(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(g.Snapshot())
}

type searchReq struct {
	GameID string `json:"gameId"`
	Need   string `json:"need"`
	Not    string `json:"not"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

// handleSearch returns one page of ranked plays for the side to move.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, ok := s.gameOr404(w, r, req.GameID)
	if !ok {
		return
	}
	if req.Limit <= 0 {
		req.Limit = s.pageSize
	}
	page, err := g.Search(req.Need, req.Not, req.Offset, req.Limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(page)
}

type wordsReq struct {
	GameID string `json:"gameId"`
	Need   string `json:"need"`
	Not    string `json:"not"`
	Any    string `json:"any"`
}

func (s *Server) handleWords(w http.ResponseWriter, r *http.Request) {
	var req wordsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, ok := s.gameOr404(w, r, req.GameID)
	if !ok {
		return
	}
	list, err := g.Words(req.Need, req.Not, req.Any)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(map[string][]string{"words": list})
}

type playReq struct {
	GameID string `json:"gameId"`
	Word   string `json:"word"`
	Blue   uint32 `json:"blue"`
	Red    uint32 `json:"red"`
	Cells  []int  `json:"cells"` // when set, used instead of blue/red
}

// handlePlay applies a play chosen from a search (blue/red maps) or spelled
// on the board (cells).
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req playReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, ok := s.gameOr404(w, r, req.GameID)
	if !ok {
		return
	}
	var (
		snap game.Snapshot
		err  error
	)
	if len(req.Cells) > 0 {
		snap, err = g.PlayCells(req.Word, req.Cells)
	} else {
		snap, err = g.Play(req.Word, req.Blue&board.Full, req.Red&board.Full)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.persist(r.Context(), snap, s.owner(w, r))
	_ = json.NewEncoder(w).Encode(snap)
}

type undoReq struct {
	GameID string `json:"gameId"`
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	var req undoReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, ok := s.gameOr404(w, r, req.GameID)
	if !ok {
		return
	}
	snap, err := g.Undo()
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.persist(r.Context(), snap, s.owner(w, r))
	_ = json.NewEncoder(w).Encode(snap)
}

// loadGame finds a live game or restores a stored one into the live store.
func (s *Server) loadGame(ctx context.Context, id string) (*game.Game, error) {
	if id == "" {
		return nil, store.ErrNotFound
	}
	g, err := s.store.Get(ctx, id)
	if err == nil {
		return g, nil
	}
	snap, _, err := s.history.Load(ctx, id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	g, err = game.Restore(s.solver, snap)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, g); err != nil {
		return nil, err
	}
	log.Info().Str("gameId", id).Int("turns", len(snap.Turns)).Msg("restored game")
	return g, nil
}

func (s *Server) gameOr404(w http.ResponseWriter, r *http.Request, id string) (*game.Game, bool) {
	g, err := s.loadGame(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Str("gameId", id).Msg("load game")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return nil, false
	}
	return g, true
}

// owner is the signed-in user, or else the anonymous cookie.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) history.Owner {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return history.Owner{UserID: me.ID}
	}
	return history.Owner{AnonymousID: s.ensureAnonID(w, r)}
}

// persist writes a snapshot to sqlite, best effort.
func (s *Server) persist(ctx context.Context, snap game.Snapshot, owner history.Owner) {
	if err := s.history.Save(ctx, snap, owner); err != nil {
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("persist game")
	}
}

// ------------------------------- small util --------------------------------

// writeError writes {"error": msg} with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	b, _ := json.Marshal(map[string]string{"error": msg})
	http.Error(w, string(b), status)
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getEnvInt reads a positive integer from k, or def.
func getEnvInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil && n > 0 {
		return n
	}
	return def
}
