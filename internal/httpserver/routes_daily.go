// internal/httpserver/routes_daily.go
//
// HTTP routes for the board of the day.
//   - POST /daily/new         → start (or resume) today's game
//   - POST /daily/submit      → play one opening word; it is scored and ranked
//   - GET  /daily/leaderboard → top 20 results for today (or ?date=)
//
// Everyone gets the same letters for a UTC date (HMAC of the date and
// DAILY_SALT). Each player submits once per day.

package httpserver

import (
	"encoding/json"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/letterpress/internal/board"
	"github.com/robalobadob/letterpress/internal/daily"
	"github.com/robalobadob/letterpress/internal/game"
)

type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	now      func() time.Time
	sessions map[string]*dailySession // keyed by userID|date
	mu       sync.Mutex               // guards sessions
}

type dailySession struct {
	GameID   string
	Finished bool
}

func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     getEnv("DAILY_SALT", "local_dev_salt"),
		now:      time.Now,
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/submit", dd.handleSubmit)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// today returns today's date key and letters.
func (d *dailyServer) today() (date, letters string) {
	now := d.now()
	return daily.DateKey(now), daily.Board(now, d.salt)
}

func (d *dailyServer) userID(w http.ResponseWriter, r *http.Request) string {
	o := d.srv.owner(w, r)
	if o.UserID != "" {
		return o.UserID
	}
	return o.AnonymousID
}

type dailyNewRes struct {
	GameID  string `json:"gameId"`
	Date    string `json:"date"`
	Letters string `json:"letters"`
	Played  bool   `json:"played"`
}

// handleNew returns today's game, creating it on first visit.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userID(w, r)
	date, letters := d.today()

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Letters: letters, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if sess, ok := d.sessions[key]; ok {
		_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: sess.GameID, Date: date, Letters: letters, Played: sess.Finished})
		return
	}
	g, err := game.New(d.srv.solver, letters, "", board.Blue)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := d.srv.store.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.sessions[key] = &dailySession{GameID: g.ID}
	_ = json.NewEncoder(w).Encode(dailyNewRes{GameID: g.ID, Date: date, Letters: letters})
}

type dailySubmitReq struct {
	GameID string `json:"gameId"`
	Word   string `json:"word"`
	Cells  []int  `json:"cells"`
}

type dailySubmitRes struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
	State string  `json:"state"` // submitted | locked
}

// handleSubmit plays the word on today's board and records its score.
func (d *dailyServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	uid := d.userID(w, r)
	var p dailySubmitReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	date, letters := d.today()

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	sess, ok := d.sessions[key]
	if !ok || sess.GameID != p.GameID {
		writeError(w, http.StatusConflict, "no session")
		return
	}
	if sess.Finished {
		_ = json.NewEncoder(w).Encode(dailySubmitRes{State: "locked"})
		return
	}
	g, err := d.srv.store.Get(r.Context(), sess.GameID)
	if err != nil {
		writeError(w, http.StatusConflict, "no session")
		return
	}
	snap, err := g.PlayCells(p.Word, p.Cells)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.Finished = true
	score := math.Round(g.Evaluate()*1000) / 1000
	word := snap.Turns[len(snap.Turns)-1].Word
	if err := d.store.InsertResult(r.Context(), daily.Result{
		UserID: uid, Date: date, Letters: letters, Word: word, Score: score,
	}); err != nil {
		log.Warn().Err(err).Str("user", uid).Msg("insert daily result")
	}
	_ = json.NewEncoder(w).Encode(dailySubmitRes{Word: word, Score: score, State: "submitted"})
}

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _ = d.today()
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
