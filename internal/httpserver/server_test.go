package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/letterpress/assets"
	"github.com/robalobadob/letterpress/internal/daily"
	"github.com/robalobadob/letterpress/internal/engine"
	"github.com/robalobadob/letterpress/internal/game"
	"github.com/robalobadob/letterpress/internal/history"
	"github.com/robalobadob/letterpress/internal/store"
)

const pairBoard = "AABBCDEFGHIJKLMNOPQRSTUVW"

type testEnv struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := history.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, history.Migrate(db, assets.Migrations()))
	return db
}

func newTestEnv(t *testing.T, db *sql.DB, extraWords ...string) *testEnv {
	t.Helper()
	solver := engine.NewSolver(append([]string{"AB", "BA", "CAB"}, extraWords...), engine.DefaultConfig())
	srv := httptest.NewServer(New(store.NewMemoryStore(), db, solver).Router())
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testEnv{t: t, srv: srv, client: &http.Client{Jar: jar}}
}

func (e *testEnv) do(method, path string, body, out any) int {
	e.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(e.t, err)
	res, err := e.client.Do(req)
	require.NoError(e.t, err)
	defer res.Body.Close()
	if out != nil && res.StatusCode < 300 {
		require.NoError(e.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func (e *testEnv) newGame(letters string) game.Snapshot {
	e.t.Helper()
	var snap game.Snapshot
	code := e.do(http.MethodPost, "/game/new", map[string]string{"letters": letters}, &snap)
	require.Equal(e.t, http.StatusOK, code)
	return snap
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t, openDB(t))
	var body map[string]bool
	require.Equal(t, http.StatusOK, e.do(http.MethodGet, "/health", nil, &body))
	require.True(t, body["ok"])
	require.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/nope", nil, nil))
}

func TestGameFlow(t *testing.T) {
	e := newTestEnv(t, openDB(t))
	snap := e.newGame(strings.ToLower(pairBoard))
	require.Equal(t, pairBoard, snap.Letters)
	require.Equal(t, "w9w9w7", snap.Colors)

	var got game.Snapshot
	require.Equal(t, http.StatusOK, e.do(http.MethodGet, "/game/"+snap.ID, nil, &got))
	require.Equal(t, snap.ID, got.ID)

	var page game.Page
	code := e.do(http.MethodPost, "/game/search", map[string]any{"gameId": snap.ID, "need": "a", "limit": 5}, &page)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 12, page.Total)
	require.Len(t, page.Plays, 5)

	var list map[string][]string
	code = e.do(http.MethodPost, "/game/words", map[string]string{"gameId": snap.ID, "any": "c"}, &list)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []string{"CAB"}, list["words"])

	best := page.Plays[0]
	code = e.do(http.MethodPost, "/game/play", map[string]any{"gameId": snap.ID, "word": best.Word, "blue": best.Blue, "red": best.Red}, &got)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, got.Turns, 1)
	require.Equal(t, "red", got.Move.String())

	code = e.do(http.MethodPost, "/game/play", map[string]any{"gameId": snap.ID, "word": best.Word, "cells": []int{0, 2}}, nil)
	require.Equal(t, http.StatusBadRequest, code, "a played word cannot be replayed")

	code = e.do(http.MethodPost, "/game/undo", map[string]string{"gameId": snap.ID}, &got)
	require.Equal(t, http.StatusOK, code)
	require.Empty(t, got.Turns)
	require.Equal(t, "w9w9w7", got.Colors)
	require.Equal(t, http.StatusConflict, e.do(http.MethodPost, "/game/undo", map[string]string{"gameId": snap.ID}, nil))

	code = e.do(http.MethodPost, "/game/play", map[string]any{"gameId": snap.ID, "word": "CAB", "cells": []int{4, 0, 2}}, &got)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 3, got.Blue)

	require.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/game/unknown", nil, nil))
	require.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/game/new", map[string]string{"letters": "SHORT"}, nil))
	require.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/game/new", map[string]string{"move": "green"}, nil))
}

func TestGameIsRestoredFromHistory(t *testing.T) {
	db := openDB(t)
	first := newTestEnv(t, db)
	snap := first.newGame(pairBoard)
	var played game.Snapshot
	code := first.do(http.MethodPost, "/game/play", map[string]any{"gameId": snap.ID, "word": "AB", "cells": []int{1, 3}}, &played)
	require.Equal(t, http.StatusOK, code)

	// a fresh server has an empty live store
	second := newTestEnv(t, db)
	var got game.Snapshot
	require.Equal(t, http.StatusOK, second.do(http.MethodGet, "/game/"+snap.ID, nil, &got))
	require.Equal(t, played, got)

	var list map[string][]string
	second.do(http.MethodPost, "/game/words", map[string]string{"gameId": snap.ID}, &list)
	require.Equal(t, []string{"BA", "CAB"}, list["words"])
}

func TestAuthClaimsGuestGames(t *testing.T) {
	e := newTestEnv(t, openDB(t))
	require.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/auth/me", nil, nil))

	snap := e.newGame(pairBoard)

	creds := map[string]string{"username": "analyst", "password": "correct horse"}
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/auth/signup", creds, nil))
	require.Equal(t, http.StatusConflict, e.do(http.MethodPost, "/auth/signup", creds, nil))

	var me authUser
	require.Equal(t, http.StatusOK, e.do(http.MethodGet, "/auth/me", nil, &me))
	require.Equal(t, "analyst", me.Username)

	var mine []history.Summary
	require.Equal(t, http.StatusOK, e.do(http.MethodGet, "/games/mine", nil, &mine))
	require.Len(t, mine, 1)
	require.Equal(t, snap.ID, mine[0].ID)

	e.newGame(pairBoard)
	var stats map[string]any
	require.Equal(t, http.StatusOK, e.do(http.MethodGet, "/stats/me", nil, &stats))
	require.EqualValues(t, 1, stats["gamesPlayed"])

	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/auth/logout", nil, nil))
	require.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/auth/me", nil, nil))
	require.Equal(t, http.StatusUnauthorized, e.do(http.MethodPost, "/auth/login",
		map[string]string{"username": "analyst", "password": "wrong password"}, nil))
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/auth/login", creds, nil))
	require.Equal(t, http.StatusOK, e.do(http.MethodGet, "/auth/me", nil, &me))
}

func TestStreamSearch(t *testing.T) {
	e := newTestEnv(t, openDB(t))
	snap := e.newGame(pairBoard)

	url := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/ws/game/" + snap.ID + "/search?need=A&batch=5"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	var starts []int
	plays := 0
	for {
		var m streamMsg
		require.NoError(t, conn.ReadJSON(&m))
		require.Empty(t, m.Error)
		if m.Done {
			require.Equal(t, 12, m.Total)
			break
		}
		starts = append(starts, m.Index)
		plays += len(m.Plays)
	}
	require.Equal(t, []int{0, 5, 10}, starts)
	require.Equal(t, 12, plays)

	_, res, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(e.srv.URL, "http")+"/ws/game/unknown/search", nil)
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestDaily(t *testing.T) {
	letters := daily.Board(time.Now(), "local_dev_salt")
	word := letters[:2]
	e := newTestEnv(t, openDB(t), word)

	var started dailyNewRes
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/daily/new", nil, &started))
	require.Equal(t, letters, started.Letters)
	require.False(t, started.Played)

	var again dailyNewRes
	e.do(http.MethodPost, "/daily/new", nil, &again)
	require.Equal(t, started.GameID, again.GameID)

	require.Equal(t, http.StatusConflict, e.do(http.MethodPost, "/daily/submit",
		map[string]any{"gameId": "other", "word": word, "cells": []int{0, 1}}, nil))

	var res dailySubmitRes
	code := e.do(http.MethodPost, "/daily/submit", map[string]any{"gameId": started.GameID, "word": word, "cells": []int{0, 1}}, &res)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "submitted", res.State)
	require.Equal(t, word, res.Word)

	e.do(http.MethodPost, "/daily/submit", map[string]any{"gameId": started.GameID, "word": word, "cells": []int{0, 1}}, &res)
	require.Equal(t, "locked", res.State)

	var lb lbRes
	require.Equal(t, http.StatusOK, e.do(http.MethodGet, "/daily/leaderboard", nil, &lb))
	require.Len(t, lb.Top, 1)
	require.Equal(t, word, lb.Top[0].Word)

	e.do(http.MethodPost, "/daily/new", nil, &again)
	require.True(t, again.Played)
}
