// internal/httpserver/ws.go
//
// GET /ws/game/{id}/search streams the ranked plays of a game in batches so
// a client can show the first results while endgame checks run on the rest.
//
// Messages (JSON text frames):
//   {"index":0,"total":N,"plays":[...]}   one per batch, in rank order
//   {"error":"..."}                       search failed
//   {"done":true,"total":N}               last message
//
// Query: need, not, batch (default SEARCH_PAGE_SIZE).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/letterpress/internal/engine"
)

const (
	wsIdlePingInterval = 30 * time.Second
	wsWriteWait        = 10 * time.Second
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type streamMsg struct {
	Index int           `json:"index"`
	Total int           `json:"total,omitempty"`
	Plays []engine.Play `json:"plays,omitempty"`
	Error string        `json:"error,omitempty"`
	Done  bool          `json:"done,omitempty"`
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	g, ok := s.gameOr404(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	q := r.URL.Query()
	need, not := q.Get("need"), q.Get("not")
	size := s.pageSize
	if n, err := strconv.Atoi(q.Get("batch")); err == nil && n > 0 {
		size = n
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The client never sends anything; a read error means it went away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	eg, ctx := errgroup.WithContext(ctx)
	send := make(chan []byte, 4)
	eg.Go(func() error {
		defer close(send)
		push := func(m streamMsg) error {
			b, err := json.Marshal(m)
			if err != nil {
				return err
			}
			select {
			case send <- b:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		total := 0
		err := g.Stream(ctx, need, not, size, func(index int, plays []engine.Play) error {
			total += len(plays)
			return push(streamMsg{Index: index, Plays: plays})
		})
		if errors.Is(err, context.Canceled) {
			return err
		}
		if err != nil {
			if err := push(streamMsg{Error: err.Error()}); err != nil {
				return err
			}
		}
		return push(streamMsg{Done: true, Total: total})
	})
	eg.Go(func() error { return writeWithHeartbeat(conn, send) })

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("stream search")
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
}

// writeWithHeartbeat writes every message from send and pings the client
// when the stream has been quiet for wsIdlePingInterval. It returns when
// send is closed or a write fails.
func writeWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
