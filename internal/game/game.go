// internal/game/game.go
//
// An analysis game: a letter board, its colours, the side to move and the
// words played so far, backed by one engine.Deal.
//
// Responsibilities:
//   - Create games from given or random letters and restore stored ones.
//   - Run ranked searches, cache them per constraint pair and flag each
//     requested page with endgame lookahead.
//   - Apply plays (as final maps or as chosen cells) and undo them.
//
// Notes:
//   - Colours are kept in the reduced form Decode reads.
//   - A Game serializes access to its Deal with a mutex.
package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/robalobadob/letterpress/internal/board"
	"github.com/robalobadob/letterpress/internal/engine"
	"github.com/robalobadob/letterpress/internal/words"
)

// Game is safe for concurrent use.
type Game struct {
	mu sync.Mutex

	ID      string
	Letters string
	Colors  string
	Move    board.Side
	Turns   []Turn

	deal  *engine.Deal
	cache map[string][]engine.Play
}

// New constructs a game. Empty letters pick a random board; colours are
// normalized to their reduced form.
func New(s *engine.Solver, letters, colors string, move board.Side) (*Game, error) {
	if letters == "" {
		letters = words.RandomBoard()
	}
	d, err := s.NewDeal(letters)
	if err != nil {
		return nil, err
	}
	if move != board.Red {
		move = board.Blue
	}
	return &Game{
		ID:      randomID(),
		Letters: d.Letters(),
		Colors:  normalize(board.Decode(colors)),
		Move:    move,
		Turns:   []Turn{},
		deal:    d,
		cache:   make(map[string][]engine.Play),
	}, nil
}

// Restore rebuilds a stored game, replaying its words into the deal.
func Restore(s *engine.Solver, snap Snapshot) (*Game, error) {
	g, err := New(s, snap.Letters, snap.Colors, snap.Move)
	if err != nil {
		return nil, err
	}
	g.ID = snap.ID
	g.Turns = append(g.Turns, snap.Turns...)
	played := make([]string, len(g.Turns))
	for i, t := range g.Turns {
		played[i] = t.Word
	}
	g.deal.ResetPlayed(played)
	return g, nil
}

// Snapshot copies the current state.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *Game) snapshot() Snapshot {
	pos := board.Decode(g.Colors)
	return Snapshot{
		ID:      g.ID,
		Letters: g.Letters,
		Colors:  g.Colors,
		Move:    g.Move,
		Turns:   append([]Turn{}, g.Turns...),
		Blue:    board.BitCount(pos.Blue),
		Red:     board.BitCount(pos.Red),
		Over:    pos.Full(),
	}
}

// Search ranks every play for the side to move and returns plays
// [offset, offset+limit). Plays on the page carry endgame flags.
func (g *Game) Search(need, not string, offset, limit int) (Page, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	plays, err := g.search(need, not)
	if err != nil {
		return Page{}, err
	}
	offset = max(0, min(offset, len(plays)))
	end := len(plays)
	if limit > 0 {
		end = min(end, offset+limit)
	}
	page := plays[offset:end]
	g.deal.CheckPlays(page, g.Move)
	return Page{Total: len(plays), Plays: append([]engine.Play{}, page...)}, nil
}

// Stream ranks every play and hands them to fn in batches of size, each
// batch flagged with endgame lookahead. It stops at the first error from fn
// or when ctx is done.
func (g *Game) Stream(ctx context.Context, need, not string, size int, fn func(index int, plays []engine.Play) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	plays, err := g.search(need, not)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = len(plays)
	}
	for i := 0; i < len(plays); i += size {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch := plays[i:min(i+size, len(plays))]
		g.deal.CheckPlays(batch, g.Move)
		if err := fn(i, append([]engine.Play{}, batch...)); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) search(need, not string) ([]engine.Play, error) {
	need, not = strings.ToUpper(need), strings.ToUpper(not)
	key := need + "|" + not
	if plays, ok := g.cache[key]; ok {
		return plays, nil
	}
	plays, err := g.deal.Search(g.Colors, need, not, g.Move)
	if err != nil {
		return nil, err
	}
	g.cache[key] = plays
	return plays, nil
}

// Words lists the open words matching the constraints.
func (g *Game) Words(need, not, anyOf string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.deal.Concentrate(strings.ToUpper(need), strings.ToUpper(not), strings.ToUpper(anyOf))
}

// Play applies word with the resulting blue and red maps, as a search
// result describes them.
func (g *Game) Play(word string, blue, red uint32) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if blue&red != 0 {
		return Snapshot{}, ErrOverlap
	}
	word = strings.ToUpper(strings.TrimSpace(word))
	if !g.deal.Playable(word) {
		return Snapshot{}, fmt.Errorf("%w: %q", engine.ErrNotPlayable, word)
	}
	g.apply(word, board.NewPosition(blue, red))
	return g.snapshot(), nil
}

// PlayCells spells word on the given cells for the side to move.
func (g *Game) PlayCells(word string, cells []int) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	next, err := g.deal.Place(word, cells, board.Decode(g.Colors), g.Move)
	if err != nil {
		return Snapshot{}, err
	}
	g.apply(strings.ToUpper(strings.TrimSpace(word)), next)
	return g.snapshot(), nil
}

func (g *Game) apply(word string, next board.Position) {
	g.Turns = append(g.Turns, Turn{Word: word, Colors: g.Colors, Move: g.Move})
	g.deal.PlayWord(word)
	g.Colors = normalize(next)
	g.Move = g.Move.Opposite()
	clear(g.cache)
}

// Undo reverts the last play.
func (g *Game) Undo() (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.Turns) == 0 {
		return Snapshot{}, ErrNothingToUndo
	}
	last := g.Turns[len(g.Turns)-1]
	g.Turns = g.Turns[:len(g.Turns)-1]
	g.deal.UnplayWord(last.Word)
	g.Colors = last.Colors
	g.Move = last.Move
	clear(g.cache)
	return g.snapshot(), nil
}

func normalize(p board.Position) string {
	return board.Reduce(board.Colors(p.Blue, p.Red))
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// Evaluate scores the current position from blue's point of view.
func (g *Game) Evaluate() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.deal.EvaluatePos(board.Decode(g.Colors))
}
