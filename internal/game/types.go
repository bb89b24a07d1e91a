// internal/game/types.go
//
// Core type definitions for an analysis game.
// Defines:
//   - Turn: one play in the game history.
//   - Snapshot: the serializable state of a game.
//   - Page: one page of ranked plays.

package game

import (
	"errors"

	"github.com/robalobadob/letterpress/internal/board"
	"github.com/robalobadob/letterpress/internal/engine"
)

var (
	ErrOverlap       = errors.New("blue and red maps overlap")
	ErrNothingToUndo = errors.New("no turn to undo")
)

// Turn records a play and the board it was played on, so it can be undone.
type Turn struct {
	Word   string     `json:"word"`
	Colors string     `json:"colors"` // colours before the play
	Move   board.Side `json:"move"`   // side that played
}

// Snapshot is the state of a game as stored and sent to clients.
type Snapshot struct {
	ID      string     `json:"gameId"`
	Letters string     `json:"letters"`
	Colors  string     `json:"colors"`
	Move    board.Side `json:"move"`
	Turns   []Turn     `json:"turns"`
	Blue    int        `json:"blue"` // tiles owned
	Red     int        `json:"red"`
	Over    bool       `json:"over"`
}

// Page is a window into the ranked plays of a search.
type Page struct {
	Total int           `json:"total"`
	Plays []engine.Play `json:"plays"`
}
