package engine

import (
	"fmt"
	"strings"

	"github.com/robalobadob/letterpress/internal/board"
)

// Place plays word for side on the given cells, one cell per letter in word
// order, and returns the resulting position. Cells the opponent defends stay
// with the opponent.
func (d *Deal) Place(word string, cells []int, pos board.Position, side board.Side) (board.Position, error) {
	word = strings.ToUpper(strings.TrimSpace(word))
	if !d.Playable(word) {
		return pos, fmt.Errorf("%w: %q", ErrNotPlayable, word)
	}
	if len(cells) != len(word) {
		return pos, fmt.Errorf("%w: %d cells for %d letters", ErrBadPlacement, len(cells), len(word))
	}
	var mask uint32
	for k, i := range cells {
		if i < 0 || i >= board.Cells || mask&board.Bit(i) != 0 {
			return pos, fmt.Errorf("%w: cell %d", ErrBadPlacement, i)
		}
		if d.letters[i] != word[k] {
			return pos, fmt.Errorf("%w: cell %d is %c, not %c", ErrBadPlacement, i, d.letters[i], word[k])
		}
		mask |= board.Bit(i)
	}
	next := pos.Capture(mask, side)
	return board.NewPosition(next.Blue, next.Red), nil
}
