package engine

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/letterpress/internal/board"
)

// EndgameCheck looks one reply ahead after side has moved to (blue, red).
// endingSoon is set when some word covers every unclaimed letter; losing is
// set when the opponent's best such reply wins the game outright.
func (d *Deal) EndgameCheck(blue, red uint32, side board.Side) (endingSoon, losing bool) {
	start := time.Now()
	pos := board.NewPosition(blue, red)
	zeros := pos.Zeros()

	// The opponent replies, so the mover's own soft cells are the targets.
	targets := (pos.Own(side) &^ pos.Defended(side)) | zeros
	anyl := d.lettersIn(targets)
	zeroLetters := d.lettersIn(zeros)
	if zeroLetters == "" {
		return false, false
	}

	ending := d.concentrate(zeroLetters, "", "")
	reply := side.Opposite()
	for _, g := range GroupWords(ending, anyl) {
		scores := NewPlacements()
		d.Arrange(g.Key, pos, scores, 0, reply)
		best, ok := scores.Best(reply)
		if !ok {
			continue
		}
		if (side == board.Blue && best <= -TerminalScale) || (side == board.Red && best >= TerminalScale) {
			losing = true
			break
		}
	}
	endingSoon = len(ending) > 0

	log.Debug().
		Str("letters", d.letters).
		Str("side", side.String()).
		Int("endings", len(ending)).
		Bool("losing", losing).
		Dur("elapsed", time.Since(start)).
		Msg("endgame check")
	return endingSoon, losing
}

// CheckPlays runs EndgameCheck for each play and stores the flags on it.
func (d *Deal) CheckPlays(plays []Play, side board.Side) {
	for i := range plays {
		plays[i].EndingSoon, plays[i].Losing = d.EndgameCheck(plays[i].Blue, plays[i].Red, side)
	}
}
