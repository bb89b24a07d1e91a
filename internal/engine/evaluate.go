package engine

import "github.com/robalobadob/letterpress/internal/board"

// TerminalScale multiplies the tile margin of a full board.
const TerminalScale = 1000

// EvaluatePos scores a position from blue's point of view: positive favours
// blue, negative red. A full board scores (blue tiles - red tiles) * 1000.
// Otherwise owned cells add their defended or undefended value and each side
// earns a bonus for keeping its centroid away from the unclaimed cells.
// Scores are memoized per deal.
func (d *Deal) EvaluatePos(p board.Position) float64 {
	key := board.PackKey(p.Blue, p.Red)
	if v, ok := d.positions[key]; ok {
		return v
	}
	v := d.evaluate(p.Blue, p.Red)
	d.positions[key] = v
	return v
}

func (d *Deal) evaluate(blue, red uint32) float64 {
	if board.BitCount(blue|red) == board.Cells {
		return float64(board.BitCount(blue)-board.BitCount(red)) * TerminalScale
	}
	var blueScore, redScore float64
	for i := 0; i < board.Cells; i++ {
		bit := board.Bit(i)
		if blue&bit != 0 {
			if board.IsDefended(blue, i) {
				blueScore += d.defended[i]
			} else {
				blueScore += d.undefended[i]
			}
		}
		if red&bit != 0 {
			if board.IsDefended(red, i) {
				redScore += d.defended[i]
			} else {
				redScore += d.undefended[i]
			}
		}
	}
	zero := board.Centroid(board.Full &^ (blue | red))
	blueDiff := board.Distance(board.Centroid(blue), zero)
	redDiff := board.Distance(board.Centroid(red), zero)
	return blueScore - redScore + d.cfg.Weights.Centroid*(blueDiff-redDiff)
}

// CachedPositions is the number of memoized position scores.
func (d *Deal) CachedPositions() int { return len(d.positions) }
