package engine

import (
	"math"

	"github.com/robalobadob/letterpress/internal/board"
)

// ComputeGoal looks for the smallest set of unclaimed cells that no open word
// can cover in full, starting at two cells. Among sets of that size it picks
// the one whose centroid lies farthest from the mover's territory. It returns
// 0 when no such set exists.
func (d *Deal) ComputeGoal(blue, red uint32, side board.Side) uint32 {
	occupied := blue | red
	var unoccupied []int
	for i := 0; i < board.Cells; i++ {
		if occupied&board.Bit(i) == 0 {
			unoccupied = append(unoccupied, i)
		}
	}
	words := d.open()

	var goals []uint32
	for r := 2; r < len(unoccupied) && len(goals) == 0; r++ {
		eachCombination(unoccupied, r, func(cells []int) {
			var need [26]uint8
			for _, i := range cells {
				need[d.letters[i]-'A']++
			}
			for _, e := range words {
				if covers(&e.counts, &need, d.letters, cells) {
					return
				}
			}
			var goal uint32
			for _, i := range cells {
				goal |= board.Bit(i)
			}
			goals = append(goals, goal)
		})
	}
	if len(goals) == 0 {
		return 0
	}

	own := blue
	if side == board.Red {
		own = red
	}
	from := board.Center
	if own != 0 {
		from = board.Centroid(own)
	}
	best, bestValue := uint32(0), math.Inf(-1)
	for _, g := range goals {
		if v := board.Distance(from, board.Centroid(g)); v > bestValue {
			best, bestValue = g, v
		}
	}
	return best
}

// covers reports whether a word histogram contains every goal letter.
func covers(word, need *[26]uint8, letters string, cells []int) bool {
	for _, i := range cells {
		c := letters[i] - 'A'
		if word[c] < need[c] {
			return false
		}
	}
	return true
}
