package engine

import "github.com/robalobadob/letterpress/internal/board"

// Placements maps packed (blue, red) keys to scores and remembers the order
// keys were first seen in.
type Placements struct {
	keys   []uint64
	scores map[uint64]float64
}

// NewPlacements returns an empty table.
func NewPlacements() *Placements {
	return &Placements{scores: make(map[uint64]float64)}
}

// Len is the number of distinct positions.
func (p *Placements) Len() int { return len(p.keys) }

// Has reports whether key was already scored.
func (p *Placements) Has(key uint64) bool {
	_, ok := p.scores[key]
	return ok
}

// Add stores a score for a key not seen before.
func (p *Placements) Add(key uint64, score float64) {
	if _, ok := p.scores[key]; ok {
		return
	}
	p.keys = append(p.keys, key)
	p.scores[key] = score
}

// Score returns the score stored for key.
func (p *Placements) Score(key uint64) (float64, bool) {
	s, ok := p.scores[key]
	return s, ok
}

// Keys returns the keys in insertion order.
func (p *Placements) Keys() []uint64 { return p.keys }

// Each calls fn for every position in insertion order.
func (p *Placements) Each(fn func(blue, red uint32, score float64)) {
	for _, k := range p.keys {
		blue, red := board.UnpackKey(k)
		fn(blue, red, p.scores[k])
	}
}

// Best returns the highest score for blue, the lowest for red.
func (p *Placements) Best(side board.Side) (float64, bool) {
	if len(p.keys) == 0 {
		return 0, false
	}
	best := p.scores[p.keys[0]]
	for _, k := range p.keys[1:] {
		s := p.scores[k]
		if (side == board.Blue && s > best) || (side == board.Red && s < best) {
			best = s
		}
	}
	return best, true
}

// Arrange scores every distinct way side can place word on the board.
//
// Each letter of word goes on its own matching cell outside avoid; a letter
// used k times picks k distinct cells. Cells the opponent defends are not
// captured. Positions already in scores are skipped.
func (d *Deal) Arrange(word string, pos board.Position, scores *Placements, avoid uint32, side board.Side) {
	var uses [26]int
	var order []byte
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c < 'A' || c > 'Z' {
			return
		}
		if uses[c-'A'] == 0 {
			order = append(order, c-'A')
		}
		uses[c-'A']++
	}

	// Letters with a single way to be placed are applied up front; the rest
	// form a cartesian product, first letter most significant.
	var fixed uint32
	var options [][]uint32
	for _, c := range order {
		combos := combinations(d.cells[c]&^avoid, uses[c])
		switch len(combos) {
		case 0:
			return
		case 1:
			fixed |= combos[0]
		default:
			options = append(options, combos)
		}
	}
	base := pos.Capture(fixed, side)

	var walk func(k int, mask uint32)
	walk = func(k int, mask uint32) {
		if k == len(options) {
			next := base.Capture(mask, side)
			key := board.PackKey(next.Blue, next.Red)
			if !scores.Has(key) {
				scores.Add(key, d.EvaluatePos(next))
			}
			return
		}
		for _, m := range options[k] {
			walk(k+1, mask|m)
		}
	}
	walk(0, 0)
}

// combinations lists every k-cell subset of cells as a mask, in
// lexicographic order of cell index.
func combinations(cells uint32, k int) []uint32 {
	var idx []int
	for i := 0; i < board.Cells; i++ {
		if cells&board.Bit(i) != 0 {
			idx = append(idx, i)
		}
	}
	n := len(idx)
	if k < 0 || k > n {
		return nil
	}
	var out []uint32
	var rec func(start, depth int, mask uint32)
	rec = func(start, depth int, mask uint32) {
		if depth == k {
			out = append(out, mask)
			return
		}
		for i := start; i <= n-(k-depth); i++ {
			rec(i+1, depth+1, mask|board.Bit(idx[i]))
		}
	}
	rec(0, 0, 0)
	return out
}

// eachCombination calls fn with every r-element subset of cells in
// lexicographic order. The slice is reused between calls.
func eachCombination(cells []int, r int, fn func([]int)) {
	n := len(cells)
	if r < 0 || r > n {
		return
	}
	combo := make([]int, r)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == r {
			fn(combo)
			return
		}
		for i := start; i <= n-(r-depth); i++ {
			combo[depth] = cells[i]
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
}
