package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/letterpress/internal/board"
)

// safeNudge separates safe plays from unsafe ones with the same score.
const safeNudge = 0.0005

// Play is one scored candidate move.
type Play struct {
	Score      float64 `json:"score"`
	Word       string  `json:"word"`
	GroupSize  int     `json:"groupSize"`
	Blue       uint32  `json:"blue"`
	Red        uint32  `json:"red"`
	EndingSoon bool    `json:"endingSoon"`
	Losing     bool    `json:"losing"`
}

// Group is a set of words touching the same target letters.
type Group struct {
	Key   string
	Words []string
}

// GroupWords groups words by the sorted target letters they use, counted
// per occurrence. Groups keep the order their first word appeared in.
func GroupWords(words []string, targets string) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, w := range words {
		key := touched(w, targets)
		if i, ok := index[key]; ok {
			groups[i].Words = append(groups[i].Words, w)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, Group{Key: key, Words: []string{w}})
	}
	return groups
}

func touched(word, targets string) string {
	b := make([]byte, 0, len(word))
	for i := 0; i < len(word); i++ {
		if strings.IndexByte(targets, word[i]) >= 0 {
			b = append(b, word[i])
		}
	}
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	return string(b)
}

// lettersIn returns the board letters on the cells of m, in cell order.
func (d *Deal) lettersIn(m uint32) string {
	var sb strings.Builder
	for i := 0; i < board.Cells; i++ {
		if m&board.Bit(i) != 0 {
			sb.WriteByte(d.letters[i])
		}
	}
	return sb.String()
}

// Decide scores every way side can play the candidate words on the board
// described by colors.
//
// When need and not are both empty, a goal set of cells is computed and its
// letters are kept out of play. Best-scoring plays that are safe get a small
// nudge so they rank ahead of unsafe ones; terminal scores are never nudged.
func (d *Deal) Decide(colors, need, not string, side board.Side) ([]Play, error) {
	start := time.Now()
	pos := board.Decode(colors)
	targets := pos.Targets(side)
	anyl := d.lettersIn(targets)

	var avoid uint32
	if need == "" && not == "" {
		if d.MaxWordSize() < d.cfg.GoalWordCutoff {
			avoid = d.ComputeGoal(pos.Blue, pos.Red, side)
			not = d.lettersIn(avoid)
		}
	}

	words, err := d.Concentrate(need, not, anyl)
	if err != nil {
		return nil, err
	}
	groups := GroupWords(words, anyl)

	plays := make([]Play, 0)
	for _, g := range groups {
		scores := NewPlacements()
		d.Arrange(g.Key, pos, scores, avoid, side)
		scores.Each(func(blue, red uint32, score float64) {
			s := roundTo(score, 3)
			for _, w := range g.Words {
				plays = append(plays, Play{Score: s, Word: w, GroupSize: len(g.Words), Blue: blue, Red: red})
			}
		})
	}

	if err := d.markSafe(plays, side); err != nil {
		return nil, err
	}

	log.Debug().
		Str("letters", d.letters).
		Str("side", side.String()).
		Int("words", len(words)).
		Int("groups", len(groups)).
		Int("plays", len(plays)).
		Uint32("goal", avoid).
		Dur("elapsed", time.Since(start)).
		Msg("decide")
	return plays, nil
}

// markSafe nudges the safe plays among those at the best score.
func (d *Deal) markSafe(plays []Play, side board.Side) error {
	if len(plays) == 0 {
		return nil
	}
	best := plays[0].Score
	for _, p := range plays[1:] {
		if (side == board.Blue && p.Score > best) || (side == board.Red && p.Score < best) {
			best = p.Score
		}
	}
	if math.Abs(best) >= TerminalScale {
		return nil
	}

	var idx []int
	var group []string
	for i, p := range plays {
		if p.Score == best {
			idx = append(idx, i)
			group = append(group, p.Word)
		}
	}
	inc := safeNudge * side.Sign()
	for _, i := range idx {
		safe, err := PlayIsSafe(group, plays[i].Word)
		if err != nil {
			return fmt.Errorf("decide: %w", err)
		}
		if safe {
			plays[i].Score = roundTo(plays[i].Score+inc, 4)
		}
	}
	return nil
}

// PlayIsSafe reports whether playing one word of a group leaves the opponent
// unable to take the group's last word.
//
// Words that prefix play are consumed by it and dropped. The rest form
// prefix chains: a word nothing extends is a single, a word whose extensions
// do not extend each other is a double, and anything deeper is big. The play
// is safe when there is no big chain and both counts are even.
func PlayIsSafe(group []string, play string) (bool, error) {
	found := false
	rest := make([]string, 0, len(group))
	for _, w := range group {
		if w == play {
			found = true
		}
		if !strings.HasPrefix(play, w) {
			rest = append(rest, w)
		}
	}
	if !found {
		return false, fmt.Errorf("%w: %q", ErrPlayNotInGroup, play)
	}
	sort.SliceStable(rest, func(i, j int) bool { return len(rest[i]) < len(rest[j]) })

	var single, double, big int
	children := make(map[string]struct{})
	for i, w := range rest {
		if _, ok := children[w]; ok {
			continue
		}
		var mine []string
		for _, w2 := range rest[i+1:] {
			if strings.HasPrefix(w2, w) {
				mine = append(mine, w2)
				children[w2] = struct{}{}
			}
		}
		if len(mine) == 0 {
			single++
			continue
		}
		isDouble := true
		for k, c1 := range mine {
			for _, c2 := range mine[k+1:] {
				if strings.HasPrefix(c2, c1) {
					big++
					isDouble = false
				}
			}
		}
		if isDouble {
			double++
		}
	}
	if big > 0 {
		return false, nil
	}
	return single%2 == 0 && double%2 == 0, nil
}
