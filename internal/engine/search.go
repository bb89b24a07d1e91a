package engine

import (
	"sort"

	"github.com/robalobadob/letterpress/internal/board"
)

// Search runs Decide and ranks the plays best first for side. Equal scores
// put the longer word first and otherwise keep Decide's order.
func (d *Deal) Search(colors, need, not string, side board.Side) ([]Play, error) {
	plays, err := d.Decide(colors, need, not, side)
	if err != nil {
		return nil, err
	}
	SortPlays(plays, side, d.cfg.BucketSortMin)
	return plays, nil
}

// SortPlays ranks plays in place. From bucketMin plays on, plays are
// bucketed by exact score and only the distinct scores are sorted.
func SortPlays(plays []Play, side board.Side, bucketMin int) {
	better := func(a, b float64) bool {
		if side == board.Red {
			return a < b
		}
		return a > b
	}
	longer := func(ps []Play) func(i, j int) bool {
		return func(i, j int) bool { return len(ps[i].Word) > len(ps[j].Word) }
	}

	if bucketMin <= 0 || len(plays) < bucketMin {
		sort.SliceStable(plays, func(i, j int) bool {
			if plays[i].Score != plays[j].Score {
				return better(plays[i].Score, plays[j].Score)
			}
			return len(plays[i].Word) > len(plays[j].Word)
		})
		return
	}

	buckets := make(map[float64][]Play)
	var scores []float64
	for _, p := range plays {
		if _, ok := buckets[p.Score]; !ok {
			scores = append(scores, p.Score)
		}
		buckets[p.Score] = append(buckets[p.Score], p)
	}
	sort.Slice(scores, func(i, j int) bool { return better(scores[i], scores[j]) })
	out := plays[:0]
	for _, s := range scores {
		b := buckets[s]
		sort.SliceStable(b, longer(b))
		out = append(out, b...)
	}
}
