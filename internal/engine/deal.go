package engine

import (
	"math"
	"strings"

	"github.com/robalobadob/letterpress/internal/board"
)

// entry is a playable word with its letter histogram.
type entry struct {
	word   string
	counts [26]uint8
}

// Deal holds the caches for one letter board: the playable words, the words
// already played, per-cell values and memoized position scores.
//
// A Deal is not safe for concurrent use.
type Deal struct {
	cfg     Config
	letters string

	cells  [26]uint32 // cells holding each letter
	supply [26]int    // occurrences of each letter on the board

	playable   []entry
	played     map[string]struct{}
	popularity [26]float64
	defended   [board.Cells]float64
	undefended [board.Cells]float64
	positions  map[uint64]float64
}

func newDeal(cfg Config, words []string, letters string) *Deal {
	d := &Deal{
		cfg:       cfg,
		letters:   letters,
		played:    make(map[string]struct{}),
		positions: make(map[uint64]float64),
	}
	for i := 0; i < len(letters); i++ {
		c := letters[i] - 'A'
		d.cells[c] |= board.Bit(i)
		d.supply[c]++
	}
	for _, w := range words {
		if len(w) >= cfg.WordSizeLimit {
			continue
		}
		if e, ok := d.fits(w); ok {
			d.playable = append(d.playable, e)
		}
	}
	d.computeValues()
	return d
}

// fits reports whether w can be spelled from the board letters.
func (d *Deal) fits(w string) (entry, bool) {
	e := entry{word: w}
	for i := 0; i < len(w); i++ {
		c := w[i]
		if c < 'A' || c > 'Z' {
			return e, false
		}
		e.counts[c-'A']++
		if int(e.counts[c-'A']) > d.supply[c-'A'] {
			return e, false
		}
	}
	return e, true
}

// computeValues derives letter popularity and the per-cell value arrays.
func (d *Deal) computeValues() {
	var freq [26]int
	most := 0
	for _, e := range d.playable {
		for c, n := range e.counts {
			freq[c] += int(n)
		}
	}
	for _, n := range freq {
		most = max(most, n)
	}
	if most > 0 {
		for c, n := range freq {
			d.popularity[c] = roundTo(float64(n)/float64(most), 2)
		}
	}

	w := d.cfg.Weights
	for i := 0; i < board.Cells; i++ {
		d.defended[i] = roundTo(w.Defended+w.DefendedPopularity*(1-d.pop(i)), 2)
	}
	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			i := row*board.Size + col
			samples := make([]float64, 0, 8)
			if row-1 >= 0 {
				samples = append(samples, d.pop(i-board.Size))
			}
			if col+1 < board.Size {
				samples = append(samples, d.pop(i+1))
			}
			if row+1 < board.Size {
				samples = append(samples, d.pop(i+board.Size))
			}
			if col-1 >= 0 {
				samples = append(samples, d.pop(i-1))
			}
			for k, n := 0, len(samples); k < n; k++ {
				samples = append(samples, 1-d.pop(i))
			}
			sum := 0.0
			for _, v := range samples {
				sum += v
			}
			d.undefended[i] = roundTo(w.Undefended+(w.UndefendedPopularity*sum)/float64(len(samples)), 2)
		}
	}
}

// pop is the popularity of the letter on cell i.
func (d *Deal) pop(i int) float64 { return d.popularity[d.letters[i]-'A'] }

// Letters returns the board letters.
func (d *Deal) Letters() string { return d.letters }

// Popularity returns the popularity of letter c in [0,1].
func (d *Deal) Popularity(c byte) float64 {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return 0
	}
	return d.popularity[c-'A']
}

// Values returns copies of the defended and undefended cell values.
func (d *Deal) Values() (defended, undefended [board.Cells]float64) {
	return d.defended, d.undefended
}

// Possible returns the playable words not yet played, in dictionary order.
func (d *Deal) Possible() []string {
	out := make([]string, 0, len(d.playable))
	for _, e := range d.open() {
		out = append(out, e.word)
	}
	return out
}

func (d *Deal) open() []entry {
	if len(d.played) == 0 {
		return d.playable
	}
	out := make([]entry, 0, len(d.playable))
	for _, e := range d.playable {
		if _, ok := d.played[e.word]; !ok {
			out = append(out, e)
		}
	}
	return out
}

// MaxWordSize is the length of the longest open word.
func (d *Deal) MaxWordSize() int {
	n := 0
	for _, e := range d.open() {
		n = max(n, len(e.word))
	}
	return n
}

// Concentrate narrows Possible by three constraints:
//   - need: the word uses at least as many of each letter as need lists;
//   - not:  the word leaves the listed letters unused on the board;
//   - anyOf: the word uses at least one of the listed letters.
//
// Empty constraints are ignored. Words that are a strict prefix of a played
// word are dropped. Constraints must be upper case.
func (d *Deal) Concentrate(need, not, anyOf string) ([]string, error) {
	for _, s := range []string{need, not, anyOf} {
		if s != strings.ToUpper(s) {
			return nil, ErrNotUpperCase
		}
	}
	return d.concentrate(need, not, anyOf), nil
}

func (d *Deal) concentrate(need, not, anyOf string) []string {
	needCount := histogram(need)
	notCount := histogram(not)
	out := make([]string, 0)
	for _, e := range d.open() {
		if need != "" && !d.hasAll(e, needCount) {
			continue
		}
		if not != "" && !d.avoids(e, notCount) {
			continue
		}
		if anyOf != "" && !strings.ContainsAny(e.word, anyOf) {
			continue
		}
		if d.prefixOfPlayed(e.word) {
			continue
		}
		out = append(out, e.word)
	}
	return out
}

func (d *Deal) hasAll(e entry, need map[byte]int) bool {
	for c, n := range need {
		if count(&e.counts, c) < n {
			return false
		}
	}
	return true
}

func (d *Deal) avoids(e entry, not map[byte]int) bool {
	for c, n := range not {
		if count(&e.counts, c) > count26(&d.supply, c)-n {
			return false
		}
	}
	return true
}

func (d *Deal) prefixOfPlayed(w string) bool {
	for p := range d.played {
		if len(p) > len(w) && strings.HasPrefix(p, w) {
			return true
		}
	}
	return false
}

// PlayWord records w as played on this deal.
func (d *Deal) PlayWord(w string) {
	d.played[strings.ToUpper(strings.TrimSpace(w))] = struct{}{}
}

// UnplayWord removes w from the played set.
func (d *Deal) UnplayWord(w string) {
	delete(d.played, strings.ToUpper(strings.TrimSpace(w)))
}

// ResetPlayed replaces the played set with words.
func (d *Deal) ResetPlayed(words []string) {
	d.played = make(map[string]struct{}, len(words))
	for _, w := range words {
		d.PlayWord(w)
	}
}

// IsPlayed reports whether w has been played on this deal.
func (d *Deal) IsPlayed(w string) bool {
	_, ok := d.played[strings.ToUpper(strings.TrimSpace(w))]
	return ok
}

// histogram counts each byte of s.
func histogram(s string) map[byte]int {
	m := make(map[byte]int, len(s))
	for i := 0; i < len(s); i++ {
		m[s[i]]++
	}
	return m
}

// count reads a letter histogram; bytes outside A-Z never occur in words.
func count(h *[26]uint8, c byte) int {
	if c < 'A' || c > 'Z' {
		return 0
	}
	return int(h[c-'A'])
}

func count26(h *[26]int, c byte) int {
	if c < 'A' || c > 'Z' {
		return 0
	}
	return h[c-'A']
}

// roundTo rounds half up to the given number of decimal places.
func roundTo(x float64, places int) float64 {
	f := math.Pow(10, float64(places))
	return math.Floor(x*f+0.5) / f
}

// Playable reports whether w can still be played: it is spelled from the
// board, has not been played, and is not a prefix of a played word.
func (d *Deal) Playable(w string) bool {
	w = strings.ToUpper(strings.TrimSpace(w))
	if d.IsPlayed(w) || d.prefixOfPlayed(w) {
		return false
	}
	for _, e := range d.playable {
		if e.word == w {
			return true
		}
	}
	return false
}
