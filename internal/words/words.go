// internal/words/words.go
//
// Dictionary source for the move engine.
//
// Responsibilities:
//   - Load the word list from environment-provided files or fall back to the
//     embedded default list.
//   - Keep file order: the engine reports words in dictionary order.
//   - Supply RandomBoard for new games that do not name their letters.
//
// Initialization behavior (Init):
//  1. If WORDS_FILE is set, load it. If WORDS_EXTRA_FILE is also set (a list
//     of rude or obscure words), load it at the same time and append it.
//  2. Otherwise use the embedded assets/words.txt.
//
// Constraints:
//   - Words are trimmed and upper-cased; lines with anything but letters are
//     skipped. Duplicates are kept.
//   - Init runs once (sync.Once).
package words

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/robalobadob/letterpress/assets"
)

var (
	initOnce   sync.Once
	list       []string
	extraCount int
	initialErr error
)

// Init loads the word list exactly once.
// Returns an error if the list ends up empty.
func Init() error {
	initOnce.Do(func() {
		main, extra, err := Load(context.Background(), os.Getenv("WORDS_FILE"), os.Getenv("WORDS_EXTRA_FILE"))
		if err != nil {
			initialErr = err
			return
		}
		list = append(main, extra...)
		extraCount = len(extra)
		if len(list) == 0 {
			initialErr = errors.New("words: word list is empty")
		}
	})
	return initialErr
}

// Load reads the main and extra lists concurrently. An empty mainPath selects
// the embedded list; an empty extraPath loads nothing extra.
func Load(ctx context.Context, mainPath, extraPath string) (main, extra []string, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if mainPath == "" {
			l, err := assets.WordList()
			main = l
			return err
		}
		l, err := readWordFile(ctx, mainPath)
		main = l
		return err
	})
	if extraPath != "" {
		g.Go(func() error {
			l, err := readWordFile(ctx, extraPath)
			extra = l
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return main, extra, nil
}

// readWordFile loads one word per line, upper-cased and trimmed.
func readWordFile(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: %w", err)
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for n := 0; sc.Scan(); n++ {
		if n%4096 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		w := strings.ToUpper(strings.TrimSpace(sc.Text()))
		if w != "" && isAlpha(w) {
			out = append(out, w)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	return out, nil
}

// isAlpha reports whether s is all upper-case ASCII letters.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// List returns the loaded words in file order.
func List() []string { return list }

// Stats returns counts of loaded words: (all, from the extra list).
func Stats() (total int, extra int) {
	return len(list), extraCount
}

// letterWeights follow English letter frequency so random boards stay
// playable; vowels are common and Q, X, Z rare.
var letterWeights = [26]int{
	8, 2, 3, 4, 11, 2, 2, 3, 7, 1, 1, 4, 3, // A-M
	7, 7, 3, 1, 7, 6, 7, 3, 1, 2, 1, 2, 1, // N-Z
}

// RandomBoard returns 25 random letters drawn with English letter weights.
func RandomBoard() string {
	total := 0
	for _, w := range letterWeights {
		total += w
	}
	b := make([]byte, 25)
	for i := range b {
		n := frand.Intn(total)
		for c, w := range letterWeights {
			if n < w {
				b[i] = byte('A' + c)
				break
			}
			n -= w
		}
	}
	return string(b)
}
