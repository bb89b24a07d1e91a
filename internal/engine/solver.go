// internal/engine/solver.go
//
// Entry points of the move engine.
//   - Solver: the normalized dictionary plus Config. Immutable, safe to share.
//   - Session: the deals opened by one logical session, keyed by letter board.
//   - Deal (deal.go): caches for one letter board.
package engine

import (
	"fmt"
	"strings"
)

// Solver holds the word list and settings shared by all deals.
type Solver struct {
	cfg   Config
	words []string
}

// NewSolver normalizes words to trimmed upper case and drops blanks.
// Order is preserved; it decides the order of every result list.
func NewSolver(words []string, cfg Config) *Solver {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return &Solver{cfg: cfg.withDefaults(), words: out}
}

// Config returns the solver settings.
func (s *Solver) Config() Config { return s.cfg }

// WordCount is the size of the dictionary.
func (s *Solver) WordCount() int { return len(s.words) }

// NewDeal filters the dictionary for a letter board and builds its caches.
func (s *Solver) NewDeal(letters string) (*Deal, error) {
	letters = strings.ToUpper(letters)
	if !validLetters(letters) {
		return nil, fmt.Errorf("%w: %q", ErrBadLetters, letters)
	}
	return newDeal(s.cfg, s.words, letters), nil
}

// NewSession starts an empty session.
func (s *Solver) NewSession() *Session {
	return &Session{solver: s, deals: make(map[string]*Deal)}
}

// Session maps letter boards to their deals. Not safe for concurrent use.
type Session struct {
	solver *Solver
	deals  map[string]*Deal
}

// Deal returns the deal for letters, creating it on first use.
func (s *Session) Deal(letters string) (*Deal, error) {
	key := strings.ToUpper(letters)
	if d, ok := s.deals[key]; ok {
		return d, nil
	}
	d, err := s.solver.NewDeal(key)
	if err != nil {
		return nil, err
	}
	s.deals[key] = d
	return d, nil
}

// Drop forgets the deal for letters.
func (s *Session) Drop(letters string) {
	delete(s.deals, strings.ToUpper(letters))
}

func validLetters(letters string) bool {
	if len(letters) != 25 {
		return false
	}
	for i := 0; i < len(letters); i++ {
		if letters[i] < 'A' || letters[i] > 'Z' {
			return false
		}
	}
	return true
}
