package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/letterpress/internal/board"
	"github.com/robalobadob/letterpress/internal/game"
)

// ErrNotFound is returned when no stored game has the requested ID.
var ErrNotFound = errors.New("history: game not found")

// Owner identifies who a stored game belongs to: a user account or, for
// guests, the anonymous cookie. Exactly one field is set.
type Owner struct {
	UserID      string
	AnonymousID string
}

// Summary is one row of a user's game list.
type Summary struct {
	ID        string `json:"id"`
	Letters   string `json:"letters"`
	Colors    string `json:"colors"`
	Turns     int    `json:"turns"`
	StartedAt string `json:"startedAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Store persists game snapshots in the games table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Save inserts or updates a snapshot. The owner is only written on insert.
func (s *Store) Save(ctx context.Context, snap game.Snapshot, owner Owner) error {
	turns, err := json.Marshal(snap.Turns)
	if err != nil {
		return fmt.Errorf("encode turns: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO games (id, user_id, anonymous_id, letters, colors, move, turns, started_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			colors=excluded.colors, move=excluded.move, turns=excluded.turns, updated_at=excluded.updated_at`,
		snap.ID, nullable(owner.UserID), nullable(owner.AnonymousID),
		snap.Letters, snap.Colors, int(snap.Move), string(turns), now, now)
	if err != nil {
		return fmt.Errorf("save game %s: %w", snap.ID, err)
	}
	return nil
}

// Load reads a stored game back.
func (s *Store) Load(ctx context.Context, id string) (game.Snapshot, Owner, error) {
	var (
		snap       game.Snapshot
		owner      Owner
		user, anon sql.NullString
		move       int
		turns      string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, anonymous_id, letters, colors, move, turns
		FROM games WHERE id=?`, id).
		Scan(&snap.ID, &user, &anon, &snap.Letters, &snap.Colors, &move, &turns)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, owner, ErrNotFound
	}
	if err != nil {
		return snap, owner, fmt.Errorf("load game %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(turns), &snap.Turns); err != nil {
		return snap, owner, fmt.Errorf("decode turns of %s: %w", id, err)
	}
	snap.Move = board.Side(move)
	owner.UserID, owner.AnonymousID = user.String, anon.String
	return snap, owner, nil
}

// ListByUser returns a user's most recently updated games.
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, letters, colors, turns, started_at, updated_at
		FROM games WHERE user_id=? ORDER BY updated_at DESC, started_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sm Summary
		var turns string
		if err := rows.Scan(&sm.ID, &sm.Letters, &sm.Colors, &turns, &sm.StartedAt, &sm.UpdatedAt); err != nil {
			return nil, err
		}
		var ts []game.Turn
		if err := json.Unmarshal([]byte(turns), &ts); err == nil {
			sm.Turns = len(ts)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

// ClaimAnonymous moves a guest's games to a user account.
func (s *Store) ClaimAnonymous(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
