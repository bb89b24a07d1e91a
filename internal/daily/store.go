package daily

import (
	"context"
	"database/sql"
)

// Result is one player's opening play on the board of the day.
type Result struct {
	UserID  string  `json:"userId"`
	Date    string  `json:"date"`
	Letters string  `json:"letters"`
	Word    string  `json:"word"`
	Score   float64 `json:"score"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult keeps the first result per user and date.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, letters, word, score)
		VALUES(?,?,?,?,?)`, r.UserID, r.Date, r.Letters, r.Word, r.Score,
	)
	return err
}

type LBRow struct {
	UserID string  `json:"userId"`
	Word   string  `json:"word"`
	Score  float64 `json:"score"`
}

// Leaderboard ranks a date's results, best score first, earliest first on ties.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, word, score
		FROM daily_results
		WHERE date=?
		ORDER BY score DESC, created_at ASC
		LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Word, &r.Score); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
