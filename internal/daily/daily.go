// Package daily derives the board of the day and keeps its leaderboard.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Board returns the letters for a date: HMAC(salt, YYYY-MM-DD), one letter
// per byte of the digest.
func Board(date time.Time, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	b := make([]byte, 25)
	for i := range b {
		b[i] = 'A' + sum[i]%26
	}
	return string(b)
}
