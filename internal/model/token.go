package model

import "time"

const TokenTypePasswordReset = "password_reset"

// Token is a single-use secret mailed to a user. UsedAt is set once it has
// been redeemed.
type Token struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Type      string     `db:"type"`
	Token     string     `db:"token"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
	CreatedAt time.Time  `db:"created_at"`
}

func (t *Token) ExpiredAt(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
