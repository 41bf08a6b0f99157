package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`

	// Computed fields (not in database)
	AvatarURL string `db:"-" json:"avatarUrl,omitempty"`
}

// Initial is the single-letter fallback shown when a user has no avatar.
func (u *User) Initial() string {
	r, _ := utf8.DecodeRuneInString(u.Username)
	if r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}

type UserCounts struct {
	Followers int `db:"followers" json:"followers"`
	Following int `db:"following" json:"following"`
}

// Me is the authenticated user's own view of their account.
type Me struct {
	*User
	Count UserCounts `json:"_count"`
}
