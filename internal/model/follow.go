package model

import (
	"time"
)

type Follow struct {
	FollowerID  string    `db:"follower_id"`
	FollowingID string    `db:"following_id"`
	CreatedAt   time.Time `db:"created_at"`
}

// SocialUser is another user as listed in search results and follow lists.
type SocialUser struct {
	ID          string `db:"id" json:"id"`
	Username    string `db:"username" json:"username"`
	IsFollowing bool   `db:"is_following" json:"isFollowing"`
	AvatarURL   string `db:"-" json:"avatarUrl,omitempty"`
}
