package model

import (
	"time"
)

type Completion struct {
	ID          string    `db:"id" json:"id"`
	HabitID     string    `db:"habit_id" json:"habitId"`
	UserID      string    `db:"user_id" json:"userId"`
	Day         string    `db:"day" json:"date"` // YYYY-MM-DD in the deployment's day location
	CompletedAt time.Time `db:"completed_at" json:"completedAt"`
}

type FeedUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type FeedHabit struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Icon     string `json:"icon,omitempty"`
	Color    string `json:"color,omitempty"`
}

// FeedItem is a completion as it appears in the social feed.
type FeedItem struct {
	ID          string    `json:"id"`
	CompletedAt time.Time `json:"completedAt"`
	Date        string    `json:"date"`
	User        FeedUser  `json:"user"`
	Habit       FeedHabit `json:"habit"`
}
