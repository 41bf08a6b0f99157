package model

import "github.com/onyxhabits/onyx/internal/streak"

type TopHabit struct {
	Name   string `json:"name"`
	Streak int    `json:"streak"`
	Icon   string `json:"icon,omitempty"`
}

// PlaceholderTopHabit is shown until the user has at least one habit.
var PlaceholderTopHabit = TopHabit{Name: "Start a habit!", Streak: 0, Icon: "🌱"}

type DashboardStats struct {
	ActiveHabits     int             `json:"activeHabits"`
	TopHabit         TopHabit        `json:"topHabit"`
	WeeklyActivity   []streak.Bucket `json:"weeklyActivity"`
	ScoreChange      int             `json:"scoreChange"`
	TotalCompletions int             `json:"totalCompletions"`
}

type RunningStats struct {
	Found       bool   `json:"found"`
	Miles       int    `json:"miles,omitempty"`
	TargetMiles int    `json:"targetMiles,omitempty"`
	DaysLeft    int    `json:"daysLeft,omitempty"`
	HabitName   string `json:"habitName,omitempty"`
}

type ClubMember struct {
	ID       string `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Avatar   string `db:"-" json:"avatar"`
	IsMe     bool   `db:"-" json:"isMe"`
}

type FiveAMClub struct {
	Members []ClubMember `json:"members"`
	Count   int          `json:"count"`
	Joined  bool         `json:"joined"`
}
