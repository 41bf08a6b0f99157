package model

import (
	"time"
)

const (
	FrequencyDaily  = "DAILY"
	FrequencyWeekly = "WEEKLY"
)

const (
	CategoryHealth       = "HEALTH"
	CategoryFitness      = "FITNESS"
	CategoryProductivity = "PRODUCTIVITY"
	CategoryLearning     = "LEARNING"
	CategoryMindfulness  = "MINDFULNESS"
	CategoryNutrition    = "NUTRITION"
	CategorySocial       = "SOCIAL"
	CategoryFinance      = "FINANCE"
	CategoryCreativity   = "CREATIVITY"
	CategoryOther        = "OTHER"
)

var categories = map[string]bool{
	CategoryHealth:       true,
	CategoryFitness:      true,
	CategoryProductivity: true,
	CategoryLearning:     true,
	CategoryMindfulness:  true,
	CategoryNutrition:    true,
	CategorySocial:       true,
	CategoryFinance:      true,
	CategoryCreativity:   true,
	CategoryOther:        true,
}

func IsCategory(c string) bool {
	return categories[c]
}

func IsFrequency(f string) bool {
	return f == FrequencyDaily || f == FrequencyWeekly
}

type Habit struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Name        string    `db:"name" json:"name"`
	NameKey     string    `db:"name_key" json:"-"` // case-folded name, unique per user
	Description string    `db:"description" json:"description"`
	Frequency   string    `db:"frequency" json:"frequency"`
	Category    string    `db:"category" json:"category"`
	Color       string    `db:"color" json:"color,omitempty"`
	Icon        string    `db:"icon" json:"icon,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// HabitSummary is a habit with the figures derived from its completions.
type HabitSummary struct {
	*Habit
	Streak           int      `json:"streak"`
	LongestStreak    int      `json:"longestStreak"`
	TotalCompletions int      `json:"totalCompletions"`
	CompletedDates   []string `json:"completedDates"`
}
