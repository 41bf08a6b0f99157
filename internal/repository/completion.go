package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/onyxhabits/onyx/internal/model"
)

// FeedEntry is a completion joined with its author and habit.
type FeedEntry struct {
	ID            string    `db:"id"`
	Day           string    `db:"day"`
	CompletedAt   time.Time `db:"completed_at"`
	UserID        string    `db:"user_id"`
	Username      string    `db:"username"`
	HabitName     string    `db:"habit_name"`
	HabitCategory string    `db:"habit_category"`
	HabitIcon     string    `db:"habit_icon"`
	HabitColor    string    `db:"habit_color"`
}

// CircleCompletion is a completion made by the viewer or someone they follow.
type CircleCompletion struct {
	UserID      string    `db:"user_id"`
	Username    string    `db:"username"`
	CompletedAt time.Time `db:"completed_at"`
}

// ToggleOutcome is what a Toggle did to its (habit, day).
type ToggleOutcome int

const (
	ToggleRemoved ToggleOutcome = iota
	ToggleCreated
	// ToggleRaced means a concurrent toggle stored the day first. The day is
	// completed but this call's row was never written.
	ToggleRaced
)

func (o ToggleOutcome) Completed() bool {
	return o != ToggleRemoved
}

type CompletionRepository interface {
	// Toggle deletes the completion for (habit, day) when one exists and creates it
	// otherwise, inside one transaction.
	Toggle(ctx context.Context, completion *model.Completion) (ToggleOutcome, error)
	ByUser(ctx context.Context, userID string) ([]*model.Completion, error)
	ByHabit(ctx context.Context, habitID string) ([]*model.Completion, error)
	CountByHabitSince(ctx context.Context, habitID, fromDay string) (int, error)
	Feed(ctx context.Context, userID string, limit int) ([]*FeedEntry, error)
	CircleOnDay(ctx context.Context, userID, day string) ([]*CircleCompletion, error)
}

type completionRepository struct {
	db *sqlx.DB
}

func NewCompletionRepository(db *sqlx.DB) CompletionRepository {
	return &completionRepository{db: db}
}

func (r *completionRepository) Toggle(ctx context.Context, completion *model.Completion) (ToggleOutcome, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return ToggleRemoved, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM completions WHERE habit_id = $1 AND day = $2`,
		completion.HabitID, completion.Day)
	if err != nil {
		return ToggleRemoved, fmt.Errorf("failed to delete completion: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return ToggleRemoved, err
	}

	if rows > 0 {
		return ToggleRemoved, tx.Commit()
	}

	if completion.ID == "" {
		completion.ID = uuid.New().String()
	}

	query := `INSERT INTO completions (id, habit_id, user_id, day, completed_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (habit_id, day) DO NOTHING`

	result, err = tx.ExecContext(ctx, query,
		completion.ID,
		completion.HabitID,
		completion.UserID,
		completion.Day,
		completion.CompletedAt,
	)
	if err != nil {
		return ToggleRemoved, fmt.Errorf("failed to create completion: %w", err)
	}

	rows, err = result.RowsAffected()
	if err != nil {
		return ToggleRemoved, err
	}

	outcome := ToggleCreated
	if rows == 0 {
		outcome = ToggleRaced
	}
	return outcome, tx.Commit()
}

func (r *completionRepository) ByUser(ctx context.Context, userID string) ([]*model.Completion, error) {
	completions := []*model.Completion{}
	query := `SELECT * FROM completions WHERE user_id = $1 ORDER BY day DESC`

	err := r.db.SelectContext(ctx, &completions, query, userID)
	if err != nil {
		return nil, err
	}

	return completions, nil
}

func (r *completionRepository) ByHabit(ctx context.Context, habitID string) ([]*model.Completion, error) {
	completions := []*model.Completion{}
	query := `SELECT * FROM completions WHERE habit_id = $1 ORDER BY day DESC`

	err := r.db.SelectContext(ctx, &completions, query, habitID)
	if err != nil {
		return nil, err
	}

	return completions, nil
}

// CountByHabitSince counts completions on or after fromDay (YYYY-MM-DD).
func (r *completionRepository) CountByHabitSince(ctx context.Context, habitID, fromDay string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM completions WHERE habit_id = $1 AND day >= $2`

	err := r.db.GetContext(ctx, &count, query, habitID, fromDay)
	return count, err
}

// Feed returns the latest completions of userID and everyone they follow.
func (r *completionRepository) Feed(ctx context.Context, userID string, limit int) ([]*FeedEntry, error) {
	entries := []*FeedEntry{}
	query := `SELECT c.id, c.day, c.completed_at, u.id AS user_id, u.username,
	            h.name AS habit_name, h.category AS habit_category, h.icon AS habit_icon, h.color AS habit_color
	          FROM completions c
	          JOIN users u ON u.id = c.user_id
	          JOIN habits h ON h.id = c.habit_id
	          WHERE c.user_id = $1
	             OR c.user_id IN (SELECT following_id FROM follows WHERE follower_id = $1)
	          ORDER BY c.completed_at DESC, c.id DESC
	          LIMIT $2`

	err := r.db.SelectContext(ctx, &entries, query, userID, limit)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// CircleOnDay returns completions on day made by userID or the users they follow.
func (r *completionRepository) CircleOnDay(ctx context.Context, userID, day string) ([]*CircleCompletion, error) {
	rows := []*CircleCompletion{}
	query := `SELECT u.id AS user_id, u.username, c.completed_at
	          FROM completions c
	          JOIN users u ON u.id = c.user_id
	          WHERE c.day = $2
	            AND (c.user_id = $1 OR c.user_id IN (SELECT following_id FROM follows WHERE follower_id = $1))
	          ORDER BY c.completed_at ASC`

	err := r.db.SelectContext(ctx, &rows, query, userID, day)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
