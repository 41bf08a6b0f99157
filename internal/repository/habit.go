package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/onyxhabits/onyx/internal/model"
)

var (
	ErrHabitNotFound      = errors.New("habit not found")
	ErrDuplicateHabitName = errors.New("habit name already exists")
)

type HabitRepository interface {
	Create(ctx context.Context, habit *model.Habit) error
	ByID(ctx context.Context, userID, habitID string) (*model.Habit, error)
	Habits(ctx context.Context, userID string) ([]*model.Habit, error)
	Update(ctx context.Context, habit *model.Habit) error
	Delete(ctx context.Context, userID, habitID string) error
}

type habitRepository struct {
	db *sqlx.DB
}

func NewHabitRepository(db *sqlx.DB) HabitRepository {
	return &habitRepository{db: db}
}

func (r *habitRepository) Create(ctx context.Context, habit *model.Habit) error {
	query := `INSERT INTO habits (id, user_id, name, name_key, description, frequency, category, color, icon, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		habit.ID,
		habit.UserID,
		habit.Name,
		habit.NameKey,
		habit.Description,
		habit.Frequency,
		habit.Category,
		habit.Color,
		habit.Icon,
		habit.CreatedAt,
		habit.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateHabitName
	}

	return err
}

// ByID only returns the habit when it belongs to userID.
func (r *habitRepository) ByID(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	habit := &model.Habit{}
	query := `SELECT * FROM habits WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, habit, query, habitID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrHabitNotFound
	}
	if err != nil {
		return nil, err
	}

	return habit, nil
}

// Habits lists the user's habits, newest first.
func (r *habitRepository) Habits(ctx context.Context, userID string) ([]*model.Habit, error) {
	habits := []*model.Habit{}
	query := `SELECT * FROM habits WHERE user_id = $1 ORDER BY created_at DESC, id ASC`

	err := r.db.SelectContext(ctx, &habits, query, userID)
	if err != nil {
		return nil, err
	}

	return habits, nil
}

func (r *habitRepository) Update(ctx context.Context, habit *model.Habit) error {
	query := `UPDATE habits
	          SET name = $1, name_key = $2, description = $3, frequency = $4, category = $5, color = $6, icon = $7, updated_at = $8
	          WHERE id = $9 AND user_id = $10`

	result, err := r.db.ExecContext(ctx, query,
		habit.Name,
		habit.NameKey,
		habit.Description,
		habit.Frequency,
		habit.Category,
		habit.Color,
		habit.Icon,
		habit.UpdatedAt,
		habit.ID,
		habit.UserID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateHabitName
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrHabitNotFound
	}

	return nil
}

// Delete removes the habit and, by cascade, its completions.
func (r *habitRepository) Delete(ctx context.Context, userID, habitID string) error {
	query := `DELETE FROM habits WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, habitID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrHabitNotFound
	}

	return nil
}
