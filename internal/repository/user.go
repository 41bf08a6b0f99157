package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/onyxhabits/onyx/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByUsername(ctx context.Context, username string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Counts(ctx context.Context, id string) (model.UserCounts, error)
	Search(ctx context.Context, viewerID, query string, limit int) ([]*model.SocialUser, error)
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if isUniqueViolation(err) {
		if strings.Contains(err.Error(), "username") {
			return ErrDuplicateUsername
		}
		return ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE username = $1`

	err := r.db.GetContext(ctx, user, query, username)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) Counts(ctx context.Context, id string) (model.UserCounts, error) {
	var counts model.UserCounts
	query := `SELECT
	            (SELECT COUNT(*) FROM follows WHERE following_id = $1) AS followers,
	            (SELECT COUNT(*) FROM follows WHERE follower_id = $1) AS following`

	err := r.db.GetContext(ctx, &counts, query, id)
	return counts, err
}

// Search matches username or email, case-insensitive, excluding the viewer.
func (r *userRepository) Search(ctx context.Context, viewerID, q string, limit int) ([]*model.SocialUser, error) {
	users := []*model.SocialUser{}
	query := `SELECT u.id, u.username,
	            EXISTS (SELECT 1 FROM follows f WHERE f.follower_id = $1 AND f.following_id = u.id) AS is_following
	          FROM users u
	          WHERE u.id <> $1
	            AND (LOWER(u.username) LIKE $2 ESCAPE '\' OR LOWER(u.email) LIKE $2 ESCAPE '\')
	          ORDER BY u.username ASC
	          LIMIT $3`

	err := r.db.SelectContext(ctx, &users, query, viewerID, likePattern(q), limit)
	if err != nil {
		return nil, err
	}

	return users, nil
}

// Delete removes the user; habits, completions, follows, integrations, tokens and
// file records cascade.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}
