package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/onyxhabits/onyx/internal/model"
)

var (
	ErrAlreadyFollowing = errors.New("already following")
	ErrFollowNotFound   = errors.New("follow not found")
)

type FollowRepository interface {
	Create(ctx context.Context, followerID, followingID string) error
	Delete(ctx context.Context, followerID, followingID string) error
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
	Followers(ctx context.Context, userID string) ([]*model.SocialUser, error)
	Following(ctx context.Context, userID string) ([]*model.SocialUser, error)
}

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, followerID, followingID string) error {
	query := `INSERT INTO follows (follower_id, following_id, created_at) VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, followerID, followingID, time.Now())
	if isUniqueViolation(err) {
		return ErrAlreadyFollowing
	}
	return err
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`

	result, err := r.db.ExecContext(ctx, query, followerID, followingID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrFollowNotFound
	}

	return nil
}

func (r *followRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	query := `SELECT follower_id FROM follows WHERE following_id = $1`

	err := r.db.SelectContext(ctx, &ids, query, userID)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// Followers lists who follows userID, flagging the ones userID follows back.
func (r *followRepository) Followers(ctx context.Context, userID string) ([]*model.SocialUser, error) {
	users := []*model.SocialUser{}
	query := `SELECT u.id, u.username,
	            EXISTS (SELECT 1 FROM follows b WHERE b.follower_id = $1 AND b.following_id = u.id) AS is_following
	          FROM follows f
	          JOIN users u ON u.id = f.follower_id
	          WHERE f.following_id = $1
	          ORDER BY f.created_at DESC`

	err := r.db.SelectContext(ctx, &users, query, userID)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *followRepository) Following(ctx context.Context, userID string) ([]*model.SocialUser, error) {
	users := []*model.SocialUser{}
	query := `SELECT u.id, u.username, TRUE AS is_following
	          FROM follows f
	          JOIN users u ON u.id = f.following_id
	          WHERE f.follower_id = $1
	          ORDER BY f.created_at DESC`

	err := r.db.SelectContext(ctx, &users, query, userID)
	if err != nil {
		return nil, err
	}

	return users, nil
}
