package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/onyxhabits/onyx/internal/model"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token has expired")
)

type TokenRepository interface {
	Create(ctx context.Context, token *model.Token) error
	ConsumeToken(ctx context.Context, token string) (*model.Token, error)
	DeleteByUserAndType(ctx context.Context, userID, tokenType string) error
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *model.Token) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO tokens (id, user_id, type, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.ID,
		token.UserID,
		token.Type,
		token.Token,
		token.ExpiresAt,
		token.CreatedAt,
	)
	return err
}

// ConsumeToken atomically marks token as used and returns it.
// Only the first of two concurrent requests succeeds; the second gets ErrTokenNotFound.
// An expired token is consumed too and reported as ErrTokenExpired.
func (r *tokenRepository) ConsumeToken(ctx context.Context, token string) (*model.Token, error) {
	var t model.Token

	query := `
		UPDATE tokens
		SET used_at = $1
		WHERE token = $2
		AND used_at IS NULL
		RETURNING *
	`

	now := time.Now()
	err := r.db.GetContext(ctx, &t, query, now, token)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	if t.ExpiredAt(now) {
		return nil, ErrTokenExpired
	}

	return &t, nil
}

// DeleteByUserAndType drops the user's outstanding tokens of one type.
func (r *tokenRepository) DeleteByUserAndType(ctx context.Context, userID, tokenType string) error {
	query := `DELETE FROM tokens WHERE user_id = $1 AND type = $2 AND used_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, userID, tokenType)
	return err
}
