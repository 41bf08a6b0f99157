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
	ErrIntegrationNotFound = errors.New("integration not found")
)

type IntegrationRepository interface {
	Upsert(ctx context.Context, integration *model.Integration) error
	ByProvider(ctx context.Context, userID, provider string) (*model.Integration, error)
	UpdateTokens(ctx context.Context, integration *model.Integration) error
	Delete(ctx context.Context, userID, provider string) error
}

type integrationRepository struct {
	db *sqlx.DB
}

func NewIntegrationRepository(db *sqlx.DB) IntegrationRepository {
	return &integrationRepository{db: db}
}

// Upsert stores the provider's token, replacing any earlier grant for the same user.
func (r *integrationRepository) Upsert(ctx context.Context, integration *model.Integration) error {
	now := time.Now()
	if integration.ID == "" {
		integration.ID = uuid.New().String()
	}
	if integration.CreatedAt.IsZero() {
		integration.CreatedAt = now
	}
	integration.UpdatedAt = now

	query := `INSERT INTO integrations (id, user_id, provider, access_token, refresh_token, expires_at, metadata, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (user_id, provider) DO UPDATE SET
	            access_token = excluded.access_token,
	            refresh_token = excluded.refresh_token,
	            expires_at = excluded.expires_at,
	            metadata = excluded.metadata,
	            updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		integration.ID,
		integration.UserID,
		integration.Provider,
		integration.AccessToken,
		integration.RefreshToken,
		integration.ExpiresAt,
		integration.Metadata,
		integration.CreatedAt,
		integration.UpdatedAt,
	)
	return err
}

func (r *integrationRepository) ByProvider(ctx context.Context, userID, provider string) (*model.Integration, error) {
	integration := &model.Integration{}
	query := `SELECT * FROM integrations WHERE user_id = $1 AND provider = $2`

	err := r.db.GetContext(ctx, integration, query, userID, provider)
	if err == sql.ErrNoRows {
		return nil, ErrIntegrationNotFound
	}
	if err != nil {
		return nil, err
	}

	return integration, nil
}

// UpdateTokens persists a refreshed token pair.
func (r *integrationRepository) UpdateTokens(ctx context.Context, integration *model.Integration) error {
	integration.UpdatedAt = time.Now()
	query := `UPDATE integrations
	          SET access_token = $1, refresh_token = $2, expires_at = $3, updated_at = $4
	          WHERE user_id = $5 AND provider = $6`

	result, err := r.db.ExecContext(ctx, query,
		integration.AccessToken,
		integration.RefreshToken,
		integration.ExpiresAt,
		integration.UpdatedAt,
		integration.UserID,
		integration.Provider,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrIntegrationNotFound
	}

	return nil
}

func (r *integrationRepository) Delete(ctx context.Context, userID, provider string) error {
	query := `DELETE FROM integrations WHERE user_id = $1 AND provider = $2`
	_, err := r.db.ExecContext(ctx, query, userID, provider)
	return err
}
