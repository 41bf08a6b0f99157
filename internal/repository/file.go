package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/onyxhabits/onyx/internal/model"
)

var (
	ErrFileNotFound = errors.New("file not found")
)

type FileRepository interface {
	Create(ctx context.Context, file *model.File) error
	LatestByType(ctx context.Context, userID, fileType string) (*model.File, error)
	LatestByTypeForUsers(ctx context.Context, userIDs []string, fileType string) (map[string]*model.File, error)
	AllUserFiles(ctx context.Context, userID string) ([]*model.File, error)
	Delete(ctx context.Context, id string) error
}

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *model.File) error {
	query := `INSERT INTO files (id, user_id, type, filename, original_name, mime_type, size, storage_path, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.UserID,
		file.Type,
		file.Filename,
		file.OriginalName,
		file.MimeType,
		file.Size,
		file.StoragePath,
		file.CreatedAt,
	)

	return err
}

func (r *fileRepository) LatestByType(ctx context.Context, userID, fileType string) (*model.File, error) {
	file := &model.File{}
	query := `SELECT * FROM files WHERE user_id = $1 AND type = $2 ORDER BY created_at DESC LIMIT 1`

	err := r.db.GetContext(ctx, file, query, userID, fileType)
	if err == sql.ErrNoRows {
		return nil, ErrFileNotFound
	}

	return file, err
}

// LatestByTypeForUsers returns the newest file of fileType per user, keyed by user ID.
// Users without such a file are absent from the map.
func (r *fileRepository) LatestByTypeForUsers(ctx context.Context, userIDs []string, fileType string) (map[string]*model.File, error) {
	latest := make(map[string]*model.File, len(userIDs))
	if len(userIDs) == 0 {
		return latest, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM files WHERE type = ? AND user_id IN (?) ORDER BY created_at ASC`, fileType, userIDs)
	if err != nil {
		return nil, err
	}

	var files []*model.File
	err = r.db.SelectContext(ctx, &files, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		latest[f.UserID] = f
	}
	return latest, nil
}

func (r *fileRepository) AllUserFiles(ctx context.Context, userID string) ([]*model.File, error) {
	var files []*model.File
	query := `SELECT * FROM files WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &files, query, userID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *fileRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM files WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
