package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/onyxhabits/onyx/internal/model"
	"github.com/onyxhabits/onyx/internal/repository"
	"github.com/onyxhabits/onyx/internal/storage"
)

// Upload describes a validated file ready to be stored.
type Upload struct {
	Body         io.Reader
	OriginalName string
	MimeType     string
	Size         int64
}

type FileService struct {
	fileRepo repository.FileRepository
	storage  storage.Storage
}

func NewFileService(fileRepo repository.FileRepository, storage storage.Storage) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		storage:  storage,
	}
}

func (s *FileService) Enabled() bool {
	return s.storage.Enabled()
}

// Upload stores a file and creates a database record
// File validation (type, size, content) is done by the caller
func (s *FileService) Upload(ctx context.Context, userID, fileType string, upload Upload) (*model.File, error) {
	if !s.storage.Enabled() {
		return nil, ErrStorageUnavailable
	}

	ext := strings.ToLower(filepath.Ext(upload.OriginalName))
	filename := uuid.New().String() + ext
	storagePath := model.FileStoragePath(fileType, userID, filename)

	err := s.storage.Save(ctx, storagePath, upload.Body, upload.MimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	file := &model.File{
		ID:           uuid.New().String(),
		UserID:       userID,
		Type:         fileType,
		Filename:     filename,
		OriginalName: upload.OriginalName,
		MimeType:     upload.MimeType,
		Size:         upload.Size,
		StoragePath:  storagePath,
		CreatedAt:    time.Now(),
	}

	err = s.fileRepo.Create(ctx, file)
	if err != nil {
		// If DB insert fails, try to cleanup the uploaded file
		delErr := s.storage.Delete(ctx, storagePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	return file, nil
}

func (s *FileService) URL(ctx context.Context, file *model.File) string {
	if file == nil {
		return ""
	}
	return s.storage.URL(ctx, file.StoragePath)
}

// AvatarURL returns "" when the user has no avatar or storage is off.
func (s *FileService) AvatarURL(ctx context.Context, userID string) string {
	if !s.storage.Enabled() {
		return ""
	}
	file, err := s.fileRepo.LatestByType(ctx, userID, model.FileTypeAvatar)
	if err != nil {
		if !errors.Is(err, repository.ErrFileNotFound) {
			slog.Warn("failed to get avatar", "error", err, "user_id", userID)
		}
		return ""
	}
	return s.URL(ctx, file)
}

// AvatarURLs resolves avatars for many users at once, keyed by user ID.
func (s *FileService) AvatarURLs(ctx context.Context, userIDs []string) map[string]string {
	urls := make(map[string]string)
	if !s.storage.Enabled() || len(userIDs) == 0 {
		return urls
	}

	files, err := s.fileRepo.LatestByTypeForUsers(ctx, userIDs, model.FileTypeAvatar)
	if err != nil {
		slog.Warn("failed to get avatars", "error", err)
		return urls
	}
	for userID, file := range files {
		urls[userID] = s.URL(ctx, file)
	}
	return urls
}

// DeleteUserFiles removes every file of fileType the user owns.
func (s *FileService) DeleteUserFiles(ctx context.Context, userID, fileType string) error {
	files, err := s.fileRepo.AllUserFiles(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user files: %w", err)
	}

	for _, file := range files {
		if file.Type != fileType {
			continue
		}
		// Delete from storage (best effort)
		delErr := s.storage.Delete(ctx, file.StoragePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage", "error", delErr, "path", file.StoragePath)
		}
		err = s.fileRepo.Delete(ctx, file.ID)
		if err != nil {
			return fmt.Errorf("failed to delete file record: %w", err)
		}
	}

	return nil
}

func (s *FileService) DeleteAllUserFilesFromStorage(ctx context.Context, userID string) error {
	files, err := s.fileRepo.AllUserFiles(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user files: %w", err)
	}

	for _, file := range files {
		err = s.storage.Delete(ctx, file.StoragePath)
		if err != nil {
			// Log but continue - physical file may already be gone
			slog.Warn("failed to delete file from storage", "storage_path", file.StoragePath, "error", err)
		}
	}

	return nil
}
