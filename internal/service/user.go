package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/onyxhabits/onyx/internal/model"
	"github.com/onyxhabits/onyx/internal/repository"
)

type UserService struct {
	userRepository repository.UserRepository
	fileService    *FileService
	emailService   *EmailService
}

func NewUserService(
	userRepository repository.UserRepository,
	fileService *FileService,
	emailService *EmailService,
) *UserService {
	return &UserService{
		userRepository: userRepository,
		fileService:    fileService,
		emailService:   emailService,
	}
}

// Me returns the user with avatar and follower counts.
func (s *UserService) Me(ctx context.Context, userID string) (*model.Me, error) {
	user, err := s.userRepository.ByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	counts, err := s.userRepository.Counts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count follows: %w", err)
	}

	user.AvatarURL = s.fileService.AvatarURL(ctx, userID)
	return &model.Me{User: user, Count: counts}, nil
}

// UpdateAvatar replaces the user's avatar and returns its URL.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, upload Upload) (string, error) {
	if !s.fileService.Enabled() {
		return "", ErrStorageUnavailable
	}

	err := s.fileService.DeleteUserFiles(ctx, userID, model.FileTypeAvatar)
	if err != nil {
		slog.Warn("failed to delete previous avatar", "error", err, "user_id", userID)
	}

	file, err := s.fileService.Upload(ctx, userID, model.FileTypeAvatar, upload)
	if err != nil {
		return "", err
	}

	slog.Info("avatar updated", "user_id", userID, "file_id", file.ID)
	return s.fileService.URL(ctx, file), nil
}

func (s *UserService) DeleteAvatar(ctx context.Context, userID string) error {
	if !s.fileService.Enabled() {
		return ErrStorageUnavailable
	}
	return s.fileService.DeleteUserFiles(ctx, userID, model.FileTypeAvatar)
}

func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.userRepository.ByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if s.fileService.Enabled() {
		err = s.fileService.DeleteAllUserFilesFromStorage(ctx, userID)
		if err != nil {
			// Orphaned files are better than a failed deletion
			slog.Warn("failed to delete user files from storage", "user_id", userID, "error", err)
		}
	}

	// Foreign key CASCADE removes habits, completions, follows, integrations,
	// tokens and file records.
	err = s.userRepository.Delete(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	err = s.emailService.SendAccountDeletedEmail(ctx, user.Email, user.Username)
	if err != nil {
		slog.Warn("failed to send account deleted email", "user_id", userID, "error", err)
	}

	slog.Info("account deleted", "user_id", userID)
	return nil
}
