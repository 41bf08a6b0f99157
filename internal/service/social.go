package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/onyxhabits/onyx/internal/model"
	"github.com/onyxhabits/onyx/internal/repository"
)

const (
	searchLimit = 10
	feedLimit   = 20
)

type SocialService struct {
	userRepo       repository.UserRepository
	followRepo     repository.FollowRepository
	completionRepo repository.CompletionRepository
	fileService    *FileService
	hub            *RealtimeHub
}

func NewSocialService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	completionRepo repository.CompletionRepository,
	fileService *FileService,
	hub *RealtimeHub,
) *SocialService {
	return &SocialService{
		userRepo:       userRepo,
		followRepo:     followRepo,
		completionRepo: completionRepo,
		fileService:    fileService,
		hub:            hub,
	}
}

func (s *SocialService) Search(ctx context.Context, userID, query string) ([]*model.SocialUser, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < 2 {
		return nil, ErrSearchQueryTooShort
	}

	users, err := s.userRepo.Search(ctx, userID, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	s.attachAvatars(ctx, users)
	return users, nil
}

// Follow returns the followed user.
func (s *SocialService) Follow(ctx context.Context, userID, targetID string) (*model.User, error) {
	if userID == targetID {
		return nil, ErrCannotFollowSelf
	}

	target, err := s.userRepo.ByID(ctx, targetID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.followRepo.Create(ctx, userID, targetID)
	if errors.Is(err, repository.ErrAlreadyFollowing) {
		return nil, ErrAlreadyFollowing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to follow user: %w", err)
	}

	slog.Info("user followed", "user_id", userID, "following_id", targetID)
	return target, nil
}

func (s *SocialService) Unfollow(ctx context.Context, userID, targetID string) error {
	err := s.followRepo.Delete(ctx, userID, targetID)
	if errors.Is(err, repository.ErrFollowNotFound) {
		return ErrNotFollowing
	}
	if err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	return nil
}

// Feed returns the latest completions of the user and everyone they follow.
func (s *SocialService) Feed(ctx context.Context, userID string) ([]*model.FeedItem, error) {
	entries, err := s.completionRepo.Feed(ctx, userID, feedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	avatars := s.fileService.AvatarURLs(ctx, ids)

	feed := make([]*model.FeedItem, 0, len(entries))
	for _, e := range entries {
		feed = append(feed, &model.FeedItem{
			ID:          e.ID,
			CompletedAt: e.CompletedAt,
			Date:        e.Day,
			User:        model.FeedUser{ID: e.UserID, Username: e.Username, AvatarURL: avatars[e.UserID]},
			Habit:       model.FeedHabit{Name: e.HabitName, Category: e.HabitCategory, Icon: e.HabitIcon, Color: e.HabitColor},
		})
	}
	return feed, nil
}

func (s *SocialService) Followers(ctx context.Context, userID string) ([]*model.SocialUser, error) {
	users, err := s.followRepo.Followers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}
	s.attachAvatars(ctx, users)
	return users, nil
}

func (s *SocialService) Following(ctx context.Context, userID string) ([]*model.SocialUser, error) {
	users, err := s.followRepo.Following(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}
	s.attachAvatars(ctx, users)
	return users, nil
}

// Subscribe opens a live feed connection for userID.
func (s *SocialService) Subscribe(userID string) *Client {
	return s.hub.Register(userID)
}

func (s *SocialService) Unsubscribe(c *Client) {
	s.hub.Unregister(c)
}

// CompletionCreated pushes a new check-in to its author and their followers.
func (s *SocialService) CompletionCreated(ctx context.Context, habit *model.Habit, completion *model.Completion) {
	user, err := s.userRepo.ByID(ctx, completion.UserID)
	if err != nil {
		slog.Error("failed to load completion author", "error", err, "user_id", completion.UserID)
		return
	}

	followerIDs, err := s.followRepo.FollowerIDs(ctx, user.ID)
	if err != nil {
		slog.Error("failed to get followers", "error", err, "user_id", user.ID)
		return
	}

	item := &model.FeedItem{
		ID:          completion.ID,
		CompletedAt: completion.CompletedAt,
		Date:        completion.Day,
		User:        model.FeedUser{ID: user.ID, Username: user.Username, AvatarURL: s.fileService.AvatarURL(ctx, user.ID)},
		Habit:       model.FeedHabit{Name: habit.Name, Category: habit.Category, Icon: habit.Icon, Color: habit.Color},
	}

	s.hub.Broadcast(append([]string{user.ID}, followerIDs...), Event{Kind: EventCompletionCreated, Item: item})
}

func (s *SocialService) attachAvatars(ctx context.Context, users []*model.SocialUser) {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	avatars := s.fileService.AvatarURLs(ctx, ids)
	for _, u := range users {
		u.AvatarURL = avatars[u.ID]
	}
}
