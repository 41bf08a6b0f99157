package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/onyxhabits/onyx/internal/model"
	"github.com/onyxhabits/onyx/internal/repository"
	"github.com/onyxhabits/onyx/internal/streak"
	"github.com/onyxhabits/onyx/internal/validation"
	"golang.org/x/text/cases"
)

// CompletionPublisher is told about every newly created completion.
type CompletionPublisher interface {
	CompletionCreated(ctx context.Context, habit *model.Habit, completion *model.Completion)
}

type HabitInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	Category    string `json:"category"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// HabitUpdate leaves nil fields unchanged.
type HabitUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Frequency   *string `json:"frequency"`
	Category    *string `json:"category"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
}

type CheckInResult struct {
	Completed bool   `json:"completed"`
	Date      string `json:"date"`
}

type HabitService struct {
	habitRepo      repository.HabitRepository
	completionRepo repository.CompletionRepository
	calendar       Calendar
	publisher      CompletionPublisher
}

func NewHabitService(
	habitRepo repository.HabitRepository,
	completionRepo repository.CompletionRepository,
	calendar Calendar,
	publisher CompletionPublisher,
) *HabitService {
	return &HabitService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		calendar:       calendar,
		publisher:      publisher,
	}
}

// Habits lists the user's habits, newest first, with streak figures.
func (s *HabitService) Habits(ctx context.Context, userID string) ([]*model.HabitSummary, error) {
	habits, err := s.habitRepo.Habits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}

	completions, err := s.completionRepo.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get completions: %w", err)
	}

	byHabit := groupByHabit(completions)
	now := s.calendar.now()
	loc := s.calendar.loc()

	summaries := make([]*model.HabitSummary, 0, len(habits))
	for _, habit := range habits {
		times := s.calendar.completionTimes(byHabit[habit.ID])
		days := streak.Days(times, loc)

		dates := make([]string, 0, len(days))
		for _, d := range days {
			dates = append(dates, d.String())
		}

		summaries = append(summaries, &model.HabitSummary{
			Habit:            habit,
			Streak:           streak.Current(times, now, loc),
			LongestStreak:    streak.Longest(times, loc),
			TotalCompletions: len(days),
			CompletedDates:   dates,
		})
	}

	return summaries, nil
}

func (s *HabitService) Create(ctx context.Context, userID string, input HabitInput) (*model.Habit, error) {
	name := strings.TrimSpace(input.Name)
	if err := validation.ValidateHabitName(name); err != nil {
		return nil, invalid(err)
	}

	description := strings.TrimSpace(input.Description)
	if err := validation.ValidateDescription(description); err != nil {
		return nil, invalid(err)
	}

	frequency, err := normalizeFrequency(input.Frequency)
	if err != nil {
		return nil, err
	}
	category, err := normalizeCategory(input.Category)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	habit := &model.Habit{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		NameKey:     nameKey(name),
		Description: description,
		Frequency:   frequency,
		Category:    category,
		Color:       strings.TrimSpace(input.Color),
		Icon:        strings.TrimSpace(input.Icon),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.habitRepo.Create(ctx, habit)
	if errors.Is(err, repository.ErrDuplicateHabitName) {
		return nil, ErrHabitNameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	slog.Info("habit created", "user_id", userID, "habit_id", habit.ID)
	return habit, nil
}

func (s *HabitService) Update(ctx context.Context, userID, habitID string, update HabitUpdate) (*model.Habit, error) {
	habit, err := s.habit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if err := validation.ValidateHabitName(name); err != nil {
			return nil, invalid(err)
		}
		habit.Name = name
		habit.NameKey = nameKey(name)
	}
	if update.Description != nil {
		description := strings.TrimSpace(*update.Description)
		if err := validation.ValidateDescription(description); err != nil {
			return nil, invalid(err)
		}
		habit.Description = description
	}
	if update.Frequency != nil {
		habit.Frequency, err = normalizeFrequency(*update.Frequency)
		if err != nil {
			return nil, err
		}
	}
	if update.Category != nil {
		habit.Category, err = normalizeCategory(*update.Category)
		if err != nil {
			return nil, err
		}
	}
	if update.Color != nil {
		habit.Color = strings.TrimSpace(*update.Color)
	}
	if update.Icon != nil {
		habit.Icon = strings.TrimSpace(*update.Icon)
	}
	habit.UpdatedAt = time.Now()

	err = s.habitRepo.Update(ctx, habit)
	if errors.Is(err, repository.ErrDuplicateHabitName) {
		return nil, ErrHabitNameTaken
	}
	if errors.Is(err, repository.ErrHabitNotFound) {
		return nil, ErrHabitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}

	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, userID, habitID string) error {
	err := s.habitRepo.Delete(ctx, userID, habitID)
	if errors.Is(err, repository.ErrHabitNotFound) {
		return ErrHabitNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	slog.Info("habit deleted", "user_id", userID, "habit_id", habitID)
	return nil
}

// ToggleCheckIn flips the completion state of the habit on date (YYYY-MM-DD).
// Calling it twice with the same arguments restores the original state.
func (s *HabitService) ToggleCheckIn(ctx context.Context, userID, habitID, date string) (CheckInResult, error) {
	habit, err := s.habit(ctx, userID, habitID)
	if err != nil {
		return CheckInResult{}, err
	}

	day, err := streak.ParseDay(strings.TrimSpace(date))
	if err != nil {
		return CheckInResult{}, ErrInvalidDate
	}

	// Today's check-ins keep the wall clock time; that is what the 5AM club looks at.
	completedAt := day.Time(s.calendar.loc())
	if day == s.calendar.today() {
		completedAt = s.calendar.now()
	}

	completion := &model.Completion{
		ID:          uuid.New().String(),
		HabitID:     habit.ID,
		UserID:      userID,
		Day:         day.String(),
		CompletedAt: completedAt,
	}

	outcome, err := s.completionRepo.Toggle(ctx, completion)
	if err != nil {
		return CheckInResult{}, fmt.Errorf("failed to toggle completion: %w", err)
	}
	completed := outcome.Completed()

	slog.Debug("check-in toggled", "user_id", userID, "habit_id", habit.ID, "day", completion.Day, "completed", completed)

	// Only a stored row is announced; a lost race has nothing to point at.
	if outcome == repository.ToggleCreated && s.publisher != nil {
		s.publisher.CompletionCreated(ctx, habit, completion)
	}

	return CheckInResult{Completed: completed, Date: completion.Day}, nil
}

// habit loads a habit only if the caller owns it.
func (s *HabitService) habit(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	habit, err := s.habitRepo.ByID(ctx, userID, habitID)
	if errors.Is(err, repository.ErrHabitNotFound) {
		return nil, ErrHabitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	return habit, nil
}

func groupByHabit(completions []*model.Completion) map[string][]*model.Completion {
	byHabit := make(map[string][]*model.Completion)
	for _, c := range completions {
		byHabit[c.HabitID] = append(byHabit[c.HabitID], c)
	}
	return byHabit
}

// nameKey is the case-folded form habit names are compared by.
func nameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

func normalizeFrequency(frequency string) (string, error) {
	frequency = strings.ToUpper(strings.TrimSpace(frequency))
	if frequency == "" {
		return model.FrequencyDaily, nil
	}
	if !model.IsFrequency(frequency) {
		return "", newError(ErrInvalidInput, "Frequency must be DAILY or WEEKLY")
	}
	return frequency, nil
}

func normalizeCategory(category string) (string, error) {
	category = strings.ToUpper(strings.TrimSpace(category))
	if category == "" {
		return model.CategoryOther, nil
	}
	if !model.IsCategory(category) {
		return "", newError(ErrInvalidInput, "Unknown category")
	}
	return category, nil
}
