package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/onyxhabits/onyx/internal/model"
	"github.com/onyxhabits/onyx/internal/repository"
	"github.com/onyxhabits/onyx/internal/streak"
)

const (
	runningMilesPerCompletion = 2
	runningTargetMiles        = 20
)

type DashboardService struct {
	habitRepo      repository.HabitRepository
	completionRepo repository.CompletionRepository
	calendar       Calendar
}

func NewDashboardService(
	habitRepo repository.HabitRepository,
	completionRepo repository.CompletionRepository,
	calendar Calendar,
) *DashboardService {
	return &DashboardService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		calendar:       calendar,
	}
}

func (s *DashboardService) Stats(ctx context.Context, userID string) (*model.DashboardStats, error) {
	habits, err := s.habitRepo.Habits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}

	completions, err := s.completionRepo.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get completions: %w", err)
	}

	now := s.calendar.now()
	loc := s.calendar.loc()
	byHabit := groupByHabit(completions)

	// Every habit competes, even at zero; ties keep the earlier habit.
	top := model.PlaceholderTopHabit
	best := -1
	for _, habit := range habits {
		current := streak.Current(s.calendar.completionTimes(byHabit[habit.ID]), now, loc)
		if current > best {
			best = current
			top = model.TopHabit{Name: habit.Name, Streak: current, Icon: habit.Icon}
		}
	}

	times := s.calendar.completionTimes(completions)
	currentWeek, lastWeek := streak.WeekCounts(times, now, s.calendar.WeekStart, loc)

	return &model.DashboardStats{
		ActiveHabits:     len(habits),
		TopHabit:         top,
		WeeklyActivity:   streak.Activity(times, now, s.calendar.ActivityDays, loc),
		ScoreChange:      streak.ScoreChange(currentWeek, lastWeek),
		TotalCompletions: len(completions),
	}, nil
}

// Running reports monthly mileage for the first habit whose name mentions "run".
func (s *DashboardService) Running(ctx context.Context, userID string) (*model.RunningStats, error) {
	habits, err := s.habitRepo.Habits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}

	var running *model.Habit
	for _, habit := range habits {
		if strings.Contains(nameKey(habit.Name), "run") {
			running = habit
			break
		}
	}
	if running == nil {
		return &model.RunningStats{Found: false}, nil
	}

	now := s.calendar.now()
	loc := s.calendar.loc()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, loc)

	count, err := s.completionRepo.CountByHabitSince(ctx, running.ID, streak.DayOf(monthStart, loc).String())
	if err != nil {
		return nil, fmt.Errorf("failed to count completions: %w", err)
	}

	return &model.RunningStats{
		Found:       true,
		Miles:       count * runningMilesPerCompletion,
		TargetMiles: runningTargetMiles,
		DaysLeft:    daysLeft(now, lastDay),
		HabitName:   running.Name,
	}, nil
}

// daysLeft rounds the time until the start of the month's last day up to whole days.
func daysLeft(now, lastDay time.Time) int {
	left := int(math.Ceil(lastDay.Sub(now).Hours() / 24))
	if left < 0 {
		return 0
	}
	return left
}

// FiveAMClub lists the viewer and followed users who checked in between 04:00 and
// 05:05 today.
func (s *DashboardService) FiveAMClub(ctx context.Context, userID string) (*model.FiveAMClub, error) {
	now := s.calendar.now()
	loc := s.calendar.loc()
	windowStart := time.Date(now.Year(), now.Month(), now.Day(), 4, 0, 0, 0, loc)
	windowEnd := time.Date(now.Year(), now.Month(), now.Day(), 5, 5, 0, 0, loc)

	rows, err := s.completionRepo.CircleOnDay(ctx, userID, s.calendar.today().String())
	if err != nil {
		return nil, fmt.Errorf("failed to get completions: %w", err)
	}

	club := &model.FiveAMClub{Members: []model.ClubMember{}}
	seen := make(map[string]bool)
	for _, row := range rows {
		at := row.CompletedAt.In(loc)
		if at.Before(windowStart) || at.After(windowEnd) || seen[row.UserID] {
			continue
		}
		seen[row.UserID] = true

		member := model.ClubMember{
			ID:       row.UserID,
			Username: row.Username,
			Avatar:   (&model.User{Username: row.Username}).Initial(),
			IsMe:     row.UserID == userID,
		}
		club.Members = append(club.Members, member)
		if member.IsMe {
			club.Joined = true
		}
	}
	club.Count = len(club.Members)

	return club, nil
}
