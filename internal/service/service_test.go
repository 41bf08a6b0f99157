package service

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/onyxhabits/onyx/internal/db/dbtest"
	"github.com/onyxhabits/onyx/internal/model"
	"github.com/onyxhabits/onyx/internal/repository"
	"github.com/onyxhabits/onyx/internal/storage"
)

const testPassword = "Sturdy-Walrus-42"

// Wednesday.
var testNow = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

type testApp struct {
	db        *sqlx.DB
	clock     *time.Time
	auth      *AuthService
	users     *UserService
	habits    *HabitService
	dashboard *DashboardService
	social    *SocialService
	hub       *RealtimeHub
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	database := dbtest.New(t)
	now := testNow
	clock := &now
	calendar := Calendar{
		Location:     time.UTC,
		WeekStart:    time.Sunday,
		ActivityDays: 5,
		Now:          func() time.Time { return *clock },
	}

	userRepo := repository.NewUserRepository(database)
	completionRepo := repository.NewCompletionRepository(database)
	habitRepo := repository.NewHabitRepository(database)
	followRepo := repository.NewFollowRepository(database)

	email := NewEmailService("", "noreply@example.com", "http://localhost:5001", "Onyx", true)
	files := NewFileService(repository.NewFileRepository(database), storage.Disabled{})
	hub := NewRealtimeHub()
	social := NewSocialService(userRepo, followRepo, completionRepo, files, hub)

	return &testApp{
		db:        database,
		clock:     clock,
		auth:      NewAuthService(userRepo, repository.NewTokenRepository(database), email, "test-secret", time.Hour, time.Hour),
		users:     NewUserService(userRepo, files, email),
		habits:    NewHabitService(habitRepo, completionRepo, calendar, social),
		dashboard: NewDashboardService(habitRepo, completionRepo, calendar),
		social:    social,
		hub:       hub,
	}
}

func (a *testApp) register(t *testing.T, username string) *model.User {
	t.Helper()
	user, _, err := a.auth.Register(context.Background(), username, username+"@example.com", testPassword)
	require.NoError(t, err)
	return user
}

func (a *testApp) habit(t *testing.T, userID, name string) *model.Habit {
	t.Helper()
	habit, err := a.habits.Create(context.Background(), userID, HabitInput{Name: name, Icon: "🔥"})
	require.NoError(t, err)
	return habit
}

func (a *testApp) checkIn(t *testing.T, userID, habitID string, dates ...string) {
	t.Helper()
	for _, date := range dates {
		result, err := a.habits.ToggleCheckIn(context.Background(), userID, habitID, date)
		require.NoError(t, err)
		require.True(t, result.Completed, date)
	}
}
