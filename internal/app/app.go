package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/onyxhabits/onyx/internal/config"
	"github.com/onyxhabits/onyx/internal/db"
	"github.com/onyxhabits/onyx/internal/repository"
	"github.com/onyxhabits/onyx/internal/service"
	"github.com/onyxhabits/onyx/internal/storage"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	AuthService        *service.AuthService
	UserService        *service.UserService
	EmailService       *service.EmailService
	FileService        *service.FileService
	HabitService       *service.HabitService
	DashboardService   *service.DashboardService
	SocialService      *service.SocialService
	IntegrationService *service.IntegrationService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	fileStorage, err := storage.New(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Build(cfg, database, fileStorage), nil
}

// Build wires repositories and services over an open, migrated database.
func Build(cfg *config.Config, database *sqlx.DB, fileStorage storage.Storage) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	fileRepository := repository.NewFileRepository(database)
	habitRepository := repository.NewHabitRepository(database)
	completionRepository := repository.NewCompletionRepository(database)
	followRepository := repository.NewFollowRepository(database)
	integrationRepository := repository.NewIntegrationRepository(database)

	calendar := service.Calendar{
		Location:     cfg.Location(),
		WeekStart:    cfg.WeekStartDay(),
		ActivityDays: cfg.ActivityWindowDays,
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	fileService := service.NewFileService(fileRepository, fileStorage)
	authService := service.NewAuthService(
		userRepository,
		tokenRepository,
		emailService,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.TokenPasswordResetExpiry,
	)
	userService := service.NewUserService(userRepository, fileService, emailService)
	socialService := service.NewSocialService(
		userRepository,
		followRepository,
		completionRepository,
		fileService,
		service.NewRealtimeHub(),
	)
	// New check-ins are pushed to the live feed.
	habitService := service.NewHabitService(habitRepository, completionRepository, calendar, socialService)
	dashboardService := service.NewDashboardService(habitRepository, completionRepository, calendar)
	integrationService := service.NewIntegrationService(integrationRepository, service.IntegrationConfig{
		SpotifyClientID:     cfg.SpotifyClientID,
		SpotifyClientSecret: cfg.SpotifyClientSecret,
		SpotifyRedirectURI:  cfg.SpotifyRedirectURI,
		NotionClientID:      cfg.NotionClientID,
		NotionClientSecret:  cfg.NotionClientSecret,
		NotionRedirectURI:   cfg.NotionRedirectURI,
	})

	return &App{
		Cfg:                cfg,
		DB:                 database,
		AuthService:        authService,
		UserService:        userService,
		EmailService:       emailService,
		FileService:        fileService,
		HabitService:       habitService,
		DashboardService:   dashboardService,
		SocialService:      socialService,
		IntegrationService: integrationService,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
