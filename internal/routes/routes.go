package routes

import (
	"io/fs"
	"net/http"

	"github.com/onyxhabits/onyx/internal/app"
	"github.com/onyxhabits/onyx/internal/handler"
	"github.com/onyxhabits/onyx/internal/middleware"
	"github.com/onyxhabits/onyx/internal/service"
)

// SetupRoutes builds the API router. web holds the built frontend; nil serves
// the API only.
func SetupRoutes(app *app.App, web fs.FS) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.Cfg.AppName, web)
	auth := handler.NewAuthHandler(app.AuthService, app.UserService)
	account := handler.NewAccountHandler(app.UserService)
	habit := handler.NewHabitHandler(app.HabitService)
	dashboard := handler.NewDashboardHandler(app.DashboardService)
	social := handler.NewSocialHandler(app.SocialService, app.Cfg.CORSOrigins)
	integration := handler.NewIntegrationHandler(app.IntegrationService)

	requireAuth := middleware.RequireAuth

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api", home.API)
	mux.HandleFunc("GET /api/{$}", home.API)
	mux.HandleFunc("GET /health", home.Health)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth(app.Cfg.RateLimitEnabled)

	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/forgot-password", rateLimiter(auth.ForgotPassword))
	mux.HandleFunc("POST /api/auth/reset-password", rateLimiter(auth.ResetPassword))

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Account
	mux.HandleFunc("GET /api/auth/me", requireAuth(auth.Me))
	mux.HandleFunc("DELETE /api/auth/delete-account", requireAuth(auth.DeleteAccount))
	mux.HandleFunc("POST /api/users/me/avatar", requireAuth(account.UploadAvatar))
	mux.HandleFunc("DELETE /api/users/me/avatar", requireAuth(account.DeleteAvatar))

	// Habits
	mux.HandleFunc("GET /api/habits", requireAuth(habit.List))
	mux.HandleFunc("POST /api/habits", requireAuth(habit.Create))
	mux.HandleFunc("PUT /api/habits/{id}", requireAuth(habit.Update))
	mux.HandleFunc("DELETE /api/habits/{id}", requireAuth(habit.Delete))
	mux.HandleFunc("POST /api/habits/{id}/check-in", requireAuth(habit.CheckIn))

	// Dashboard
	mux.HandleFunc("GET /api/dashboard/stats", requireAuth(dashboard.Stats))
	mux.HandleFunc("GET /api/dashboard/stats/running", requireAuth(dashboard.Running))
	mux.HandleFunc("GET /api/dashboard/stats/5am-club", requireAuth(dashboard.FiveAMClub))

	// Social
	mux.HandleFunc("GET /api/social/search", requireAuth(social.Search))
	mux.HandleFunc("POST /api/social/follow/{id}", requireAuth(social.Follow))
	mux.HandleFunc("DELETE /api/social/follow/{id}", requireAuth(social.Unfollow))
	mux.HandleFunc("GET /api/social/feed", requireAuth(social.Feed))
	mux.HandleFunc("GET /api/social/feed/live", requireAuth(social.Live))
	mux.HandleFunc("GET /api/social/followers", requireAuth(social.Followers))
	mux.HandleFunc("GET /api/social/following", requireAuth(social.Following))

	// Integrations
	mux.HandleFunc("GET /api/integrations/spotify/auth", requireAuth(integration.SpotifyAuth))
	mux.HandleFunc("POST /api/integrations/spotify/callback", requireAuth(integration.SpotifyCallback))
	mux.HandleFunc("GET /api/integrations/spotify/status", requireAuth(integration.SpotifyStatus))
	mux.HandleFunc("POST /api/integrations/spotify/play", requireAuth(integration.SpotifyControl(service.SpotifyPlay)))
	mux.HandleFunc("POST /api/integrations/spotify/pause", requireAuth(integration.SpotifyControl(service.SpotifyPause)))
	mux.HandleFunc("POST /api/integrations/spotify/next", requireAuth(integration.SpotifyControl(service.SpotifyNext)))
	mux.HandleFunc("POST /api/integrations/spotify/previous", requireAuth(integration.SpotifyControl(service.SpotifyPrevious)))
	mux.HandleFunc("GET /api/integrations/notion/auth", requireAuth(integration.NotionAuth))
	mux.HandleFunc("POST /api/integrations/notion/callback", requireAuth(integration.NotionCallback))
	mux.HandleFunc("GET /api/integrations/notion/status", requireAuth(integration.NotionStatus))
	mux.HandleFunc("GET /api/integrations/notion/pages", requireAuth(integration.NotionPages))
	mux.HandleFunc("DELETE /api/integrations/{provider}", requireAuth(integration.Disconnect))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// Unknown /api paths answer JSON 404 from App
	mux.HandleFunc("GET /{path...}", home.App)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Recover,
		middleware.RequestLogging,
		middleware.SecurityHeaders(app.Cfg.IsProduction()),
		middleware.CORS(app.Cfg.CORSOrigins),
		middleware.Auth(app.AuthService),
	)

	return handler
}
