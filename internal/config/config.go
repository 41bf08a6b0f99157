package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName     string
	AppEnv      string
	AppURL      string
	Port        string
	CORSOrigins []string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret                string
	RateLimitEnabled         bool
	JWTExpiry                time.Duration
	TokenPasswordResetExpiry time.Duration

	// Calendar
	DayTimezone        string // IANA name; empty means server local time
	WeekStart          string // "sunday" or "monday"
	ActivityWindowDays int

	// Integrations (optional)
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRedirectURI  string
	NotionClientID      string
	NotionClientSecret  string
	NotionRedirectURI   string

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	// Avatar uploads are disabled when S3Bucket is empty.
	S3Region              string
	S3Bucket              string
	S3AccessKey           string
	S3SecretKey           string
	S3Endpoint            string        // Optional: for S3-compatible services
	S3PresignExpiryPublic time.Duration // Expiry for avatar URLs - default: 7 days
}

const (
	defaultDBDriver     = "sqlite"
	defaultDBConnection = "./data/onyx.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
)

// LoadDatabase reads only the database settings, for tools that run without
// the rest of the server configuration.
func LoadDatabase() (driver, connection string) {
	_ = godotenv.Load()
	return envString("DB_DRIVER", defaultDBDriver), envString("DB_CONNECTION", defaultDBConnection)
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:     envString("APP_NAME", "Onyx"),
		AppEnv:      envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:      envRequired("APP_URL"), // Required: base URL for email links and OAuth redirects
		Port:        envString("PORT", "5001"),
		CORSOrigins: envList("CORS_ORIGINS", nil),

		// Database
		DBDriver:     envString("DB_DRIVER", defaultDBDriver),
		DBConnection: envString("DB_CONNECTION", defaultDBConnection),

		// Security
		JWTSecret:                envRequired("JWT_SECRET"),
		RateLimitEnabled:         envBool("RATE_LIMIT_ENABLED", true),
		JWTExpiry:                envDuration("JWT_EXPIRY", 168*time.Hour),                // 7 days
		TokenPasswordResetExpiry: envDuration("TOKEN_PASSWORD_RESET_EXPIRY", 1*time.Hour), // 1 hour

		// Calendar
		DayTimezone:        envString("DAY_TIMEZONE", ""),
		WeekStart:          envString("WEEK_START", "sunday"),
		ActivityWindowDays: envInt("ACTIVITY_WINDOW_DAYS", 5),

		// Integrations
		SpotifyClientID:     envString("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: envString("SPOTIFY_CLIENT_SECRET", ""),
		SpotifyRedirectURI:  envString("SPOTIFY_REDIRECT_URI", ""),
		NotionClientID:      envString("NOTION_CLIENT_ID", ""),
		NotionClientSecret:  envString("NOTION_CLIENT_SECRET", ""),
		NotionRedirectURI:   envString("NOTION_REDIRECT_URI", ""),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:              envString("S3_REGION", "us-east-1"),
		S3Bucket:              envString("S3_BUCKET", ""),
		S3AccessKey:           envString("S3_ACCESS_KEY", ""),
		S3SecretKey:           envString("S3_SECRET_KEY", ""),
		S3Endpoint:            envString("S3_ENDPOINT", ""),
		S3PresignExpiryPublic: envDuration("S3_PRESIGN_EXPIRY_PUBLIC", 168*time.Hour),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows email to use log mode for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envList splits a comma separated value, dropping empty entries.
func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Location is the single location that defines where a calendar day starts.
func (c *Config) Location() *time.Location {
	if c.DayTimezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.DayTimezone)
	if err != nil {
		slog.Warn("config invalid DAY_TIMEZONE, using local time", "value", c.DayTimezone, "error", err)
		return time.Local
	}
	return loc
}

func (c *Config) WeekStartDay() time.Weekday {
	if strings.EqualFold(c.WeekStart, "monday") {
		return time.Monday
	}
	return time.Sunday
}

func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != ""
}
