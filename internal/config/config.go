package config

import (
	"log"
	"os"
	"strings"
	"time"
)

const (
	AuthModeNone = "none"
	AuthModeDev  = "dev"
)

// Config содержит конфигурацию приложения
type Config struct {
	Env      string // local | staging | prod
	Port     int
	LogLevel string

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as provided
	DatabaseURLPooled string // DATABASE_URL_POOLED as provided
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Blob storage (S3-compatible) for report files
	Blob BlobConfig

	// Reports
	ReportsMaxPerPage int

	// Planner
	WeekStart           time.Weekday
	NotificationTimeout time.Duration
	DefaultOwnerID      string

	// Authentication
	AuthMode      string // none | dev
	AuthRequired  bool
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	// Migrations
	RunMigrationsOnStartup bool
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	// APP_ENV (fallback to ENV, default: local)
	env := envString("APP_ENV", envString("ENV", "local"))

	cfg := &Config{
		Env:      env,
		Port:     envInt("PORT", 8080),
		LogLevel: envString("LOG_LEVEL", "debug"),

		CORSAllowedOrigins:   parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env),
		CORSAllowCredentials: parseBoolEnv("CORS_ALLOW_CREDENTIALS"),

		RateLimitRPS:   envInt("RATE_LIMIT_RPS", 0),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 0),

		Blob:              loadBlob(),
		ReportsMaxPerPage: envInt("REPORTS_MAX_PER_PAGE", 50),

		WeekStart:           parseWeekStart("WEEK_START", time.Monday),
		NotificationTimeout: envPositiveSeconds("NOTIFICATION_TIMEOUT_SECONDS", 10),
		DefaultOwnerID:      envString("DEFAULT_OWNER_ID", "default"),

		RunMigrationsOnStartup: parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP"),
	}
	if cfg.ReportsMaxPerPage <= 0 {
		cfg.ReportsMaxPerPage = 50
	}

	cfg.loadDatabase()
	cfg.loadAuth()
	return cfg
}

// loadDatabase resolves the runtime URL.
// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
func (c *Config) loadDatabase() {
	c.DatabaseURLPooled = envString("DATABASE_URL_POOLED", "")
	c.DatabaseURLRaw = envString("DATABASE_URL", "")
	c.DatabaseURLDirect = envString("DATABASE_URL_DIRECT", "")

	for _, u := range []string{c.DatabaseURLPooled, c.DatabaseURLRaw, c.DatabaseURLDirect} {
		if u != "" {
			c.DatabaseURL = u
			return
		}
	}
}

func (c *Config) loadAuth() {
	mode := strings.ToLower(envString("AUTH_MODE", AuthModeNone))
	if mode != AuthModeNone && mode != AuthModeDev {
		warnFallback("AUTH_MODE", mode, AuthModeNone)
		mode = AuthModeNone
	}
	c.AuthMode = mode
	// without a token issuer nothing could satisfy AUTH_REQUIRED
	c.AuthRequired = mode == AuthModeDev && parseBoolEnv("AUTH_REQUIRED")

	c.JWTSecret = os.Getenv("JWT_SECRET")
	if c.JWTSecret == "" {
		c.JWTSecret = "change_me"
	}
	if c.JWTSecret == "change_me" && c.Env != "local" {
		log.Println("WARNING: JWT_SECRET is set to 'change_me' in non-local environment!")
	}

	c.JWTIssuer = envString("JWT_ISSUER", "meal-planner")

	// JWT_TTL_MINUTES (default: 10080 = 7 days)
	c.JWTTTLMinutes = envInt("JWT_TTL_MINUTES", 10080)
}
