package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/fdg312/meal-planner/internal/dbmigrate"
	"github.com/fdg312/meal-planner/internal/httpserver"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("FATAL %v", err)
	}
}

func run() error {
	cfg := config.Load()

	printStartupBanner(cfg)

	if err := validateConfig(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RunMigrationsOnStartup {
		if err := migrateOnStartup(ctx, cfg); err != nil {
			return err
		}
	}

	server := httpserver.New(cfg)
	defer server.Close()

	if err := server.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http: %w", err)
	}
	log.Println("INFO http: stopped")
	return nil
}

func migrateOnStartup(ctx context.Context, cfg *config.Config) error {
	sel, err := dbmigrate.SelectDatabaseURL(cfg, true)
	if err != nil {
		return fmt.Errorf("startup migrations: %w", err)
	}

	log.Printf("startup migrations: command=up using=%s", sel.Source)
	if err := dbmigrate.Run(ctx, "up", sel.URL, ""); err != nil {
		return fmt.Errorf("startup migrations failed: %w", err)
	}
	log.Printf("startup migrations: completed")
	return nil
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// Secrets are printed only as set / not set.
func printStartupBanner(cfg *config.Config) {
	sections := []struct {
		title string
		rows  [][2]string
	}{
		{"database", [][2]string{
			{"runtime_url", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled)},
			{"direct", setOrNot(cfg.DatabaseURLDirect)},
			{"migrations_on_startup", fmt.Sprint(cfg.RunMigrationsOnStartup)},
		}},
		{"planner", [][2]string{
			{"week_start", strings.ToLower(cfg.WeekStart.String())},
			{"notification_ttl", cfg.NotificationTimeout.String()},
			{"default_owner", cfg.DefaultOwnerID},
		}},
		{"auth", [][2]string{
			{"auth_mode", cfg.AuthMode},
			{"auth_required", fmt.Sprint(cfg.AuthRequired)},
			{"jwt_secret", secretStatus(cfg.JWTSecret, "change_me")},
		}},
		{"reports", [][2]string{
			{"blob_mode", cfg.Blob.Mode},
			{"reports_mode", displayReportsMode(cfg)},
			{"max_per_page", fmt.Sprint(cfg.ReportsMaxPerPage)},
		}},
	}

	log.Println("========== Meal Planner API ==========")
	log.Printf("  env=%s port=%d", cfg.Env, cfg.Port)
	for _, sec := range sections {
		log.Printf("---- %s ----", sec.title)
		for _, row := range sec.rows {
			log.Printf("  %-22s = %s", row[0], row[1])
		}
	}
	if cfg.Blob.EffectiveReportsMode() != config.BlobModeLocal {
		log.Printf("  s3: %s", cfg.Blob.S3.DiagnosticsSummary())
	}
	log.Println("======================================")
}

// validateConfig performs the checks that must stop startup.
func validateConfig(cfg *config.Config) error {
	isProd := cfg.Env == "production" || cfg.Env == "staging"

	if cfg.Blob.EffectiveReportsMode() == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			return fmt.Errorf("blob: REPORTS_MODE is 's3' but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}
	if cfg.RunMigrationsOnStartup && cfg.DatabaseURLDirect == "" {
		return errors.New("startup migrations: DATABASE_URL_DIRECT is not set")
	}
	if isProd && cfg.AuthRequired && cfg.JWTSecret == "change_me" {
		return fmt.Errorf("auth: JWT_SECRET must not be 'change_me' in %s with AUTH_REQUIRED=1", cfg.Env)
	}
	if isProd && cfg.DatabaseURL == "" {
		return fmt.Errorf("db: no DATABASE_URL configured in %s", cfg.Env)
	}
	return nil
}

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func secretStatus(v, insecureDefault string) string {
	switch strings.TrimSpace(v) {
	case "":
		return "not set"
	case insecureDefault:
		return fmt.Sprintf("set (DEFAULT, insecure '%s')", insecureDefault)
	}
	return "set (custom)"
}

func describeDBURL(runtime, pooled string) string {
	switch {
	case runtime == "":
		return "not set (in-memory storage)"
	case pooled != "" && runtime == pooled:
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}

func displayReportsMode(cfg *config.Config) string {
	effective := cfg.Blob.EffectiveReportsMode()
	if cfg.Blob.ReportsModeSet {
		return effective
	}
	return fmt.Sprintf("%s (inherits BLOB_MODE)", effective)
}
