package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "ENV", "PORT", "WEEK_START", "NOTIFICATION_TIMEOUT_SECONDS",
		"DEFAULT_OWNER_ID", "AUTH_MODE", "AUTH_REQUIRED", "REPORTS_MAX_PER_PAGE", "DATABASE_URL",
		"DATABASE_URL_POOLED", "DATABASE_URL_DIRECT", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Env != "local" || cfg.Port != 8080 {
		t.Errorf("unexpected env/port: %s/%d", cfg.Env, cfg.Port)
	}
	if cfg.WeekStart != time.Monday {
		t.Errorf("expected Monday week start, got %s", cfg.WeekStart)
	}
	if cfg.NotificationTimeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %s", cfg.NotificationTimeout)
	}
	if cfg.DefaultOwnerID != "default" || cfg.AuthMode != AuthModeNone || cfg.AuthRequired {
		t.Errorf("unexpected auth defaults: %+v", cfg)
	}
	if cfg.ReportsMaxPerPage != 50 {
		t.Errorf("expected 50 reports per page, got %d", cfg.ReportsMaxPerPage)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Errorf("expected localhost CORS defaults, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadPlannerSettings(t *testing.T) {
	t.Setenv("WEEK_START", "Sunday")
	t.Setenv("NOTIFICATION_TIMEOUT_SECONDS", "3")
	t.Setenv("DEFAULT_OWNER_ID", "kitchen")
	t.Setenv("AUTH_MODE", "dev")
	t.Setenv("AUTH_REQUIRED", "1")

	cfg := Load()
	if cfg.WeekStart != time.Sunday {
		t.Errorf("expected Sunday, got %s", cfg.WeekStart)
	}
	if cfg.NotificationTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %s", cfg.NotificationTimeout)
	}
	if cfg.DefaultOwnerID != "kitchen" || cfg.AuthMode != AuthModeDev || !cfg.AuthRequired {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("WEEK_START", "wednesday")
	t.Setenv("NOTIFICATION_TIMEOUT_SECONDS", "-1")
	t.Setenv("AUTH_MODE", "siwa")
	t.Setenv("AUTH_REQUIRED", "1")

	cfg := Load()
	if cfg.WeekStart != time.Monday {
		t.Errorf("expected Monday fallback, got %s", cfg.WeekStart)
	}
	if cfg.NotificationTimeout != 10*time.Second {
		t.Errorf("expected 10s fallback, got %s", cfg.NotificationTimeout)
	}
	if cfg.AuthMode != AuthModeNone || cfg.AuthRequired {
		t.Errorf("expected auth none, got %s required=%v", cfg.AuthMode, cfg.AuthRequired)
	}
}

func TestDatabaseURLPriority(t *testing.T) {
	t.Setenv("DATABASE_URL_POOLED", "")
	t.Setenv("DATABASE_URL", "postgres://url")
	t.Setenv("DATABASE_URL_DIRECT", "postgres://direct")

	cfg := Load()
	if cfg.DatabaseURL != "postgres://url" {
		t.Errorf("expected DATABASE_URL to win over direct, got %s", cfg.DatabaseURL)
	}

	t.Setenv("DATABASE_URL_POOLED", "postgres://pooled")
	if cfg := Load(); cfg.DatabaseURL != "postgres://pooled" {
		t.Errorf("expected pooled URL, got %s", cfg.DatabaseURL)
	}
}

func TestLoadBlobModes(t *testing.T) {
	t.Setenv("BLOB_MODE", "auto")
	t.Setenv("REPORTS_MODE", "")
	t.Setenv("S3_PRESIGN_TTL_SECONDS", "0")

	cfg := Load()
	if cfg.Blob.Mode != BlobModeAuto || cfg.Blob.ReportsModeSet {
		t.Errorf("unexpected blob config: %+v", cfg.Blob)
	}
	if cfg.Blob.EffectiveReportsMode() != BlobModeAuto {
		t.Errorf("expected reports to inherit auto, got %s", cfg.Blob.EffectiveReportsMode())
	}
	if cfg.Blob.S3.PresignTTLSeconds != 900 {
		t.Errorf("expected presign TTL fallback 900, got %d", cfg.Blob.S3.PresignTTLSeconds)
	}

	t.Setenv("REPORTS_MODE", "ftp")
	cfg = Load()
	if !cfg.Blob.ReportsModeSet || cfg.Blob.EffectiveReportsMode() != BlobModeLocal {
		t.Errorf("expected invalid REPORTS_MODE to fall back to local, got %+v", cfg.Blob)
	}
}

func TestParseCORSOrigins(t *testing.T) {
	got := parseCORSOrigins(" https://a.example.com, ,https://b.example.com ", "prod")
	if len(got) != 2 || got[0] != "https://a.example.com" || got[1] != "https://b.example.com" {
		t.Errorf("unexpected origins: %v", got)
	}
	if got := parseCORSOrigins("", "prod"); got != nil {
		t.Errorf("expected deny-by-default in prod, got %v", got)
	}
}
