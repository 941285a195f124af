package config

import (
	"fmt"
	"strings"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

// S3Config - настройки S3-совместимого хранилища для файлов отчётов.
type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PublicBaseURL     string
	PresignTTLSeconds int
	PreferPublicURL   bool
}

type s3Field struct {
	env   string
	value string
}

func (c S3Config) fields() []s3Field {
	return []s3Field{
		{"S3_ENDPOINT", c.Endpoint},
		{"S3_REGION", c.Region},
		{"S3_BUCKET", c.Bucket},
		{"S3_ACCESS_KEY_ID", c.AccessKeyID},
		{"S3_SECRET_ACCESS_KEY", c.SecretAccessKey},
		{"S3_PUBLIC_BASE_URL", c.PublicBaseURL},
	}
}

// MissingRequired lists unset variables. S3_PUBLIC_BASE_URL is required only
// when download links must be public: otherwise links are presigned.
func (c S3Config) MissingRequired() []string {
	var missing []string
	for _, f := range c.fields() {
		if f.env == "S3_PUBLIC_BASE_URL" && !c.PreferPublicURL {
			continue
		}
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.env)
		}
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

func (c S3Config) Diagnostics() (level string, code string, msg string) {
	allEmpty := true
	for _, f := range c.fields() {
		if strings.TrimSpace(f.value) != "" {
			allEmpty = false
			break
		}
	}
	if allEmpty {
		return "INFO", "s3_not_configured", "not configured (all empty)"
	}

	if missing := c.MissingRequired(); len(missing) > 0 {
		return "WARN", "s3_partial_config", fmt.Sprintf("partial config, missing=%v", missing)
	}

	return "INFO", "s3_ready", "ready"
}

// DiagnosticsSummary returns a summary for logging, secrets only as set/not set.
func (c S3Config) DiagnosticsSummary() string {
	return fmt.Sprintf("endpoint=%s region=%s bucket=%s public_base_url=%s presign_ttl=%ds prefer_public_url=%t access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		nonEmptyOrDash(c.PublicBaseURL),
		c.PresignTTLSeconds,
		c.PreferPublicURL,
		setOrNot(c.AccessKeyID),
		setOrNot(c.SecretAccessKey),
	)
}

// BlobConfig - BLOB_MODE и его переопределение REPORTS_MODE.
type BlobConfig struct {
	Mode           string // local|s3|auto
	ReportsMode    string // local|s3|auto (override)
	ReportsModeSet bool
	S3             S3Config
}

func (c BlobConfig) EffectiveReportsMode() string {
	if c.ReportsModeSet {
		return c.ReportsMode
	}
	return c.Mode
}

func loadBlob() BlobConfig {
	reportsModeSet := envString("REPORTS_MODE", "") != ""

	// S3_PRESIGN_TTL_SECONDS (default: 900, enforce > 0)
	presignTTL := envInt("S3_PRESIGN_TTL_SECONDS", 900)
	if presignTTL <= 0 {
		presignTTL = 900
	}

	return BlobConfig{
		Mode:           parseBlobMode("BLOB_MODE", BlobModeLocal),
		ReportsMode:    parseBlobMode("REPORTS_MODE", BlobModeLocal),
		ReportsModeSet: reportsModeSet,
		S3: S3Config{
			Endpoint:          envString("S3_ENDPOINT", ""),
			Region:            envString("S3_REGION", ""),
			Bucket:            envString("S3_BUCKET", ""),
			AccessKeyID:       envString("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey:   envString("S3_SECRET_ACCESS_KEY", ""),
			PublicBaseURL:     envString("S3_PUBLIC_BASE_URL", ""),
			PresignTTLSeconds: presignTTL,
			PreferPublicURL:   parseBoolEnv("S3_PREFER_PUBLIC_URL"),
		},
	}
}

func parseBlobMode(key string, defaultVal string) string {
	mode := strings.ToLower(envString(key, ""))
	switch mode {
	case "":
		return defaultVal
	case BlobModeLocal, BlobModeS3, BlobModeAuto:
		return mode
	default:
		warnFallback(key, mode, defaultVal)
		return defaultVal
	}
}
