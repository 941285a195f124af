package blob

import (
	"context"
	"fmt"
	"strings"

	appcfg "github.com/fdg312/meal-planner/internal/config"
)

type Logger interface {
	Printf(format string, v ...any)
}

// NewBlobStore builds the report store for the effective reports mode
// (local|s3|auto). Local mode returns a nil Store: report bytes then stay
// in the metadata storage. auto degrades to local, s3 fails hard.
func NewBlobStore(ctx context.Context, cfg appcfg.BlobConfig, logger Logger) (Store, string, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.EffectiveReportsMode()))
	switch mode {
	case "", appcfg.BlobModeLocal:
		logf(logger, "INFO blob: mode=local (forced)")
		return nil, appcfg.BlobModeLocal, nil
	case appcfg.BlobModeAuto, appcfg.BlobModeS3:
	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
	strict := mode == appcfg.BlobModeS3

	if !cfg.S3.IsConfigured() {
		if strict {
			missing := cfg.S3.MissingRequired()
			logf(logger, "FATAL blob.s3: code=s3_config_incomplete missing=%v", missing)
			logf(logger, "FATAL blob.s3: %s", cfg.S3.DiagnosticsSummary())
			return nil, "", fmt.Errorf("REPORTS_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}
		level, code, msg := cfg.S3.Diagnostics()
		logf(logger, "%s blob.s3: code=%s %s", level, code, msg)
		logf(logger, "INFO blob.s3: %s", cfg.S3.DiagnosticsSummary())
		logf(logger, "INFO blob: mode=local (auto, S3 not configured)")
		return nil, appcfg.BlobModeLocal, nil
	}

	logf(logger, "INFO blob.s3: code=s3_ready %s", cfg.S3.DiagnosticsSummary())
	store, err := NewS3Store(ctx, cfg.S3)
	if err != nil {
		if strict {
			logf(logger, "FATAL blob.s3: init_failed=%v", err)
			return nil, "", fmt.Errorf("REPORTS_MODE=s3 init failed: %w", err)
		}
		logf(logger, "WARN blob.s3: init_failed=%q, fallback=local", err.Error())
		return nil, appcfg.BlobModeLocal, nil
	}

	if strict {
		logf(logger, "INFO blob: mode=s3 (forced)")
	} else {
		logf(logger, "INFO blob: mode=s3 (auto, configured)")
	}
	return store, appcfg.BlobModeS3, nil
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
