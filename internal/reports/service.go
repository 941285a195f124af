package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/meal-planner/internal/blob"
	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/fdg312/meal-planner/internal/weekdates"
)

// Service handles reports business logic.
type Service struct {
	reportsStorage storage.ReportsStorage
	generator      *Generator
	blobStore      blob.Store
	maxPerPage     int
	logger         storage.Logger
	now            func() time.Time
}

// NewService creates a new reports service. A nil blobStore keeps report
// bytes next to their metadata (local mode).
func NewService(reportsStorage storage.ReportsStorage, generator *Generator, blobStore blob.Store, maxPerPage int, logger storage.Logger) *Service {
	if maxPerPage <= 0 {
		maxPerPage = 50
	}
	return &Service{
		reportsStorage: reportsStorage,
		generator:      generator,
		blobStore:      blobStore,
		maxPerPage:     maxPerPage,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *Service) localMode() bool {
	return s.blobStore == nil
}

// CreateReport generates a report for the owner and stores it.
// A generation or upload failure is recorded as a failed report.
func (s *Service) CreateReport(ctx context.Context, ownerUserID string, req CreateReportRequest) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	ref := weekdates.Midnight(s.now().UTC())
	if req.Date != "" {
		t, err := weekdates.ParseKey(req.Date)
		if err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
		ref = t
	}

	id := uuid.New()
	meta := &storage.ReportMeta{
		ID:          id,
		OwnerUserID: ownerUserID,
		Kind:        req.Kind,
		Format:      req.Format,
		Status:      StatusReady,
	}

	data, from, to, err := s.generator.Generate(ctx, ownerUserID, req.Kind, req.Format, ref)
	meta.WeekStart, meta.WeekEnd = from, to
	if err == nil {
		err = s.store(ctx, meta, data)
	}
	if err != nil {
		s.logf("WARN reports: owner=%s kind=%s format=%s failed: %v", ownerUserID, req.Kind, req.Format, err)
		msg := err.Error()
		meta.Status = StatusFailed
		meta.Error = &msg
		meta.Data = nil
		meta.ObjectKey = nil
		meta.SizeBytes = 0
		if meta.WeekStart == "" {
			keys := weekdates.WeekKeys(ref, s.generator.weekStart)
			meta.WeekStart, meta.WeekEnd = keys[0], keys[len(keys)-1]
		}
	}

	if err := s.reportsStorage.CreateReport(ctx, meta); err != nil {
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}
	return toReport(meta), nil
}

func (s *Service) store(ctx context.Context, meta *storage.ReportMeta, data []byte) error {
	meta.SizeBytes = int64(len(data))
	if s.localMode() {
		meta.Data = data
		return nil
	}

	key := blob.ReportKey(meta.OwnerUserID, meta.WeekStart, meta.Kind, meta.ID.String(), meta.Format)
	if _, err := s.blobStore.PutObject(ctx, key, data, blob.ContentType(meta.Format)); err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}
	meta.ObjectKey = &key
	return nil
}

// GetReport returns one of the owner's reports.
func (s *Service) GetReport(ctx context.Context, ownerUserID string, id uuid.UUID) (*Report, error) {
	meta, err := s.reportsStorage.GetReport(ctx, ownerUserID, id)
	if err != nil {
		if errors.Is(err, storage.ErrReportNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return toReport(meta), nil
}

// ListReports lists the owner's reports, newest first. limit is capped.
func (s *Service) ListReports(ctx context.Context, ownerUserID string, limit, offset int) ([]Report, error) {
	if limit <= 0 || limit > s.maxPerPage {
		limit = s.maxPerPage
	}
	if offset < 0 {
		offset = 0
	}

	metas, err := s.reportsStorage.ListReports(ctx, ownerUserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]Report, len(metas))
	for i := range metas {
		reports[i] = *toReport(&metas[i])
	}
	return reports, nil
}

// DeleteReport removes a report and its file.
func (s *Service) DeleteReport(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	report, err := s.GetReport(ctx, ownerUserID, id)
	if err != nil {
		return err
	}

	if !s.localMode() && report.ObjectKey != nil {
		if err := s.blobStore.DeleteObject(ctx, *report.ObjectKey); err != nil {
			s.logf("WARN reports: failed to delete object key=%s: %v", *report.ObjectKey, err)
		}
	}

	if err := s.reportsStorage.DeleteReport(ctx, ownerUserID, id); err != nil {
		if errors.Is(err, storage.ErrReportNotFound) {
			return ErrReportNotFound
		}
		return fmt.Errorf("failed to delete report metadata: %w", err)
	}
	return nil
}

// DownloadURL returns where the report file can be fetched: the API download
// route in local mode, the object store URL otherwise.
func (s *Service) DownloadURL(ctx context.Context, report *Report, baseURL string) (string, error) {
	if report.Status != StatusReady {
		return "", nil
	}
	if s.localMode() || report.ObjectKey == nil {
		return fmt.Sprintf("%s/v1/reports/%s/download", strings.TrimSuffix(baseURL, "/"), report.ID), nil
	}
	url, err := s.blobStore.DownloadURL(ctx, *report.ObjectKey)
	if err != nil {
		return "", fmt.Errorf("failed to build download URL: %w", err)
	}
	return url, nil
}

// ReportData returns the report file and its content type.
func (s *Service) ReportData(ctx context.Context, ownerUserID string, id uuid.UUID) (*Report, []byte, string, error) {
	report, err := s.GetReport(ctx, ownerUserID, id)
	if err != nil {
		return nil, nil, "", err
	}
	if report.Status != StatusReady {
		return nil, nil, "", ErrReportFailed
	}

	contentType := blob.ContentType(report.Format)
	if s.localMode() || report.ObjectKey == nil {
		return report, report.Data, contentType, nil
	}

	data, err := s.blobStore.GetObject(ctx, *report.ObjectKey)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to fetch report: %w", err)
	}
	return report, data, contentType, nil
}

func (s *Service) logf(format string, v ...any) {
	if s.logger != nil {
		s.logger.Printf(format, v...)
	}
}

func toReport(meta *storage.ReportMeta) *Report {
	return &Report{
		ID:        meta.ID,
		Kind:      meta.Kind,
		Format:    meta.Format,
		WeekStart: meta.WeekStart,
		WeekEnd:   meta.WeekEnd,
		ObjectKey: meta.ObjectKey,
		SizeBytes: meta.SizeBytes,
		Status:    meta.Status,
		Error:     meta.Error,
		CreatedAt: meta.CreatedAt,
		Data:      meta.Data,
	}
}
