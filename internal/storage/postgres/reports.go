package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresReportsStorage - Postgres storage для метаданных отчётов.
// Файл хранится в колонке data, только если не настроено blob-хранилище.
type PostgresReportsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresReportsStorage(pool *pgxpool.Pool) *PostgresReportsStorage {
	return &PostgresReportsStorage{pool: pool}
}

const reportColumns = `id, owner_user_id, kind, format, week_start, week_end, object_key, size_bytes, status, error, created_at, updated_at`

func (s *PostgresReportsStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	const query = `
		INSERT INTO reports (id, owner_user_id, kind, format, week_start, week_end, object_key, size_bytes, status, error, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err := s.pool.QueryRow(ctx, query,
		report.ID,
		report.OwnerUserID,
		report.Kind,
		report.Format,
		report.WeekStart,
		report.WeekEnd,
		report.ObjectKey,
		report.SizeBytes,
		report.Status,
		report.Error,
		report.Data,
	).Scan(&report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetReport возвращает отчёт владельца вместе с data
func (s *PostgresReportsStorage) GetReport(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.ReportMeta, error) {
	query := `SELECT ` + reportColumns + `, data FROM reports WHERE id = $1 AND owner_user_id = $2`

	var r storage.ReportMeta
	err := s.pool.QueryRow(ctx, query, id, ownerUserID).Scan(append(reportDest(&r), &r.Data)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &r, nil
}

// ListReports возвращает страницу отчётов без data, новые первыми
func (s *PostgresReportsStorage) ListReports(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ReportMeta, error) {
	query := `SELECT ` + reportColumns + `
		FROM reports
		WHERE owner_user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (storage.ReportMeta, error) {
		var r storage.ReportMeta
		err := row.Scan(reportDest(&r)...)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan reports: %w", err)
	}
	return reports, nil
}

func (s *PostgresReportsStorage) DeleteReport(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1 AND owner_user_id = $2`, id, ownerUserID)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrReportNotFound
	}
	return nil
}

// reportDest returns scan targets in reportColumns order.
func reportDest(r *storage.ReportMeta) []any {
	return []any{
		&r.ID,
		&r.OwnerUserID,
		&r.Kind,
		&r.Format,
		&r.WeekStart,
		&r.WeekEnd,
		&r.ObjectKey,
		&r.SizeBytes,
		&r.Status,
		&r.Error,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
}
