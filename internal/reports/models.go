package reports

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/meal-planner/internal/validation"
)

const (
	KindNutrition = "nutrition"
	KindShopping  = "shopping"

	FormatPDF = "pdf"
	FormatCSV = "csv"

	StatusReady  = "ready"
	StatusFailed = "failed"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrReportFailed   = errors.New("report generation failed")
)

// CreateReportRequest is the request body for POST /v1/reports.
// Date picks the week; empty means the current week.
type CreateReportRequest struct {
	Kind   string `json:"kind" validate:"required,oneof=nutrition shopping"`
	Format string `json:"format" validate:"required,oneof=pdf csv"`
	Date   string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// Validate validates the request.
func (r *CreateReportRequest) Validate() error {
	return validation.Struct(r)
}

// Report is a generated report file with its metadata.
type Report struct {
	ID        uuid.UUID
	Kind      string
	Format    string
	WeekStart string
	WeekEnd   string
	ObjectKey *string
	SizeBytes int64
	Status    string
	Error     *string
	CreatedAt time.Time
	Data      []byte
}

// ReportDTO is the response representation of a report.
type ReportDTO struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	Format      string    `json:"format"`
	WeekStart   string    `json:"week_start"`
	WeekEnd     string    `json:"week_end"`
	DownloadURL string    `json:"download_url"`
	SizeBytes   int64     `json:"size_bytes"`
	Status      string    `json:"status"`
	Error       *string   `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportsResponse is the list response.
type ReportsResponse struct {
	Reports []ReportDTO `json:"reports"`
}
