package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Ключи состояния владельца. Каждый ключ хранит отдельный JSON-документ.
const (
	KeyMealPlan         = "mealPlan"
	KeyCurrentWeek      = "currentWeek"
	KeySelectedMealSlot = "selectedMealSlot"
	KeyCheckedItems     = "checkedItems"
	KeyShoppingExtras   = "shoppingExtras"
	KeyUserPreferences  = "userPreferences"
	KeyNutritionTargets = "nutritionTargets"
)

// StateKeys lists every known state key.
var StateKeys = []string{
	KeyMealPlan,
	KeyCurrentWeek,
	KeySelectedMealSlot,
	KeyCheckedItems,
	KeyShoppingExtras,
	KeyUserPreferences,
	KeyNutritionTargets,
}

var (
	ErrReportNotFound = errors.New("report not found")
	ErrUnknownKey     = errors.New("unknown state key")
)

// IsStateKey reports whether key is one of StateKeys.
func IsStateKey(key string) bool {
	for _, k := range StateKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Storage - общий интерфейс хранилища (memory или Postgres)
type Storage interface {
	State() StateStorage
	Reports() ReportsStorage

	// Close закрывает соединение (для Postgres)
	Close() error
}

// StateStorage - key/value хранилище JSON-документов владельца
type StateStorage interface {
	// GetState возвращает сырой JSON; found=false если ключ не записан
	GetState(ctx context.Context, ownerUserID, key string) (value []byte, found bool, err error)

	// PutState перезаписывает документ целиком
	PutState(ctx context.Context, ownerUserID, key string, value []byte) error

	// DeleteState удаляет документ; отсутствие ключа не ошибка
	DeleteState(ctx context.Context, ownerUserID, key string) error
}

// ReportsStorage - интерфейс для работы с отчётами
type ReportsStorage interface {
	// CreateReport создаёт новый отчёт (metadata + optional data for memory mode)
	CreateReport(ctx context.Context, report *ReportMeta) error

	// GetReport возвращает отчёт владельца по ID
	GetReport(ctx context.Context, ownerUserID string, id uuid.UUID) (*ReportMeta, error)

	// ListReports возвращает список отчётов владельца с пагинацией
	ListReports(ctx context.Context, ownerUserID string, limit, offset int) ([]ReportMeta, error)

	// DeleteReport удаляет отчёт (metadata и данные)
	DeleteReport(ctx context.Context, ownerUserID string, id uuid.UUID) error
}

// ReportMeta - метаданные отчёта
type ReportMeta struct {
	ID          uuid.UUID
	OwnerUserID string
	Kind        string  // "nutrition" or "shopping"
	Format      string  // "pdf" or "csv"
	WeekStart   string  // YYYY-MM-DD
	WeekEnd     string  // YYYY-MM-DD
	ObjectKey   *string // S3 object key (NULL for memory mode)
	SizeBytes   int64
	Status      string // "ready" or "failed"
	Error       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Data        []byte // file bytes when no blob store is configured
}
