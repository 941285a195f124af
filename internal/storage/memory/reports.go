package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/google/uuid"
)

// ReportsMemoryStorage keeps report metadata and bytes per owner.
type ReportsMemoryStorage struct {
	mu      sync.RWMutex
	byOwner map[string]map[uuid.UUID]storage.ReportMeta
	now     func() time.Time
}

func NewReportsMemoryStorage() *ReportsMemoryStorage {
	return &ReportsMemoryStorage{
		byOwner: make(map[string]map[uuid.UUID]storage.ReportMeta),
		now:     time.Now,
	}
}

func (s *ReportsMemoryStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = s.now()
	report.UpdatedAt = report.CreatedAt

	owned, ok := s.byOwner[report.OwnerUserID]
	if !ok {
		owned = make(map[uuid.UUID]storage.ReportMeta)
		s.byOwner[report.OwnerUserID] = owned
	}
	meta := *report
	meta.Data = slices.Clone(report.Data)
	owned[report.ID] = meta
	return nil
}

func (s *ReportsMemoryStorage) GetReport(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, ok := s.byOwner[ownerUserID][id]
	if !ok {
		return nil, storage.ErrReportNotFound
	}
	meta.Data = slices.Clone(meta.Data)
	return &meta, nil
}

// ListReports returns a page of the owner's reports without data, newest first.
func (s *ReportsMemoryStorage) ListReports(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ReportMeta, error) {
	s.mu.RLock()
	owned := s.byOwner[ownerUserID]
	list := make([]storage.ReportMeta, 0, len(owned))
	for _, meta := range owned {
		meta.Data = nil
		list = append(list, meta)
	}
	s.mu.RUnlock()

	slices.SortFunc(list, func(a, b storage.ReportMeta) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})

	if offset >= len(list) {
		return []storage.ReportMeta{}, nil
	}
	end := min(offset+limit, len(list))
	return list[offset:end], nil
}

func (s *ReportsMemoryStorage) DeleteReport(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byOwner[ownerUserID][id]; !ok {
		return storage.ErrReportNotFound
	}
	delete(s.byOwner[ownerUserID], id)
	return nil
}
