package memory

import (
	"context"
	"sync"

	"github.com/fdg312/meal-planner/internal/storage"
)

// MemoryStorage - in-memory реализация storage.Storage
type MemoryStorage struct {
	state   *StateMemoryStorage
	reports *ReportsMemoryStorage
}

// New создаёт пустой MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		state:   NewStateMemoryStorage(),
		reports: NewReportsMemoryStorage(),
	}
}

func (m *MemoryStorage) State() storage.StateStorage {
	return m.state
}

func (m *MemoryStorage) Reports() storage.ReportsStorage {
	return m.reports
}

// Close для memory - no-op
func (m *MemoryStorage) Close() error {
	return nil
}

type stateKey struct {
	owner string
	key   string
}

// StateMemoryStorage - in-memory key/value хранилище документов
type StateMemoryStorage struct {
	mu   sync.RWMutex
	docs map[stateKey][]byte
}

// NewStateMemoryStorage создаёт пустое хранилище
func NewStateMemoryStorage() *StateMemoryStorage {
	return &StateMemoryStorage{
		docs: make(map[stateKey][]byte),
	}
}

func (s *StateMemoryStorage) GetState(ctx context.Context, ownerUserID, key string) ([]byte, bool, error) {
	if !storage.IsStateKey(key) {
		return nil, false, storage.ErrUnknownKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.docs[stateKey{ownerUserID, key}]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *StateMemoryStorage) PutState(ctx context.Context, ownerUserID, key string, value []byte) error {
	if !storage.IsStateKey(key) {
		return storage.ErrUnknownKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[stateKey{ownerUserID, key}] = append([]byte(nil), value...)
	return nil
}

func (s *StateMemoryStorage) DeleteState(ctx context.Context, ownerUserID, key string) error {
	if !storage.IsStateKey(key) {
		return storage.ErrUnknownKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, stateKey{ownerUserID, key})
	return nil
}
