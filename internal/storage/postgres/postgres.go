package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage - Postgres реализация storage.Storage
type PostgresStorage struct {
	pool    *pgxpool.Pool
	state   *PostgresStateStorage
	reports *PostgresReportsStorage
}

// New создаёт PostgresStorage и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:    pool,
		state:   NewPostgresStateStorage(pool),
		reports: NewPostgresReportsStorage(pool),
	}, nil
}

func (p *PostgresStorage) State() storage.StateStorage {
	return p.state
}

func (p *PostgresStorage) Reports() storage.ReportsStorage {
	return p.reports
}

// Close закрывает пул соединений
func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// PostgresStateStorage хранит документы в таблице user_state
type PostgresStateStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresStateStorage(pool *pgxpool.Pool) *PostgresStateStorage {
	return &PostgresStateStorage{pool: pool}
}

func (s *PostgresStateStorage) GetState(ctx context.Context, ownerUserID, key string) ([]byte, bool, error) {
	if !storage.IsStateKey(key) {
		return nil, false, storage.ErrUnknownKey
	}

	query := `SELECT value FROM user_state WHERE owner_user_id = $1 AND key = $2`

	var value string
	err := s.pool.QueryRow(ctx, query, ownerUserID, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get state %s: %w", key, err)
	}

	return []byte(value), true, nil
}

// PutState stores value as text; decoding is left to the reader.
func (s *PostgresStateStorage) PutState(ctx context.Context, ownerUserID, key string, value []byte) error {
	if !storage.IsStateKey(key) {
		return storage.ErrUnknownKey
	}

	query := `
		INSERT INTO user_state (owner_user_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_user_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`

	if _, err := s.pool.Exec(ctx, query, ownerUserID, key, string(value)); err != nil {
		return fmt.Errorf("failed to put state %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStateStorage) DeleteState(ctx context.Context, ownerUserID, key string) error {
	if !storage.IsStateKey(key) {
		return storage.ErrUnknownKey
	}

	query := `DELETE FROM user_state WHERE owner_user_id = $1 AND key = $2`
	if _, err := s.pool.Exec(ctx, query, ownerUserID, key); err != nil {
		return fmt.Errorf("failed to delete state %s: %w", key, err)
	}
	return nil
}
