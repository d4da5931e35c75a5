package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medikart/storefront/internal/port"
)

type postgresStore struct {
	pool  *pgxpool.Pool
	scope string
}

// NewPostgres returns a KV store over the kv_entries table. Scope
// separates rows of different storefront instances sharing a database.
func NewPostgres(pool *pgxpool.Pool, scope string) (port.KV, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &postgresStore{pool: pool, scope: scope}, nil
}

func (s *postgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, fmt.Errorf("key is empty")
	}

	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM kv_entries WHERE scope = $1 AND key = $2`,
		s.scope, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return value, true, nil
}

func (s *postgresStore) Set(ctx context.Context, key string, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO kv_entries (scope, key, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (scope, key)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		s.scope, key, value)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}

	return nil
}

func (s *postgresStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := s.pool.Exec(ctx,
		`DELETE FROM kv_entries WHERE scope = $1 AND key = $2`,
		s.scope, key)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}

	return nil
}
