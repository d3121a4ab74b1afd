// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface using a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/billtracker/internal/storage"
)

// Ensure PostgresStore implements storage.Store
var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// New connects to the database at url and runs migrations.
func New(ctx context.Context, url string) (*PostgresStore, error) {
	if err := runMigrations(url); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes every connection in the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// checkOwner returns nil when the row exists and belongs to ownerID.
func (s *PostgresStore) checkOwner(ctx context.Context, table, id, ownerID string) error {
	var owner string
	err := s.pool.QueryRow(ctx,
		"SELECT owner_id FROM "+table+" WHERE id = $1", id,
	).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != ownerID {
		return storage.ErrNotPermitted
	}
	return nil
}

// missing explains why an owner-scoped statement matched no row.
func (s *PostgresStore) missing(ctx context.Context, table, id, ownerID string) error {
	if err := s.checkOwner(ctx, table, id, ownerID); err != nil {
		return err
	}
	return storage.ErrNotFound
}

// nullIfEmpty maps the empty string to SQL NULL.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
