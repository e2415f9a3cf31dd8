// Package persistence implements the four-operation Store interface
// over Postgres, via github.com/jackc/pgx/v5. No file in the retrieved
// example pack exercises pgx directly, so this is written directly
// against the documented pgx/v5 pool API; see DESIGN.md.
package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Store is the persistence interface: opaque serialized blobs
// keyed by id, for both game states and user records.
type Store interface {
	FetchGame(ctx context.Context, id uuid.UUID) ([]byte, error)
	WriteGame(ctx context.Context, id uuid.UUID, data []byte) error
	FetchUser(ctx context.Context, id uuid.UUID) ([]byte, error)
	WriteUser(ctx context.Context, id uuid.UUID, data []byte) error
}

// PostgresStore is a Store backed by a pgx connection pool. Game and
// user state are stored as opaque bytea columns, so this package has no
// dependency on the game engine's types.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore parses dsn, opens a connection pool sized maxConns,
// and verifies connectivity with a ping before returning.
func NewPostgresStore(ctx context.Context, dsn string, maxConns int32, logger *zap.Logger) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Close releases the pool's connections.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Stats reports pool statistics for startup/health logging.
func (s *PostgresStore) Stats() *pgxpool.Stat {
	return s.pool.Stat()
}

func (s *PostgresStore) FetchGame(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT state FROM games WHERE id = $1`, id).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("fetching game %s: %w", id, err)
	}
	return data, nil
}

func (s *PostgresStore) WriteGame(ctx context.Context, id uuid.UUID, data []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO games (id, state) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state
	`, id, data)
	if err != nil {
		return fmt.Errorf("writing game %s: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) FetchUser(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT state FROM users WHERE id = $1`, id).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("fetching user %s: %w", id, err)
	}
	return data, nil
}

func (s *PostgresStore) WriteUser(ctx context.Context, id uuid.UUID, data []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, state) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state
	`, id, data)
	if err != nil {
		return fmt.Errorf("writing user %s: %w", id, err)
	}
	return nil
}
