package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GCLCMentor/CherryCourtTimer/internal/config"
	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
)

// PostgresStore keeps the record as a jsonb row keyed by the store key
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
	key   string
}

// NewPostgresStore connects and creates the state table if needed
func NewPostgresStore(ctx context.Context, cfg config.PostgresConfig, key string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &PostgresStore{pool: pool, table: pgx.Identifier{cfg.Table}.Sanitize(), key: key}
	if err := p.ensureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *PostgresStore) ensureTable(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+p.table+` (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create state table: %w", err)
	}
	return nil
}

// Load implements Store
func (p *PostgresStore) Load(ctx context.Context) (domain.GameState, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx, `SELECT value FROM `+p.table+` WHERE key = $1`, p.key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GameState{}, domain.ErrConfigMissing
	}
	if err != nil {
		return domain.GameState{}, fmt.Errorf("%w: %v", domain.ErrUnreadable, err)
	}
	return Decode(raw)
}

// Save implements Store
func (p *PostgresStore) Save(ctx context.Context, state domain.GameState) error {
	raw, err := Encode(state)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO `+p.table+` (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, p.key, string(raw))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", p.key, err)
	}
	return nil
}

// Close implements Store
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
