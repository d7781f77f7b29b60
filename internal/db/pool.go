package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/edvin/customerapi/internal/config"
)

// PoolProvider checks connections out of a shared pgxpool.
type PoolProvider struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPoolProvider(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*PoolProvider, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.DBMaxConns)
	poolCfg.ConnConfig.ConnectTimeout = cfg.DBConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}

	return &PoolProvider{pool: pool, logger: logger}, nil
}

func (p *PoolProvider) Acquire(ctx context.Context) (Conn, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, unavailable(ctx, p.logger, config.ConnectModePool, err)
	}
	return conn, nil
}

func (p *PoolProvider) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Pool exposes the underlying pool for stats collection.
func (p *PoolProvider) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *PoolProvider) Close() {
	p.pool.Close()
}
