package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/customerapi/internal/config"
)

const closeTimeout = 5 * time.Second

// DirectProvider opens a fresh connection on every Acquire and closes it on
// Release. Nothing is shared between requests.
type DirectProvider struct {
	connConfig *pgx.ConnConfig
	logger     zerolog.Logger
}

func NewDirectProvider(cfg *config.Config, logger zerolog.Logger) (*DirectProvider, error) {
	connConfig, err := pgx.ParseConfig(cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	connConfig.ConnectTimeout = cfg.DBConnectTimeout

	return &DirectProvider{connConfig: connConfig, logger: logger}, nil
}

func (p *DirectProvider) Acquire(ctx context.Context) (Conn, error) {
	conn, err := pgx.ConnectConfig(ctx, p.connConfig.Copy())
	if err != nil {
		return nil, unavailable(ctx, p.logger, config.ConnectModeDirect, err)
	}
	return &directConn{Conn: conn, logger: p.logger}, nil
}

func (p *DirectProvider) Ping(ctx context.Context) error {
	conn, err := pgx.ConnectConfig(ctx, p.connConfig.Copy())
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())
	return conn.Ping(ctx)
}

func (p *DirectProvider) Close() {}

type directConn struct {
	*pgx.Conn
	logger zerolog.Logger
}

func (c *directConn) Release() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := c.Conn.Close(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("closing database connection")
	}
}
