package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/edvin/customerapi/internal/config"
)

// ErrUnavailable is returned when a connection to the database cannot be
// obtained. Handlers map it to a 500 "Database connection failed" response.
var ErrUnavailable = errors.New("database connection failed")

// Conn is a single database session checked out for one request. Release
// must be called exactly once when the caller is done with it.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Release()
}

// Provider hands out request-scoped connections.
type Provider interface {
	Acquire(ctx context.Context) (Conn, error)
	Ping(ctx context.Context) error
	Close()
}

// NewProvider builds the provider selected by cfg.DBConnectMode. Neither mode
// dials the database up front; an unreachable server surfaces on Acquire.
func NewProvider(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Provider, error) {
	switch cfg.DBConnectMode {
	case config.ConnectModePool:
		return NewPoolProvider(ctx, cfg, logger)
	case config.ConnectModeDirect:
		return NewDirectProvider(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown db connect mode %q", cfg.DBConnectMode)
	}
}

// unavailable logs through the request logger when one is on ctx.
func unavailable(ctx context.Context, logger zerolog.Logger, mode string, err error) error {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		logger = *l
	}
	logger.Error().Err(err).Str("mode", mode).Msg("database connection failed")
	acquireFailures.WithLabelValues(mode).Inc()
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
