package logging

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/edvin/customerapi/internal/config"
)

// NewLogger creates a structured zerolog.Logger tagged with the service name.
// An unparseable LOG_LEVEL falls back to info.
func NewLogger(cfg *config.Config) zerolog.Logger {
	ctx := zerolog.New(os.Stdout).With().Timestamp()

	if cfg.ServiceName != "" {
		ctx = ctx.Str("service", cfg.ServiceName)
	}
	if cfg.DBConnectMode != "" {
		ctx = ctx.Str("db_connect_mode", cfg.DBConnectMode)
	}

	logger := ctx.Logger()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}
