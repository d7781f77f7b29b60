package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/customerapi/internal/api"
	"github.com/edvin/customerapi/internal/config"
	"github.com/edvin/customerapi/internal/db"
	"github.com/edvin/customerapi/internal/logging"
	"github.com/edvin/customerapi/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	if *migrateFlag {
		logger.Info().Msg("running database migrations")
		if err := db.RunMigrations(cfg.DatabaseDSN()); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := db.NewProvider(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure database")
	}
	defer provider.Close()

	if pp, ok := provider.(*db.PoolProvider); ok {
		if err := metrics.RegisterPgxPoolMetrics(prometheus.DefaultRegisterer, pp.Pool()); err != nil {
			logger.Fatal().Err(err).Msg("failed to register pool metrics")
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
	if err := provider.Ping(pingCtx); err != nil {
		logger.Warn().Err(err).Msg("database not reachable at startup")
	}
	cancel()

	servers := []*http.Server{{
		Addr:         cfg.HTTPListenAddr,
		Handler:      api.NewServer(logger, provider),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}}
	if cfg.MetricsListenAddr != "" {
		servers = append(servers, metrics.NewServer(cfg.MetricsListenAddr))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			logger.Info().Str("addr", srv.Addr).Msg("starting HTTP server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			errs = append(errs, srv.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		provider.Close()
		os.Exit(1)
	}
}
