package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterPgxPoolMetrics exposes connection pool statistics on reg.
func RegisterPgxPoolMetrics(reg prometheus.Registerer, pool *pgxpool.Pool) error {
	gauge := func(name, help string, fn func(s *pgxpool.Stat) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "customer_db",
			Subsystem: "pool",
			Name:      name,
			Help:      help,
		}, func() float64 { return fn(pool.Stat()) })
	}
	counter := func(name, help string, fn func(s *pgxpool.Stat) float64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "customer_db",
			Subsystem: "pool",
			Name:      name,
			Help:      help,
		}, func() float64 { return fn(pool.Stat()) })
	}

	collectors := []prometheus.Collector{
		gauge("acquired_conns", "Connections currently checked out by requests",
			func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }),
		gauge("idle_conns", "Idle connections in the pool",
			func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }),
		gauge("total_conns", "Total connections in the pool",
			func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }),
		gauge("max_conns", "Maximum size of the pool",
			func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }),
		counter("acquires_total", "Successful connection acquires",
			func(s *pgxpool.Stat) float64 { return float64(s.AcquireCount()) }),
		counter("empty_acquires_total", "Acquires that had to wait for a connection",
			func(s *pgxpool.Stat) float64 { return float64(s.EmptyAcquireCount()) }),
		counter("canceled_acquires_total", "Acquires canceled by the request context",
			func(s *pgxpool.Stat) float64 { return float64(s.CanceledAcquireCount()) }),
		counter("acquire_seconds_total", "Cumulative time spent acquiring connections",
			func(s *pgxpool.Stat) float64 { return s.AcquireDuration().Seconds() }),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
