package db

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var acquireFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "db_acquire_failures_total",
	Help: "Number of failed attempts to obtain a database connection",
}, []string{"mode"})
