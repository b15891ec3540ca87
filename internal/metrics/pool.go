// Package metrics exposes internal state the dashboards alert on. HTTP
// request metrics live in the api middleware; this package covers the
// database pool.
package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// poolCollector reads pgxpool statistics at scrape time.
type poolCollector struct {
	pool *pgxpool.Pool

	acquired *prometheus.Desc
	idle     *prometheus.Desc
	total    *prometheus.Desc
	max      *prometheus.Desc
}

// RegisterPoolMetrics exposes connection pool statistics as Prometheus
// gauges. Call once per process.
func RegisterPoolMetrics(pool *pgxpool.Pool) {
	prometheus.MustRegister(&poolCollector{
		pool: pool,
		acquired: prometheus.NewDesc("db_pool_acquired_conns",
			"Connections currently acquired from the pool", nil, nil),
		idle: prometheus.NewDesc("db_pool_idle_conns",
			"Idle connections in the pool", nil, nil),
		total: prometheus.NewDesc("db_pool_total_conns",
			"Total connections held by the pool", nil, nil),
		max: prometheus.NewDesc("db_pool_max_conns",
			"Configured pool connection ceiling", nil, nil),
	})
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.idle
	ch <- c.total
	ch <- c.max
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(stat.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(stat.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(stat.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.max, prometheus.GaugeValue, float64(stat.MaxConns()))
}
