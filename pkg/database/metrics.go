package database

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
)

// DBStatsCollector exports database/sql pool statistics.
type DBStatsCollector struct {
	db    *sql.DB
	store string

	openConns    *prometheus.Desc
	inUseConns   *prometheus.Desc
	idleConns    *prometheus.Desc
	waitCount    *prometheus.Desc
	waitDuration *prometheus.Desc
}

// NewDBStatsCollector creates a collector labelled with the store name.
func NewDBStatsCollector(db *sql.DB, store string) *DBStatsCollector {
	labels := []string{"store"}
	return &DBStatsCollector{
		db:    db,
		store: store,
		openConns: prometheus.NewDesc("db_open_connections",
			"Number of established connections", labels, nil),
		inUseConns: prometheus.NewDesc("db_in_use_connections",
			"Number of connections currently in use", labels, nil),
		idleConns: prometheus.NewDesc("db_idle_connections",
			"Number of idle connections", labels, nil),
		waitCount: prometheus.NewDesc("db_wait_count_total",
			"Total number of connections waited for", labels, nil),
		waitDuration: prometheus.NewDesc("db_wait_duration_seconds_total",
			"Total time blocked waiting for a connection", labels, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *DBStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.openConns
	ch <- c.inUseConns
	ch <- c.idleConns
	ch <- c.waitCount
	ch <- c.waitDuration
}

// Collect implements prometheus.Collector.
func (c *DBStatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.db.Stats()
	ch <- prometheus.MustNewConstMetric(c.openConns, prometheus.GaugeValue, float64(s.OpenConnections), c.store)
	ch <- prometheus.MustNewConstMetric(c.inUseConns, prometheus.GaugeValue, float64(s.InUse), c.store)
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(s.Idle), c.store)
	ch <- prometheus.MustNewConstMetric(c.waitCount, prometheus.CounterValue, float64(s.WaitCount), c.store)
	ch <- prometheus.MustNewConstMetric(c.waitDuration, prometheus.CounterValue, s.WaitDuration.Seconds(), c.store)
}
