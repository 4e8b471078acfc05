// Package metrics exports logger statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/philipp01105/ulog/handler"
)

// StatsSource is anything that reports dispatcher statistics, such as
// *logger.Logger.
type StatsSource interface {
	Stats() handler.Snapshot
}

// Collector implements prometheus.Collector over a StatsSource. Values
// are read at scrape time, so nothing is added to the log path.
type Collector struct {
	source StatsSource

	lines        *prometheus.Desc
	flushes      *prometheus.Desc
	truncated    *prometheus.Desc
	skipped      *prometheus.Desc
	openFailures *prometheus.Desc
	writeErrors  *prometheus.Desc
}

// NewCollector creates a collector with the given metric namespace
// (default "ulog").
func NewCollector(source StatsSource, namespace string) *Collector {
	if namespace == "" {
		namespace = "ulog"
	}
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
	}
	return &Collector{
		source:       source,
		lines:        desc("lines_total", "Log lines written, by sink.", "sink"),
		flushes:      desc("file_flushes_total", "Flushes of the file sink."),
		truncated:    desc("truncated_records_total", "Records that overflowed the buffer."),
		skipped:      desc("skipped_records_total", "Records below every active threshold."),
		openFailures: desc("file_open_failures_total", "Failed attempts to open the log file."),
		writeErrors:  desc("write_errors_total", "Failed sink writes and flushes."),
	}
}

// Describe implements the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.lines
	ch <- c.flushes
	ch <- c.truncated
	ch <- c.skipped
	ch <- c.openFailures
	ch <- c.writeErrors
}

// Collect implements the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	counter := func(d *prometheus.Desc, v uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}
	counter(c.lines, s.ConsoleLines, "console")
	counter(c.lines, s.FileLines, "file")
	counter(c.flushes, s.FileFlushes)
	counter(c.truncated, s.Truncated)
	counter(c.skipped, s.Skipped)
	counter(c.openFailures, s.OpenFailures)
	counter(c.writeErrors, s.WriteErrors)
}
