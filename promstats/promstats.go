// Package promstats exports the statistics of a batch.Scheduler as
// Prometheus metrics.
//
//	c := promstats.NewCollector("myapp")
//	prometheus.MustRegister(c)
//	s := batch.New(loop, cfg).WithStats(c)
package promstats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MasterOfBinary/framebatch/batch"
)

// Collector is a batch.StatsCollector that mirrors every event into
// Prometheus metrics. It also keeps a batch.BasicStatsCollector so GetStats
// works as usual. It is safe for concurrent use.
type Collector struct {
	basic *batch.BasicStatsCollector

	runsStarted    prometheus.Counter
	runsCompleted  *prometheus.CounterVec
	batchesStarted prometheus.Counter
	itemsProcessed prometheus.Counter
	batchDuration  prometheus.Histogram
	batchSize      prometheus.Histogram
	estimate       prometheus.Gauge
}

// NewCollector creates a Collector whose metric names start with namespace.
// An empty namespace means "framebatch".
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "framebatch"
	}

	return &Collector{
		basic: batch.NewBasicStatsCollector(),
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_started_total",
			Help:      "Number of runs started.",
		}),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_completed_total",
			Help:      "Number of runs that ended, by result.",
		}, []string{"result"}),
		batchesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_started_total",
			Help:      "Number of batches handed to a batch function.",
		}),
		itemsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_processed_total",
			Help:      "Number of items in completed batches.",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Time from handing a batch out to its completion.",
			Buckets:   []float64{.001, .0025, .005, .01, .0166, .025, .05, .1, .25, .5, 1},
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of items per completed batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		estimate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "interval_per_item_milliseconds",
			Help:      "Most recent cost estimate per item.",
		}),
	}
}

func (c *Collector) metrics() []prometheus.Collector {
	return []prometheus.Collector{
		c.runsStarted,
		c.runsCompleted,
		c.batchesStarted,
		c.itemsProcessed,
		c.batchDuration,
		c.batchSize,
		c.estimate,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics() {
		m.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.metrics() {
		m.Collect(ch)
	}
}

// RecordRunStart implements batch.StatsCollector.
func (c *Collector) RecordRunStart(items int) {
	c.basic.RecordRunStart(items)
	c.runsStarted.Inc()
}

// RecordBatchStart implements batch.StatsCollector.
func (c *Collector) RecordBatchStart(size int) {
	c.basic.RecordBatchStart(size)
	c.batchesStarted.Inc()
}

// RecordBatchComplete implements batch.StatsCollector.
func (c *Collector) RecordBatchComplete(size int, duration time.Duration) {
	c.basic.RecordBatchComplete(size, duration)
	c.itemsProcessed.Add(float64(size))
	c.batchDuration.Observe(duration.Seconds())
	c.batchSize.Observe(float64(size))
}

// RecordEstimate implements batch.StatsCollector.
func (c *Collector) RecordEstimate(intervalPerItem float64) {
	c.basic.RecordEstimate(intervalPerItem)
	c.estimate.Set(intervalPerItem)
}

// RecordRunComplete implements batch.StatsCollector.
func (c *Collector) RecordRunComplete(result batch.RunResult) {
	c.basic.RecordRunComplete(result)
	c.runsCompleted.WithLabelValues(result.String()).Inc()
}

// GetStats implements batch.StatsCollector.
func (c *Collector) GetStats() batch.Stats {
	return c.basic.GetStats()
}
