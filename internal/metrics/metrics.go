// Package metrics collects and exposes Prometheus metrics for the request
// router and the batched deletion executor.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the router and executor report to.
type Recorder interface {
	RecordRequest(action string, success bool, d time.Duration)
	RecordBatch(size int)
	RecordDeletions(deleted, failed int)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	batches        prometheus.Counter
	batchSize      prometheus.Histogram
	deleted        prometheus.Counter
	failed         prometheus.Counter
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "historyremover_requests_total",
			Help: "Requests handled by the router, by action and outcome.",
		}, []string{"action", "success"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "historyremover_request_duration_seconds",
			Help:    "Time spent handling a request, by action.",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "historyremover_delete_batches_total",
			Help: "Deletion batches dispatched to the history store.",
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "historyremover_delete_batch_size",
			Help:    "URLs per deletion batch.",
			Buckets: []float64{1, 5, 10, 25, 50, 100},
		}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "historyremover_urls_deleted_total",
			Help: "URLs successfully deleted.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "historyremover_urls_failed_total",
			Help: "URL deletions that failed.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.requestLatency,
		c.batches,
		c.batchSize,
		c.deleted,
		c.failed,
	)

	return c
}

// RecordRequest counts one handled request.
func (c *Collector) RecordRequest(action string, success bool, d time.Duration) {
	c.requests.WithLabelValues(action, strconv.FormatBool(success)).Inc()
	c.requestLatency.WithLabelValues(action).Observe(d.Seconds())
}

// RecordBatch counts one dispatched deletion batch.
func (c *Collector) RecordBatch(size int) {
	c.batches.Inc()
	c.batchSize.Observe(float64(size))
}

// RecordDeletions adds the outcome of a deleteUrls request.
func (c *Collector) RecordDeletions(deleted, failed int) {
	c.deleted.Add(float64(deleted))
	c.failed.Add(float64(failed))
}

// Handler serves the metrics registered in g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRequest(string, bool, time.Duration) {}
func (Nop) RecordBatch(int)                            {}
func (Nop) RecordDeletions(int, int)                   {}
