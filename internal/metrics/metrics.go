// Package metrics collects Prometheus metrics for one search run and can
// export them in the text exposition format at the end of the run.
//
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"seqsearch/internal/errors"
	"seqsearch/internal/progress"
)

const namespace = "seqsearch"

type Metrics struct {
	reg *prometheus.Registry

	stageCurrent *prometheus.GaugeVec
	stageTotal   *prometheus.GaugeVec

	itemsProcessed *prometheus.CounterVec
	itemsFailed    *prometheus.CounterVec
	itemDuration   *prometheus.HistogramVec

	queries        prometheus.Counter
	queriesWithHit prometheus.Counter
	hits           prometheus.Counter
	dbSequences    prometheus.Gauge
}

// New registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),

		stageCurrent: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_current",
			Help:      "Units completed in a pipeline stage",
		}, []string{"stage"}),

		stageTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_total",
			Help:      "Units known for a pipeline stage",
		}, []string{"stage"}),

		itemsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_items_processed_total",
			Help:      "Work items handled by a queue",
		}, []string{"queue"}),

		itemsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_items_failed_total",
			Help:      "Work items whose handler failed",
		}, []string{"queue"}),

		itemDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "queue_item_duration_seconds",
			Help:      "Time spent handling one work item",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"queue"}),

		queries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Queries searched",
		}),

		queriesWithHit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_with_hits_total",
			Help:      "Queries with at least one accepted hit",
		}),

		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hits_total",
			Help:      "Accepted hits",
		}),

		dbSequences: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "database_sequences",
			Help:      "Sequences in the indexed database",
		}),
	}

	m.reg.MustRegister(
		m.stageCurrent, m.stageTotal,
		m.itemsProcessed, m.itemsFailed, m.itemDuration,
		m.queries, m.queriesWithHit, m.hits, m.dbSequences,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Update implements progress.Sink.
func (m *Metrics) Update(stage progress.Stage, current, total uint64) {
	if m == nil {
		return
	}
	m.stageCurrent.WithLabelValues(stage.String()).Set(float64(current))
	m.stageTotal.WithLabelValues(stage.String()).Set(float64(total))
}

// ObserveItem records one handled work item for queue.
func (m *Metrics) ObserveItem(queue string, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.itemDuration.WithLabelValues(queue).Observe(took.Seconds())
	if err != nil {
		m.itemsFailed.WithLabelValues(queue).Inc()
		return
	}
	m.itemsProcessed.WithLabelValues(queue).Inc()
}

// AddQueries records searched queries and their outcome.
func (m *Metrics) AddQueries(searched, withHits, hits int) {
	if m == nil {
		return
	}
	m.queries.Add(float64(searched))
	m.queriesWithHit.Add(float64(withHits))
	m.hits.Add(float64(hits))
}

func (m *Metrics) SetDatabaseSize(n int) {
	if m == nil {
		return
	}
	m.dbSequences.Set(float64(n))
}

// WriteTextfile writes every metric to path in the text exposition format,
// atomically, for node_exporter's textfile collector or later inspection.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return errors.IOf(err, "write metrics %s", path)
	}
	return nil
}
