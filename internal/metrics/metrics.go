// Package metrics records comparison run counters in a private Prometheus
// registry that can be dumped to a node-exporter textfile.
package metrics

import (
	"fmt"

	"github.com/bnema/indexdiff/internal/domain"
	"github.com/bnema/indexdiff/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Recorder struct {
	registry *prometheus.Registry

	remoteCalls *prometheus.CounterVec
	cacheHits   *prometheus.CounterVec
	units       *prometheus.CounterVec
	divergent   prometheus.Gauge
}

var _ ports.RunMetrics = (*Recorder)(nil)

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		remoteCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "indexdiff_remote_calls_total",
				Help: "Total number of index service calls",
			},
			[]string{"op", "status"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "indexdiff_cache_hits_total",
				Help: "Total number of blob cache hits",
			},
			[]string{"kind"},
		),
		units: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "indexdiff_units_total",
				Help: "Total number of completed download units",
			},
			[]string{"outcome"},
		),
		divergent: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "indexdiff_divergent_indices",
				Help: "Number of indices whose data size differs between accounts",
			},
		),
	}
}

func (r *Recorder) RemoteCall(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.remoteCalls.WithLabelValues(op, status).Inc()
}

func (r *Recorder) CacheHit(kind string) {
	r.cacheHits.WithLabelValues(kind).Inc()
}

func (r *Recorder) UnitCompleted(outcome domain.UnitOutcome) {
	r.units.WithLabelValues(string(outcome)).Inc()
}

func (r *Recorder) DivergentIndices(count int) {
	r.divergent.Set(float64(count))
}

// WriteTextfile dumps every metric in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
