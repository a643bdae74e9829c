// Package telemetry exposes Prometheus metrics for game traffic.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/robalobadob/pegsolitaire/internal/game"
	"github.com/robalobadob/pegsolitaire/internal/store"
)

const namespace = "pegsolitaire"

type Metrics struct {
	reg       prometheus.Registerer
	clicks    *prometheus.CounterVec
	resets    prometheus.Counter
	finished  prometheus.Histogram
	evictions *prometheus.CounterVec
}

// New registers the metric set on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		clicks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clicks_total",
			Help:      "Board clicks by outcome.",
		}, []string{"outcome"}),
		resets: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Games reset by the player.",
		}),
		finished: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "finished_pegs_left",
			Help:      "Pegs remaining when a game ends.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		evictions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_evicted_total",
			Help:      "Sessions dropped by the eviction policy.",
		}, []string{"reason"}),
	}
}

func (m *Metrics) Click(o game.Outcome) { m.clicks.WithLabelValues(string(o)).Inc() }

func (m *Metrics) Reset() { m.resets.Inc() }

func (m *Metrics) GameFinished(pegsLeft int) { m.finished.Observe(float64(pegsLeft)) }

// SessionEvicted matches the store eviction hook signature.
func (m *Metrics) SessionEvicted(_ string, reason store.EvictReason) {
	m.evictions.WithLabelValues(string(reason)).Inc()
}

// TrackSessions exports a live session gauge backed by count.
func (m *Metrics) TrackSessions(count func() int) {
	promauto.With(m.reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions",
		Help:      "Games currently held in memory.",
	}, func() float64 { return float64(count()) })
}
