package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus metrics. A nil *Collector is
// valid and records nothing, which keeps tests free of registry setup.
type Collector struct {
	registry *prometheus.Registry

	feedEvents     *prometheus.CounterVec
	staleEvents    prometheus.Counter
	mutations      *prometheus.CounterVec
	mutationErrors *prometheus.CounterVec
	liveSessions   prometheus.Gauge
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		feedEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "draftlabs_feed_events_total",
			Help: "Slot change feed events folded into session state, by event type.",
		}, []string{"event"}),
		staleEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "draftlabs_feed_events_dropped_total",
			Help: "Feed events dropped for belonging to a draft the session no longer tracks.",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "draftlabs_mutations_total",
			Help: "Slot mutations issued, by kind.",
		}, []string{"kind"}),
		mutationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "draftlabs_mutation_errors_total",
			Help: "Slot mutations that failed, by kind.",
		}, []string{"kind"}),
		liveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "draftlabs_live_sessions",
			Help: "Draft sessions currently subscribed to a change feed.",
		}),
	}

	c.registry.MustRegister(
		c.feedEvents,
		c.staleEvents,
		c.mutations,
		c.mutationErrors,
		c.liveSessions,
	)
	return c
}

func (c *Collector) FeedEvent(event string) {
	if c == nil {
		return
	}
	c.feedEvents.WithLabelValues(event).Inc()
}

func (c *Collector) StaleEvent() {
	if c == nil {
		return
	}
	c.staleEvents.Inc()
}

func (c *Collector) Mutation(kind string, err error) {
	if c == nil {
		return
	}
	c.mutations.WithLabelValues(kind).Inc()
	if err != nil {
		c.mutationErrors.WithLabelValues(kind).Inc()
	}
}

func (c *Collector) SessionLive(delta int) {
	if c == nil {
		return
	}
	c.liveSessions.Add(float64(delta))
}

// Handler serves the registry in Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
