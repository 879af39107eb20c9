package internal

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "actionpack"

// Action outcomes recorded by the actions counter.
const (
	OutcomeOK            = "ok"
	OutcomeForgery       = "forgery"
	OutcomeUnknownAction = "unknown_action"
	OutcomeError         = "error"
)

// Metrics holds the dispatch collectors.
type Metrics struct {
	actions  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	forgery  *prometheus.CounterVec
	handler  http.Handler
}

// NewMetrics creates the collectors and registers them on reg. When reg is
// also a prometheus.Gatherer, Handler exposes it.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "actions_total",
				Help:      "Count of dispatched actions by outcome.",
			},
			[]string{"controller", "action", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "action_duration_seconds",
				Help:      "Time spent dispatching an action, response write included.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"controller", "action"},
		),
		forgery: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "forgery_rejections_total",
				Help:      "Count of requests rejected for an invalid authenticity token.",
			},
			[]string{"controller"},
		),
	}

	for _, c := range []prometheus.Collector{m.actions, m.duration, m.forgery} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.handler = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
	return m, nil
}

// Handler serves the registry in the Prometheus text format.
// It is nil when the registerer cannot gather.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// Observe records one dispatch.
func (m *Metrics) Observe(controller, action string, err error, elapsed time.Duration) {
	outcome := Outcome(err)
	m.actions.WithLabelValues(controller, action, outcome).Inc()
	m.duration.WithLabelValues(controller, action).Observe(elapsed.Seconds())
	if outcome == OutcomeForgery {
		m.forgery.WithLabelValues(controller).Inc()
	}
}

// Outcome classifies a dispatch error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrInvalidAuthenticityToken):
		return OutcomeForgery
	case errors.Is(err, ErrUnknownAction):
		return OutcomeUnknownAction
	default:
		return OutcomeError
	}
}
