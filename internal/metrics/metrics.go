package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	StatusTransitions      *prometheus.CounterVec
	ClosedPeriodRejections prometheus.Counter
	Evaluations            *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Transaction status transitions applied.",
		}, []string{"from", "to"}),
		ClosedPeriodRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "closed_period_rejections_total",
			Help:      "Mutations rejected because the date lies in a closed period.",
		}),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliation_evaluations_total",
			Help:      "Reconciliation evaluations by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(m.StatusTransitions, m.ClosedPeriodRejections, m.Evaluations)

	return m
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
