// Package observability holds the Prometheus metrics of the routing pipeline.
package observability

import (
	"context"
	"net/http"
	"time"

	"leadrouter/internal/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collaborator labels.
const (
	CollaboratorEnrichment   = "enrichment"
	CollaboratorCRM          = "crm"
	CollaboratorNotification = "notification"
)

// Skip reasons.
const (
	SkipInFlight = "in_flight"
	SkipNotNew   = "not_new"
)

// Metrics holds the lead router's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Registry owns every collector below and backs the /metrics handler.
	Registry *prometheus.Registry

	leadsRouted          *prometheus.CounterVec
	pipelineDuration     *prometheus.HistogramVec
	collaboratorFailures *prometheus.CounterVec
	statusTransitions    *prometheus.CounterVec
	leadsStaled          prometheus.Counter
	skippedRuns          *prometheus.CounterVec
}

// NewMetrics registers all collectors in a private registry so repeated
// construction in tests never collides.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		leadsRouted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadrouter_leads_routed_total",
				Help: "Leads assigned to a rep by the routing pipeline, by routing method.",
			},
			[]string{"method"},
		),
		pipelineDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leadrouter_pipeline_duration_seconds",
				Help:    "Duration of one routing pipeline run.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		collaboratorFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadrouter_collaborator_failures_total",
				Help: "Best-effort collaborator calls that failed.",
			},
			[]string{"collaborator"},
		),
		statusTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadrouter_status_transitions_total",
				Help: "Lead status transitions, by target status.",
			},
			[]string{"to"},
		),
		leadsStaled: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "leadrouter_leads_staled_total",
				Help: "Leads moved to STALE by stale detection.",
			},
		),
		skippedRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadrouter_pipeline_skipped_total",
				Help: "Pipeline runs skipped because the lead was claimed or already routed.",
			},
			[]string{"reason"},
		),
	}
}

// RecordRouted records a finished pipeline run.
func (m *Metrics) RecordRouted(method string, d time.Duration) {
	if m == nil {
		return
	}
	m.leadsRouted.WithLabelValues(method).Inc()
	m.pipelineDuration.WithLabelValues(method).Observe(d.Seconds())
}

// RecordCollaboratorFailure counts a failed best-effort call.
func (m *Metrics) RecordCollaboratorFailure(collaborator string) {
	if m == nil {
		return
	}
	m.collaboratorFailures.WithLabelValues(collaborator).Inc()
}

// RecordTransition counts a status change into status to.
func (m *Metrics) RecordTransition(to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(to).Inc()
}

// RecordStaled adds n leads moved to STALE.
func (m *Metrics) RecordStaled(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.leadsStaled.Add(float64(n))
}

// RecordSkipped counts a pipeline run that did nothing.
func (m *Metrics) RecordSkipped(reason string) {
	if m == nil {
		return
	}
	m.skippedRuns.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Subscribe wires the metrics to routing and lifecycle events.
func (m *Metrics) Subscribe(bus events.Bus) {
	if m == nil {
		return
	}
	bus.Subscribe(events.LeadRouted{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		e, ok := event.(events.LeadRouted)
		if !ok {
			return nil
		}
		m.RecordRouted(e.Method, e.Duration)
		return nil
	}))
	bus.Subscribe(events.LeadStatusChanged{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		e, ok := event.(events.LeadStatusChanged)
		if !ok {
			return nil
		}
		m.RecordTransition(e.ToStatus)
		return nil
	}))
}
