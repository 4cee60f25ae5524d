package form

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-formkit/pkg/validation"
)

const defaultNamespace = "formkit"

// Metrics holds the Prometheus collectors for form submissions. A nil *Metrics
// records nothing.
type Metrics struct {
	submissions        *prometheus.CounterVec
	completions        *prometheus.CounterVec
	duration           prometheus.Histogram
	validationFailures *prometheus.CounterVec
}

// NewMetrics registers the form collectors on reg. A nil registerer uses the
// Prometheus default; an empty namespace uses "formkit".
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	factory := promauto.With(reg)

	return &Metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submit requests by result (accepted, rejected, ignored)",
		}, []string{"result"}),

		completions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Acknowledged submissions by outcome",
		}, []string{"outcome"}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time from accepted submit to acknowledgement",
			Buckets:   prometheus.DefBuckets,
		}),

		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Field validation failures seen on submit attempts",
		}, []string{"field", "kind"}),
	}
}

func (m *Metrics) observeSubmit(result SubmitStatus) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result.String()).Inc()
}

func (m *Metrics) observeIssues(issues []validation.Issue) {
	if m == nil {
		return
	}
	for _, issue := range issues {
		m.validationFailures.WithLabelValues(issue.Field, issue.Kind).Inc()
	}
}

func (m *Metrics) observeOutcome(outcome Outcome) {
	if m == nil {
		return
	}
	label := "success"
	switch {
	case outcome.Discarded:
		label = "discarded"
	case outcome.Err != nil:
		label = "failure"
	}
	m.completions.WithLabelValues(label).Inc()
	if !outcome.Discarded {
		m.duration.Observe(outcome.Finished.Sub(outcome.Started).Seconds())
	}
}
