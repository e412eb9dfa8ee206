package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics - счетчики Prometheus для конвейера приема и оценки риска
type Metrics struct {
	IngestOutcomes     *prometheus.CounterVec
	GeocodeResolutions *prometheus.CounterVec
	Assessments        prometheus.Counter
	AlertsPublished    prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		IngestOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident_risk",
			Name:      "ingest_outcomes_total",
			Help:      "Ingest outcomes by kind: stored, exact_duplicate, near_duplicate, rejected.",
		}, []string{"outcome"}),
		GeocodeResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident_risk",
			Name:      "geocode_resolutions_total",
			Help:      "Location resolutions by winning method.",
		}, []string{"method"}),
		Assessments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_risk",
			Name:      "risk_assessments_total",
			Help:      "Completed risk assessments.",
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_risk",
			Name:      "alerts_published_total",
			Help:      "High-severity alert events queued for webhook delivery.",
		}),
	}
	reg.MustRegister(m.IngestOutcomes, m.GeocodeResolutions, m.Assessments, m.AlertsPublished)
	return m
}

// New регистрирует счетчики в глобальном реестре
func New() *Metrics {
	return newMetrics(prometheus.DefaultRegisterer)
}

// NewForTesting регистрирует счетчики в изолированном реестре,
// чтобы тесты не конфликтовали друг с другом
func NewForTesting() *Metrics {
	return newMetrics(prometheus.NewRegistry())
}
