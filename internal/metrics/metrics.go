package metrics

import (
	"Mudcheck/internal/calc/mudcheck"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts evaluated mud checks by zone and advisory flag.
type Recorder struct {
	evaluations *prometheus.CounterVec
	advisories  *prometheus.CounterVec
	missing     *prometheus.CounterVec
	batchSize   prometheus.Histogram
}

// NewRecorder registers the mud check collectors on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mudcheck",
			Name:      "evaluations_total",
			Help:      "Mud checks evaluated, by alkalinity zone.",
		}, []string{"zone"}),
		advisories: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mudcheck",
			Name:      "advisories_total",
			Help:      "Advisory flags raised, by flag.",
		}, []string{"flag"}),
		missing: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mudcheck",
			Name:      "missing_readings_total",
			Help:      "Readings evaluated as zero because they were not entered, by field.",
		}, []string{"field"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mudcheck",
			Name:      "batch_items",
			Help:      "Samples per batch evaluation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
		}),
	}
	reg.MustRegister(r.evaluations, r.advisories, r.missing, r.batchSize)
	return r
}

func (r *Recorder) ObserveReport(rep mudcheck.Report) {
	r.evaluations.WithLabelValues(string(rep.Species.Zone)).Inc()
	for _, f := range rep.Plan.Flags {
		r.advisories.WithLabelValues(string(f)).Inc()
	}
	for _, m := range rep.Missing {
		r.missing.WithLabelValues(m).Inc()
	}
}

func (r *Recorder) ObserveBatch(n int) {
	r.batchSize.Observe(float64(n))
}
