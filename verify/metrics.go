package verify

import "github.com/prometheus/client_golang/prometheus"

// Pipeline stages used as the metric's terminal-stage label.
const (
	stageParse     = "parse"
	stageSubject   = "subject"
	stageAlgorithm = "algorithm"
	stageIssuer    = "issuer"
	stageTime      = "time"
	stageAddress   = "address"
	stageSignature = "signature"
	stageInternal  = "internal"
	stageOK        = "ok"
)

// Metrics counts verification outcomes by the stage the pipeline stopped
// at, plus swallowed enrichment failures. A nil *Metrics is a no-op, so
// instrumentation stays optional.
type Metrics struct {
	outcomes           *prometheus.CounterVec
	enrichmentFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sensespace",
			Subsystem: "token_verify",
			Name:      "outcomes_total",
			Help:      "Verification outcomes by terminal pipeline stage.",
		}, []string{"stage"}),
		enrichmentFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sensespace",
			Subsystem: "token_verify",
			Name:      "enrichment_failures_total",
			Help:      "Document fetches that failed after successful verification.",
		}),
	}
	reg.MustRegister(m.outcomes, m.enrichmentFailures)
	return m
}

func (m *Metrics) observe(stage string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(stage).Inc()
}

func (m *Metrics) observeEnrichmentFailure() {
	if m == nil {
		return
	}
	m.enrichmentFailures.Inc()
}
