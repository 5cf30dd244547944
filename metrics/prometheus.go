package metrics

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink implements Sink using the Prometheus client library.
// All methods are non-blocking and fire-and-forget.
// Registration errors are logged but never propagated.
type PrometheusSink struct {
	runsStartedTotal        prometheus.Counter
	replacementsTotal       prometheus.Counter
	scheduleSize            prometheus.Gauge
	spikesSkippedTotal      prometheus.Counter
	validationFailuresTotal *prometheus.CounterVec
}

// NewPrometheusSink creates a new Prometheus metrics sink. Collectors that
// fail to register still count, they just stay unexposed.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{}

	s.runsStartedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spikegen_runs_started_total",
		Help: "Total number of run-start validations that completed.",
	})
	s.replacementsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spikegen_schedule_replacements_total",
		Help: "Total number of schedule replacements.",
	})
	s.scheduleSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "spikegen_schedule_size",
		Help: "Number of spikes in the most recently installed schedule.",
	})
	s.spikesSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spikegen_spikes_skipped_total",
		Help: "Total number of spikes skipped at run start for lying before the start time.",
	})
	s.validationFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "spikegen_validation_failures_total",
		Help: "Total number of failed validations by kind.",
	}, []string{"kind"})

	s.register(reg, s.runsStartedTotal, "spikegen_runs_started_total")
	s.register(reg, s.replacementsTotal, "spikegen_schedule_replacements_total")
	s.register(reg, s.scheduleSize, "spikegen_schedule_size")
	s.register(reg, s.spikesSkippedTotal, "spikegen_spikes_skipped_total")
	s.register(reg, s.validationFailuresTotal, "spikegen_validation_failures_total")

	return s
}

// register attempts to register a collector, logging any errors without
// propagating them.
func (s *PrometheusSink) register(
	reg prometheus.Registerer,
	c prometheus.Collector,
	name string,
) {
	if err := reg.Register(c); err != nil {
		log.Printf("metrics: failed to register %s: %v", name, err)
	}
}

func (s *PrometheusSink) RunStarted() {
	s.runsStartedTotal.Inc()
}

func (s *PrometheusSink) ScheduleReplaced(numSpikes int) {
	s.replacementsTotal.Inc()
	s.scheduleSize.Set(float64(numSpikes))
}

func (s *PrometheusSink) SpikesSkipped(n int) {
	s.spikesSkippedTotal.Add(float64(n))
}

func (s *PrometheusSink) ValidationFailed(kind string) {
	s.validationFailuresTotal.WithLabelValues(kind).Inc()
}
