// Package metrics defines the instrumentation points of the spike
// generator and the sinks that count them.
package metrics

// Sink defines the interface for recording generator metrics.
// All methods are fire-and-forget: implementations must not block or
// propagate errors.
type Sink interface {
	// RunStarted counts a run-start validation that completed.
	RunStarted()

	// ScheduleReplaced counts a schedule replacement and records the new
	// schedule size.
	ScheduleReplaced(numSpikes int)

	// SpikesSkipped counts spikes skipped at run start for lying before
	// the run's start time.
	SpikesSkipped(n int)

	// ValidationFailed counts a failed validation by kind.
	ValidationFailed(kind string)
}

// Kind constants for the ValidationFailed metric.
const (
	KindConstruction = "construction"
	KindArgument     = "argument"
	KindPeriod       = "period"
	KindCollision    = "collision"
)
