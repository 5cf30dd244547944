package tracing

import "github.com/DHRUVJ2003/brian2/spikegen"

// A Tracer reacts to the lifecycle events of a spike generator.
type Tracer interface {
	// ScheduleReplaced is called after a generator swapped in a new
	// schedule.
	ScheduleReplaced(generator string, update spikegen.ScheduleUpdate)

	// RunStarted is called after a generator passed run-start validation.
	RunStarted(generator string, start spikegen.RunStart)
}
