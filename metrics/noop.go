package metrics

// NoopSink is a no-op implementation of Sink.
// Used when metrics are disabled to avoid nil checks.
type NoopSink struct{}

func (NoopSink) RunStarted() {}

func (NoopSink) ScheduleReplaced(numSpikes int) {}

func (NoopSink) SpikesSkipped(n int) {}

func (NoopSink) ValidationFailed(kind string) {}
