package tracing

import (
	"github.com/DHRUVJ2003/brian2/sim"
	"github.com/DHRUVJ2003/brian2/spikegen"
)

// A traceHook is a hook that forwards generator lifecycle events to a
// tracer.
type traceHook struct {
	t Tracer
}

// Func calls the tracer interfaces when the hook is triggered.
func (h *traceHook) Func(ctx sim.HookCtx) {
	name := ctx.Domain.(NamedHookable).Name()

	switch ctx.Pos {
	case spikegen.HookPosScheduleReplaced:
		h.t.ScheduleReplaced(name, ctx.Item.(spikegen.ScheduleUpdate))
	case spikegen.HookPosRunStart:
		h.t.RunStarted(name, ctx.Item.(spikegen.RunStart))
	}
}
