// Package replay drives a spike generator tick by tick, standing in for
// the stepping runtime of a full simulation. It consumes the generator's
// read views and writes back the playback cursor and the spike space, the
// same contract an external emission loop would follow.
package replay

import (
	"math"

	"github.com/DHRUVJ2003/brian2/sim"
	"github.com/DHRUVJ2003/brian2/spikegen"
)

// A Stepper replays the schedule of one generator on the generator's own
// clock. BeforeRun must have succeeded on the generator before the first
// tick.
type Stepper struct {
	gen *spikegen.Comp
}

// NewStepper creates a Stepper that drives gen.
func NewStepper(gen *spikegen.Comp) *Stepper {
	return &Stepper{gen: gen}
}

// Tick emits the spikes that are due in the current timestep into the
// generator's spike space, advances the playback cursor, and steps the
// clock. A spike scheduled at time ts is due at the step that covers the
// window t-dt < ts <= t. It returns the neurons that spiked this tick.
func (s *Stepper) Tick() []int32 {
	clock := s.gen.Clock()
	dt := clock.DT()
	step := clock.TimeStep()

	times := s.gen.SpikeTime()
	cursor := s.gen.Cursor()

	if period := s.gen.Period(); !math.IsInf(float64(period), 1) {
		periodStep := sim.TimeStep(period, dt)
		step %= periodStep

		// The effective step went backwards past the last emitted
		// spike, so a new repetition of the schedule begins.
		if cursor > 0 && sim.TimeStep(times[cursor-1], dt) >= step {
			cursor = 0
		}
	}

	neurons := s.gen.NeuronIndex()
	space := s.gen.SpikeSpace()
	count := 0

	for cursor < len(times) && sim.TimeStep(times[cursor], dt) <= step {
		space[count] = neurons[cursor]
		count++
		cursor++
	}

	space[s.gen.N()] = int32(count)
	s.gen.SetCursor(cursor)
	clock.Step()

	return s.gen.Spikes()
}

// RunUntil ticks until the clock reaches time t. After every tick that
// emitted at least one spike, fn is called with the tick's time and the
// spiking neurons; fn may be nil.
func (s *Stepper) RunUntil(
	t sim.VTimeInSec,
	fn func(now sim.VTimeInSec, neurons []int32),
) {
	clock := s.gen.Clock()

	for clock.CurrentTime() < t {
		now := clock.CurrentTime()
		neurons := s.Tick()

		if fn != nil && len(neurons) > 0 {
			fn(now, neurons)
		}
	}
}
