package spikegen

import (
	"log"

	"github.com/DHRUVJ2003/brian2/metrics"
	"github.com/DHRUVJ2003/brian2/sim"
)

// defaultDT is the timestep used when the builder is given neither a
// clock, a dt, nor a frequency.
const defaultDT sim.VTimeInSec = 1e-4

// Builder can build spike generator components.
type Builder struct {
	n        int
	indices  []int32
	times    []sim.VTimeInSec
	period   sim.VTimeInSec
	sorted   bool
	clock    *sim.Clock
	dt       sim.VTimeInSec
	freq     sim.Freq
	warnings *sim.WarningRegistry
	metrics  metrics.Sink
}

// MakeBuilder returns a new Builder
func MakeBuilder() Builder {
	return Builder{
		period: NoPeriod,
	}
}

// WithNeuronCount sets the number of neurons the generator addresses.
func (b Builder) WithNeuronCount(n int) Builder {
	b.n = n
	return b
}

// WithSpikes sets the raw spikes of the generator. The slices do not have
// to be sorted.
func (b Builder) WithSpikes(indices []int32, times []sim.VTimeInSec) Builder {
	b.indices = indices
	b.times = times
	return b
}

// WithSortedSpikes declares that the spikes given to WithSpikes are already
// sorted by (time, neuron). Sorting is skipped; the caller is responsible
// for the order being right.
func (b Builder) WithSortedSpikes() Builder {
	b.sorted = true
	return b
}

// WithPeriod sets the repetition period of the schedule.
func (b Builder) WithPeriod(period sim.VTimeInSec) Builder {
	b.period = period
	return b
}

// WithClock sets the clock of the generator. Cannot be combined with
// WithDT or WithFrequency.
func (b Builder) WithClock(clock *sim.Clock) Builder {
	b.clock = clock
	return b
}

// WithDT sets the timestep of the generator's own clock.
func (b Builder) WithDT(dt sim.VTimeInSec) Builder {
	b.dt = dt
	return b
}

// WithFrequency sets the timestep of the generator's own clock to the
// period of the given frequency.
func (b Builder) WithFrequency(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithWarningRegistry sets the registry that deduplicates the generator's
// warnings.
func (b Builder) WithWarningRegistry(registry *sim.WarningRegistry) Builder {
	b.warnings = registry
	return b
}

// WithMetricsSink sets the sink that counts the generator's lifecycle
// events.
func (b Builder) WithMetricsSink(sink metrics.Sink) Builder {
	b.metrics = sink
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.clock != nil && (b.dt != 0 || b.freq != 0) {
		log.Panic("dt or frequency cannot be set when a clock is given")
	}

	if b.dt != 0 && b.freq != 0 {
		log.Panic("dt and frequency cannot both be set")
	}
}

// Build builds a generator with the given name.
func (b Builder) Build(name string) (*Comp, error) {
	b.parametersMustBeValid()
	sim.NameMustBeValid(name)

	sink := b.metrics
	if sink == nil {
		sink = metrics.NoopSink{}
	}

	if b.n < 1 {
		sink.ValidationFailed(metrics.KindConstruction)
		return nil, &ConstructionError{N: b.n}
	}

	warnings := b.warnings
	if warnings == nil {
		warnings = sim.DefaultWarningRegistry()
	}

	c := &Comp{
		name:       name,
		n:          b.n,
		clock:      b.buildClock(),
		spikeSpace: make([]int32, b.n+1),
		warnings:   warnings,
		metrics:    sink,
	}

	if err := c.setSchedule(b.indices, b.times, b.period, b.sorted); err != nil {
		sink.ValidationFailed(metrics.KindArgument)
		return nil, err
	}

	return c, nil
}

func (b Builder) buildClock() *sim.Clock {
	if b.clock != nil {
		return b.clock
	}

	dt := b.dt
	if b.freq != 0 {
		dt = b.freq.Period()
	}
	if dt == 0 {
		dt = defaultDT
	}

	return sim.NewClock(dt)
}
