// Package spikegen provides a generator component that feeds a fixed table
// of (neuron, time) spike events into a discrete-timestep simulation. The
// generator normalizes raw spike lists into a canonical sorted schedule,
// validates the schedule against the active timestep, and maintains the
// playback index from which the stepping runtime resumes replay at the
// start of each run.
package spikegen

import (
	"log"
	"math"
	"sort"

	"github.com/DHRUVJ2003/brian2/metrics"
	"github.com/DHRUVJ2003/brian2/sim"
	"github.com/sirupsen/logrus"
)

// NoPeriod marks a schedule that never repeats.
var NoPeriod = sim.VTimeInSec(math.Inf(1))

// HookPosScheduleReplaced is triggered after a successful schedule
// replacement. The hook Item is a ScheduleUpdate.
var HookPosScheduleReplaced = &sim.HookPos{Name: "ScheduleReplaced"}

// HookPosRunStart is triggered after run-start validation succeeds. The
// hook Item is a RunStart.
var HookPosRunStart = &sim.HookPos{Name: "RunStart"}

// A ScheduleUpdate describes a schedule replacement.
type ScheduleUpdate struct {
	ScheduleID string
	NumSpikes  int
	Period     sim.VTimeInSec
}

// A RunStart describes a completed run-start validation.
type RunStart struct {
	ScheduleID string
	Now        sim.VTimeInSec
	DT         sim.VTimeInSec
	Cursor     int
	Skipped    int
}

// A Comp generates spikes at scheduled times.
//
// The component owns the canonical schedule: parallel neuronIndex and
// spikeTime slices sorted ascending by (time, neuron). Every mutation goes
// through full argument validation and marks the schedule dirty; BeforeRun
// re-establishes the bin-level invariants before the stepping runtime is
// allowed to read the schedule.
type Comp struct {
	sim.HookableBase

	name  string
	id    string
	n     int
	clock *sim.Clock

	neuronIndex []int32
	spikeTime   []sim.VTimeInSec
	spikeNumber []int32
	period      sim.VTimeInSec

	// lastCheckedDT remembers the dt used for the latest collision check,
	// so that runs with an unchanged dt do not repeat the scan. Zero means
	// the bins were never checked.
	lastCheckedDT sim.VTimeInSec
	spikesChanged bool

	cursor     int
	spikeSpace []int32

	warnings *sim.WarningRegistry
	metrics  metrics.Sink
}

// Name returns the name of the generator.
func (c *Comp) Name() string {
	return c.name
}

// N returns the number of neurons the generator can address.
func (c *Comp) N() int {
	return c.n
}

// Clock returns the clock that the generator reads time and dt from.
func (c *Comp) Clock() *sim.Clock {
	return c.clock
}

// ScheduleID identifies the current schedule. Every replacement gets a
// fresh ID.
func (c *Comp) ScheduleID() string {
	return c.id
}

// NeuronIndex returns the neuron of each scheduled spike, sorted together
// with SpikeTime. The returned slice must not be modified.
func (c *Comp) NeuronIndex() []int32 {
	return c.neuronIndex
}

// SpikeTime returns the time of each scheduled spike in ascending order.
// The returned slice must not be modified.
func (c *Comp) SpikeTime() []sim.VTimeInSec {
	return c.spikeTime
}

// SpikeNumber returns the positional handle of each scheduled spike,
// 0..NumSpikes-1 in schedule order.
func (c *Comp) SpikeNumber() []int32 {
	return c.spikeNumber
}

// NumSpikes returns the number of scheduled spikes.
func (c *Comp) NumSpikes() int {
	return len(c.spikeTime)
}

// Period returns the repetition period, or NoPeriod if the schedule does
// not repeat.
func (c *Comp) Period() sim.VTimeInSec {
	return c.period
}

// Cursor returns the index of the first spike that has not been emitted in
// the current run.
func (c *Comp) Cursor() int {
	return c.cursor
}

// SetCursor moves the playback cursor. It is called by the stepping runtime
// as spikes are emitted; the value must stay within [0, NumSpikes].
func (c *Comp) SetCursor(i int) {
	if i < 0 || i > len(c.spikeTime) {
		log.Panic("cursor out of range")
	}

	c.cursor = i
}

// SpikeSpace returns the scratch buffer the stepping runtime fills with the
// neurons that spiked in the most recent timestep. The buffer has length
// N+1; positions [0, count) hold the spiking neurons and the last position
// holds count.
func (c *Comp) SpikeSpace() []int32 {
	return c.spikeSpace
}

// Spikes returns the neurons that spiked in the most recent timestep, the
// filled prefix of SpikeSpace.
func (c *Comp) Spikes() []int32 {
	return c.spikeSpace[:c.spikeSpace[c.n]]
}

// SetSpikes replaces the schedule of the generator.
//
// The raw spikes go through the same validation as at construction, against
// the existing neuron count. On success the canonical schedule, the period,
// and the spike numbering are swapped atomically and the schedule is marked
// dirty; the playback cursor is not touched until the next BeforeRun. On
// failure the generator is left unchanged.
func (c *Comp) SetSpikes(
	indices []int32,
	times []sim.VTimeInSec,
	period sim.VTimeInSec,
	sorted bool,
) error {
	if err := c.setSchedule(indices, times, period, sorted); err != nil {
		c.metrics.ValidationFailed(metrics.KindArgument)
		return err
	}

	c.metrics.ScheduleReplaced(len(c.spikeTime))

	if c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosScheduleReplaced,
			Item: ScheduleUpdate{
				ScheduleID: c.id,
				NumSpikes:  len(c.spikeTime),
				Period:     c.period,
			},
		})
	}

	return nil
}

// BeforeRun validates the schedule against the clock's current dt and
// prepares the playback cursor. It must be called before any stepping
// occurs, at the start of every run.
//
// The period check runs every time. If the schedule changed since the last
// run, the cursor is recomputed from the current time and spikes that lie
// in the past are skipped with a single warning. If the schedule changed or
// dt differs from the last checked value, the collision scan re-runs; only
// after it passes is the schedule considered clean for this dt.
func (c *Comp) BeforeRun() error {
	now := c.clock.CurrentTime()
	dt := c.clock.DT()

	if err := c.validatePeriod(dt); err != nil {
		c.metrics.ValidationFailed(metrics.KindPeriod)
		return err
	}

	skipped := 0
	if c.spikesChanged {
		skipped = c.recomputeCursor(now, dt)
	}

	if c.lastCheckedDT == 0 || dt != c.lastCheckedDT || c.spikesChanged {
		if err := c.detectCollisions(dt); err != nil {
			c.metrics.ValidationFailed(metrics.KindCollision)
			return err
		}

		c.lastCheckedDT = dt
		c.spikesChanged = false
	}

	c.metrics.RunStarted()
	if skipped > 0 {
		c.metrics.SpikesSkipped(skipped)
	}

	if c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosRunStart,
			Item: RunStart{
				ScheduleID: c.id,
				Now:        now,
				DT:         dt,
				Cursor:     c.cursor,
				Skipped:    skipped,
			},
		})
	}

	return nil
}

// recomputeCursor finds the first spike at or after the current timestep.
// Spikes before it are not errors, but they can never be emitted in this
// run; their count is reported once per schedule.
func (c *Comp) recomputeCursor(now, dt sim.VTimeInSec) int {
	currentStep := sim.TimeStep(now, dt)

	cursor := sort.Search(len(c.spikeTime), func(i int) bool {
		return sim.TimeStep(c.spikeTime[i], dt) >= currentStep
	})
	c.cursor = cursor

	if cursor == 0 {
		return 0
	}

	c.warnings.Warn(
		c.id+"/ignored_spikes",
		logrus.Fields{
			"generator": c.name,
			"count":     cursor,
			"start":     float64(now),
		},
		"%s contains %d spike times earlier than the start time of the "+
			"current run (t = %gs), these spikes will be ignored",
		c.name, cursor, float64(now),
	)

	return cursor
}
