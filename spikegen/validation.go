package spikegen

import (
	"fmt"
	"math"
	"sort"

	"github.com/DHRUVJ2003/brian2/sim"
)

// periodCheckHorizon bounds the sampled period-alignment check to the
// multiples of the period that fit into 1000 seconds. Like the bin shift,
// the horizon is part of the validation contract and must stay fixed.
const periodCheckHorizon = 1000.0

// checkArgs validates a raw schedule against the neuron count. The checks
// run in a fixed order and the first failure wins.
func checkArgs(
	indices []int32,
	times []sim.VTimeInSec,
	period sim.VTimeInSec,
	n int,
) error {
	if len(indices) != len(times) {
		return &ArgumentError{Reason: fmt.Sprintf(
			"length of the indices and times arrays must match, but %d != %d",
			len(indices), len(times))}
	}

	if period < 0 {
		return &ArgumentError{Reason: "the period cannot be negative"}
	} else if len(times) > 0 && period <= maxTime(times) {
		return &ArgumentError{Reason: "the period has to be greater than " +
			"the maximum of the spike times"}
	}

	if len(times) > 0 && minTime(times) < 0 {
		return &ArgumentError{Reason: "spike times cannot be negative"}
	}

	if len(indices) > 0 {
		for _, index := range indices {
			if index < 0 || index >= int32(n) {
				return &ArgumentError{Reason: fmt.Sprintf(
					"indices have to lie in the interval [0, %d)", n)}
			}
		}
	}

	return nil
}

func maxTime(times []sim.VTimeInSec) sim.VTimeInSec {
	max := times[0]
	for _, t := range times[1:] {
		if t > max {
			max = t
		}
	}
	return max
}

func minTime(times []sim.VTimeInSec) sim.VTimeInSec {
	min := times[0]
	for _, t := range times[1:] {
		if t < min {
			min = t
		}
	}
	return min
}

// spikeSorter sorts parallel index and time slices first by time, then by
// neuron index.
type spikeSorter struct {
	indices []int32
	times   []sim.VTimeInSec
}

func (s spikeSorter) Len() int {
	return len(s.indices)
}

func (s spikeSorter) Less(i, j int) bool {
	if s.times[i] != s.times[j] {
		return s.times[i] < s.times[j]
	}
	return s.indices[i] < s.indices[j]
}

func (s spikeSorter) Swap(i, j int) {
	s.indices[i], s.indices[j] = s.indices[j], s.indices[i]
	s.times[i], s.times[j] = s.times[j], s.times[i]
}

// setSchedule validates a raw schedule and, on success, installs it as the
// canonical one. No field changes unless every check passes.
func (c *Comp) setSchedule(
	indices []int32,
	times []sim.VTimeInSec,
	period sim.VTimeInSec,
	sorted bool,
) error {
	if err := checkArgs(indices, times, period, c.n); err != nil {
		return err
	}

	neuronIndex := make([]int32, len(indices))
	copy(neuronIndex, indices)
	spikeTime := make([]sim.VTimeInSec, len(times))
	copy(spikeTime, times)

	if !sorted {
		sort.Stable(spikeSorter{indices: neuronIndex, times: spikeTime})
	}

	spikeNumber := make([]int32, len(neuronIndex))
	for i := range spikeNumber {
		spikeNumber[i] = int32(i)
	}

	c.neuronIndex = neuronIndex
	c.spikeTime = spikeTime
	c.spikeNumber = spikeNumber
	c.period = period
	c.spikesChanged = true
	c.id = sim.GetIDGenerator().Generate()

	return nil
}

// validatePeriod checks that a finite period can be represented with the
// given dt.
//
// Exact divisibility cannot be tested under floating arithmetic, so the
// multiple check uses a sampled heuristic: every multiple of the period
// within the horizon must land on a bin that is a whole number of period
// bins. Pathological period/dt ratios beyond the horizon can slip through;
// that is a bounded, known limitation of the sampling, not something to
// tighten.
func (c *Comp) validatePeriod(dt sim.VTimeInSec) error {
	period := c.period

	if math.IsInf(float64(period), 1) {
		return nil
	}

	if period < dt {
		return &PeriodAlignmentError{
			Name:   c.name,
			Period: period,
			DT:     dt,
			Reason: "smaller than",
		}
	}

	if period < periodCheckHorizon {
		periodStep := sim.TimeStep(period, dt)
		nPeriods := int(periodCheckHorizon / float64(period))

		for k := 0; k < nPeriods; k++ {
			t := sim.VTimeInSec(k) * period
			if sim.TimeStep(t, dt)%periodStep != 0 {
				return &PeriodAlignmentError{
					Name:   c.name,
					Period: period,
					DT:     dt,
					Reason: "not an integer multiple of",
				}
			}
		}
	}

	return nil
}

// detectCollisions scans the schedule for two spikes of the same neuron in
// one timestep bin. The schedule is sorted by (time, neuron), so offending
// pairs are always adjacent and one pass suffices.
func (c *Comp) detectCollisions(dt sim.VTimeInSec) error {
	if len(c.spikeTime) == 0 {
		return nil
	}

	prevBin := sim.TimeStep(c.spikeTime[0], dt)
	for k := 1; k < len(c.spikeTime); k++ {
		bin := sim.TimeStep(c.spikeTime[k], dt)

		if bin == prevBin && c.neuronIndex[k] == c.neuronIndex[k-1] {
			return &CollisionError{
				Name:   c.name,
				Neuron: c.neuronIndex[k],
				Bin:    bin,
				DT:     dt,
			}
		}

		prevBin = bin
	}

	return nil
}
