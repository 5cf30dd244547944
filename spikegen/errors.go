package spikegen

import (
	"fmt"

	"github.com/DHRUVJ2003/brian2/sim"
)

// A ConstructionError reports a neuron count that cannot form a group.
type ConstructionError struct {
	N int
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("N has to be an integer >= 1, got %d", e.N)
}

// An ArgumentError reports a raw schedule that failed validation before it
// was stored. The schedule of the generator is unchanged.
type ArgumentError struct {
	Reason string
}

func (e *ArgumentError) Error() string {
	return e.Reason
}

// A PeriodAlignmentError reports a repetition period that cannot be
// represented with the active timestep.
type PeriodAlignmentError struct {
	Name   string
	Period sim.VTimeInSec
	DT     sim.VTimeInSec
	Reason string
}

func (e *PeriodAlignmentError) Error() string {
	return fmt.Sprintf("the period of %s is %gs, which is %s its dt of %gs",
		e.Name, float64(e.Period), e.Reason, float64(e.DT))
}

// A CollisionError reports two spikes of the same neuron falling into the
// same timestep bin, which the stepping runtime cannot represent.
type CollisionError struct {
	Name   string
	Neuron int32
	Bin    int64
	DT     sim.VTimeInSec
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf(
		"using a dt of %gs, neuron %d of %s spikes more than once during a time step",
		float64(e.DT), e.Neuron, e.Name)
}
