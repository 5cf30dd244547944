package sim

import (
	"log"
	"math"
)

// timeStepShift nudges a time toward the next bin before truncating, so that
// a time that is an exact multiple of dt is never pushed into the previous
// bin by floating-point rounding. The nudge is three orders of magnitude
// smaller than dt, far below anything a legitimate spike time can resolve.
//
// The value is part of the discretization contract. Changing it silently
// re-bins recorded schedules, so it must stay fixed.
const timeStepShift = 1e-3

// TimeStep converts a time to the index of the dt-sized bin that contains
// it. The conversion truncates after the shift, so TimeStep(k*dt, dt) == k
// holds even when k*dt cannot be represented exactly.
//
// For dt values below roughly 1e-10 seconds or times beyond 1e10 seconds
// the shift can no longer compensate for representation error and bins may
// be off by one.
func TimeStep(t, dt VTimeInSec) int64 {
	if dt <= 0 {
		log.Panic("dt must be positive")
	}

	if math.IsNaN(float64(t)) {
		log.Panic("invalid time")
	}

	return int64((float64(t) + timeStepShift*float64(dt)) / float64(dt))
}
