package sim

import "log"

// A Clock tracks simulated time as an integer count of fixed-size timesteps.
// Keeping the count rather than a float time stops long runs from drifting:
// the current time is always step*dt, never an accumulated sum.
type Clock struct {
	dt   VTimeInSec
	step int64
}

// NewClock creates a Clock at time 0 with the given timestep size.
func NewClock(dt VTimeInSec) *Clock {
	if dt <= 0 {
		log.Panic("clock dt must be positive")
	}

	return &Clock{dt: dt}
}

// DT returns the timestep size.
func (c *Clock) DT() VTimeInSec {
	return c.dt
}

// SetDT changes the timestep size while preserving the wall position of the
// clock. The step count is re-derived from the current time, so the clock
// reads the same time before and after, up to dt granularity.
func (c *Clock) SetDT(dt VTimeInSec) {
	if dt <= 0 {
		log.Panic("clock dt must be positive")
	}

	now := c.CurrentTime()
	c.dt = dt
	c.step = TimeStep(now, dt)
}

// TimeStep returns the number of completed timesteps.
func (c *Clock) TimeStep() int64 {
	return c.step
}

// CurrentTime returns the simulated time, step*dt.
func (c *Clock) CurrentTime() VTimeInSec {
	return VTimeInSec(c.step) * c.dt
}

// Step advances the clock by one timestep.
func (c *Clock) Step() {
	c.step++
}

// SetTime moves the clock to the timestep that contains t.
func (c *Clock) SetTime(t VTimeInSec) {
	if t < 0 {
		log.Panic("clock time must not be negative")
	}

	c.step = TimeStep(t, c.dt)
}
