package sim

// VTimeInSec defines the time in the simulated space in the unit of second
type VTimeInSec float64

// A Named object is an object that has a name.
type Named interface {
	// Name returns the name of the object.
	Name() string
}

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	CurrentTime() VTimeInSec
}
