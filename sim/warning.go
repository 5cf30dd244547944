package sim

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// A WarningRegistry deduplicates advisory warnings. Each distinct key warns
// at most once for the lifetime of the registry, so a condition that holds
// run after run surfaces in the log a single time.
type WarningRegistry struct {
	mu     sync.Mutex
	logger *logrus.Logger
	seen   map[string]struct{}
}

var defaultWarningRegistry = NewWarningRegistry(nil)

// DefaultWarningRegistry returns the registry shared by components that are
// not given a dedicated one.
func DefaultWarningRegistry() *WarningRegistry {
	return defaultWarningRegistry
}

// NewWarningRegistry creates a WarningRegistry that emits through the given
// logger. A nil logger falls back to the logrus standard logger.
func NewWarningRegistry(logger *logrus.Logger) *WarningRegistry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &WarningRegistry{
		logger: logger,
		seen:   make(map[string]struct{}),
	}
}

// Warn emits a warning with the given fields unless the key has warned
// before. It reports whether the warning fired.
func (r *WarningRegistry) Warn(
	key string,
	fields logrus.Fields,
	format string,
	args ...interface{},
) bool {
	r.mu.Lock()
	if _, seen := r.seen[key]; seen {
		r.mu.Unlock()
		return false
	}
	r.seen[key] = struct{}{}
	r.mu.Unlock()

	r.logger.WithFields(fields).Warnf(format, args...)

	return true
}
