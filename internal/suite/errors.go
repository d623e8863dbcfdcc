// internal/suite/errors.go
package suite

import (
	"errors"
	"fmt"
)

// ConfigError is a fatal, suite-level configuration fault: unknown recipe
// name, empty model_params, malformed shape tuple, unknown shape-group kind,
// and the like. It is surfaced before any job runs, so a bad configuration
// never produces partial measurements.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Reason
}

// NewConfigError builds a ConfigError from a format string.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is (or wraps) a suite-level
// configuration fault.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
