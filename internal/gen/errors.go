package gen

import (
	"errors"
	"fmt"
)

// ConfigError represents invalid generator construction parameters.
//
// Configuration errors are raised at construction time, never at read time:
// once a node exists, Read cannot fail.
type ConfigError struct {
	// Node identifies the node kind being constructed ("bounded", "boxcar", ...).
	Node string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("GENERATOR_CONFIG: %s: %s", e.Node, e.Message)
}

// IsConfigError returns true if the error is a generator construction failure.
// Uses errors.As to handle wrapped errors.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

func newConfigError(node, format string, args ...any) *ConfigError {
	return &ConfigError{Node: node, Message: fmt.Sprintf(format, args...)}
}
