package plan

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("multiform: configuration error")

// ConfigurationError reports a plan, route or hook setup problem. It is fatal
// to the request (or constructor) that hits it; nothing is defaulted.
type ConfigurationError struct {
	// Scope names the owning group for nested descriptors, empty otherwise.
	Scope  string
	Name   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Scope != "" && e.Name != "":
		return fmt.Sprintf("multiform: %s.%s: %s", e.Scope, e.Name, e.Reason)
	case e.Name != "":
		return fmt.Sprintf("multiform: %s: %s", e.Name, e.Reason)
	default:
		return "multiform: " + e.Reason
	}
}

// Is lets errors.Is(err, ErrConfiguration) match.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configError(scope, name, reason string) error {
	return &ConfigurationError{Scope: scope, Name: name, Reason: reason}
}
