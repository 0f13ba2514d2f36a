package controller

import (
	"errors"
	"slices"
	"strings"

	"github.com/goliatone/go-multiform/pkg/plan"
)

// ConfigurationError aliases plan.ConfigurationError so callers can match
// configuration problems without importing pkg/plan.
type ConfigurationError = plan.ConfigurationError

// ErrConfiguration is matched by every ConfigurationError.
var ErrConfiguration = plan.ErrConfiguration

// ErrMethodNotAllowed is returned for verbs other than GET, HEAD, POST and PUT.
var ErrMethodNotAllowed = errors.New("controller: method not allowed")

// AllowedMethods lists the verbs every controller accepts.
var AllowedMethods = []string{"GET", "HEAD", "POST", "PUT"}

// MethodOther labels every verb outside AllowedMethods.
const MethodOther = "other"

// MethodLabel normalises method for logs and metrics: an allowed verb in
// upper case, MethodOther for anything else.
func MethodLabel(method string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	if slices.Contains(AllowedMethods, method) {
		return method
	}
	return MethodOther
}
