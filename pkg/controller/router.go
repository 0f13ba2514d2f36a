package controller

import (
	"context"
	"maps"
	"slices"
	"strings"

	"go.uber.org/multierr"
)

// SuccessRouter resolves redirect targets by entry name. A registered
// SuccessURL hook wins over the static table; a name with neither is a
// configuration error.
type SuccessRouter struct {
	routes    map[string]string
	overrides map[string]SuccessURLHook
}

// NewSuccessRouter builds a router from a static table and the SuccessURL
// hooks registered on hooks (which may be nil).
func NewSuccessRouter(routes map[string]string, hooks *Hooks) SuccessRouter {
	return SuccessRouter{
		routes:    maps.Clone(routes),
		overrides: hooks.clone().successURL,
	}
}

// Resolve returns the redirect target for name.
func (r SuccessRouter) Resolve(ctx context.Context, name string) (string, error) {
	if fn, ok := lookup(r.overrides, name); ok && fn != nil {
		target, err := fn(ctx)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(target) != "" {
			return target, nil
		}
	}
	if target := strings.TrimSpace(r.routes[name]); target != "" {
		return target, nil
	}
	return "", &ConfigurationError{Name: name, Reason: "no redirect target for name"}
}

// Validate reports every name that has neither an override nor a static
// route. Overrides are trusted to return a target; they are not invoked.
func (r SuccessRouter) Validate(names ...string) error {
	var errs error
	for _, name := range names {
		if fn, ok := lookup(r.overrides, name); ok && fn != nil {
			continue
		}
		if strings.TrimSpace(r.routes[name]) != "" {
			continue
		}
		errs = multierr.Append(errs, &ConfigurationError{Name: name, Reason: "no redirect target for name"})
	}
	return errs
}

// unknownRoutes reports static routes keyed on names outside names.
func (r SuccessRouter) unknownRoutes(names ...string) error {
	var errs error
	for _, key := range sortedKeys(r.routes) {
		if !slices.Contains(names, key) {
			errs = multierr.Append(errs, &ConfigurationError{Name: key, Reason: "success route for unknown entry"})
		}
	}
	return errs
}
