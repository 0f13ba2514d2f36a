package controller

import (
	"context"
	"maps"
	"slices"
	"strings"

	"go.uber.org/multierr"

	"github.com/goliatone/go-multiform/pkg/form"
	"github.com/goliatone/go-multiform/pkg/plan"
)

// FormHook runs after a single form validated (or failed to). Returning a
// non-nil Result short-circuits the default redirect or re-render.
type FormHook func(ctx context.Context, f form.Form) (Result, error)

// GroupHook is the FormHook counterpart for atomic sets of forms.
type GroupHook func(ctx context.Context, forms FormSet) (Result, error)

// Kwargs overrides static construction arguments for one form. A nil Initial
// or empty Prefix leaves the descriptor value in place.
type Kwargs struct {
	Initial map[string]any
	Prefix  string
}

// KwargsHook computes per-request construction arguments for one form.
type KwargsHook func(ctx context.Context, req Request) (Kwargs, error)

// SuccessURLHook computes a redirect target. An empty target defers to the
// static route table.
type SuccessURLHook func(ctx context.Context) (string, error)

// Hooks is a name-keyed registry of optional callbacks. Register hooks while
// configuring; controllers take a copy at construction time.
type Hooks struct {
	formValid    map[string]FormHook
	formInvalid  map[string]FormHook
	formsValid   map[string]GroupHook
	formsInvalid map[string]GroupHook
	kwargs       map[string]KwargsHook
	successURL   map[string]SuccessURLHook
}

// NewHooks returns an empty registry.
func NewHooks() *Hooks {
	return &Hooks{}
}

// OnFormValid registers the hook run when the single form name validates.
func (h *Hooks) OnFormValid(name string, fn FormHook) *Hooks {
	h.formValid = setHook(h.formValid, name, fn)
	return h
}

// OnFormInvalid registers the hook run when the single form name fails.
func (h *Hooks) OnFormInvalid(name string, fn FormHook) *Hooks {
	h.formInvalid = setHook(h.formInvalid, name, fn)
	return h
}

// OnFormsValid registers the hook run when every form of group name validates.
func (h *Hooks) OnFormsValid(name string, fn GroupHook) *Hooks {
	h.formsValid = setHook(h.formsValid, name, fn)
	return h
}

// OnFormsInvalid registers the hook run when group name fails.
func (h *Hooks) OnFormsInvalid(name string, fn GroupHook) *Hooks {
	h.formsInvalid = setHook(h.formsInvalid, name, fn)
	return h
}

// FormKwargs registers per-request construction arguments for form name.
func (h *Hooks) FormKwargs(name string, fn KwargsHook) *Hooks {
	h.kwargs = setHook(h.kwargs, name, fn)
	return h
}

// SuccessURL registers a redirect override for entry name.
func (h *Hooks) SuccessURL(name string, fn SuccessURLHook) *Hooks {
	h.successURL = setHook(h.successURL, name, fn)
	return h
}

func setHook[T any](m map[string]T, name string, fn T) map[string]T {
	name = strings.TrimSpace(name)
	if name == "" {
		return m
	}
	if m == nil {
		m = make(map[string]T)
	}
	m[name] = fn
	return m
}

func (h *Hooks) clone() *Hooks {
	if h == nil {
		return &Hooks{}
	}
	return &Hooks{
		formValid:    maps.Clone(h.formValid),
		formInvalid:  maps.Clone(h.formInvalid),
		formsValid:   maps.Clone(h.formsValid),
		formsInvalid: maps.Clone(h.formsInvalid),
		kwargs:       maps.Clone(h.kwargs),
		successURL:   maps.Clone(h.successURL),
	}
}

func lookup[T any](m map[string]T, name string) (T, bool) {
	fn, ok := m[name]
	return fn, ok
}

// validate reports every hook whose name does not fit p. Kwargs hooks are
// keyed on form names, group members included; result and success hooks on
// top-level names of the matching entry kind. Atomic controllers take their
// result and success callbacks from AtomicConfig, so only kwargs hooks are
// accepted there.
func (h *Hooks) validate(p plan.Plan, atomic bool) error {
	if h == nil {
		return nil
	}
	singles := make(map[string]struct{})
	groups := make(map[string]struct{})
	forms := make(map[string]struct{})
	for _, entry := range p.Entries() {
		switch e := entry.(type) {
		case *plan.SingleEntry:
			singles[e.Descriptor.Name] = struct{}{}
			forms[e.Descriptor.Name] = struct{}{}
		case *plan.GroupEntry:
			groups[e.Name] = struct{}{}
			for _, d := range e.Forms {
				forms[d.Name] = struct{}{}
			}
		}
	}

	var errs error
	for _, name := range sortedKeys(h.kwargs) {
		if _, ok := forms[name]; !ok {
			errs = multierr.Append(errs, hookError("FormKwargs", name, "no form with this name"))
		}
	}

	if atomic {
		unused := map[string][]string{
			"OnFormValid":    sortedKeys(h.formValid),
			"OnFormInvalid":  sortedKeys(h.formInvalid),
			"OnFormsValid":   sortedKeys(h.formsValid),
			"OnFormsInvalid": sortedKeys(h.formsInvalid),
			"SuccessURL":     sortedKeys(h.successURL),
		}
		for _, kind := range sortedKeys(unused) {
			for _, name := range unused[kind] {
				errs = multierr.Append(errs, hookError(kind, name, "atomic controllers only use kwargs hooks"))
			}
		}
		return errs
	}

	formHooks := map[string][]string{
		"OnFormValid":   sortedKeys(h.formValid),
		"OnFormInvalid": sortedKeys(h.formInvalid),
	}
	for _, kind := range sortedKeys(formHooks) {
		for _, name := range formHooks[kind] {
			errs = multierr.Append(errs, entryHookError(kind, name, singles, groups, "registered on a group entry"))
		}
	}
	groupHooks := map[string][]string{
		"OnFormsInvalid": sortedKeys(h.formsInvalid),
		"OnFormsValid":   sortedKeys(h.formsValid),
	}
	for _, kind := range sortedKeys(groupHooks) {
		for _, name := range groupHooks[kind] {
			errs = multierr.Append(errs, entryHookError(kind, name, groups, singles, "registered on a single entry"))
		}
	}
	for _, name := range sortedKeys(h.successURL) {
		_, single := singles[name]
		_, group := groups[name]
		if !single && !group {
			errs = multierr.Append(errs, hookError("SuccessURL", name, "no entry with this name"))
		}
	}
	return errs
}

func entryHookError(kind, name string, want, other map[string]struct{}, mismatch string) error {
	if _, ok := want[name]; ok {
		return nil
	}
	if _, ok := other[name]; ok {
		return hookError(kind, name, mismatch)
	}
	return hookError(kind, name, "no entry with this name")
}

func hookError(kind, name, reason string) error {
	return &ConfigurationError{Name: name, Reason: kind + " hook " + reason}
}

func sortedKeys[T any](m map[string]T) []string {
	return slices.Sorted(maps.Keys(m))
}
