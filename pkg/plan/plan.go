// Package plan describes the static set of named forms served by one
// controller. A Plan is an ordered list of entries; each entry is either a
// single form descriptor or a group of descriptors that validate together.
package plan

import (
	"net/url"
	"strings"

	"go.uber.org/multierr"

	"github.com/goliatone/go-multiform/pkg/form"
)

// SubmitSuffix is appended to an entry name to build its submission marker.
const SubmitSuffix = "_submit"

// SubmitName returns the submission marker for name.
func SubmitName(name string) string {
	return name + SubmitSuffix
}

// Descriptor declares one form: its name, the schema that builds instances,
// and static construction arguments.
type Descriptor struct {
	Name    string
	Schema  form.Schema
	Initial map[string]any
	Prefix  string
}

// Entry is a top-level plan entry. The concrete types are *SingleEntry and
// *GroupEntry; callers dispatch with a type switch.
type Entry interface {
	EntryName() string
	sealed()
}

// SingleEntry holds one independently submitted form.
type SingleEntry struct {
	Descriptor Descriptor
}

// EntryName returns the descriptor name.
func (e *SingleEntry) EntryName() string { return e.Descriptor.Name }

func (*SingleEntry) sealed() {}

// GroupEntry holds forms that share one submission marker and validate
// atomically.
type GroupEntry struct {
	Name  string
	Forms []Descriptor
}

// EntryName returns the group name.
func (e *GroupEntry) EntryName() string { return e.Name }

func (*GroupEntry) sealed() {}

// Single wraps a descriptor as a top-level entry.
func Single(d Descriptor) Entry {
	return &SingleEntry{Descriptor: d}
}

// Group builds a nested atomic group entry.
func Group(name string, forms ...Descriptor) Entry {
	return &GroupEntry{Name: name, Forms: append([]Descriptor(nil), forms...)}
}

// Plan is an ordered, validated collection of entries. The zero value is an
// empty plan and is rejected by every controller.
type Plan struct {
	entries []Entry
	index   map[string]int
}

// New validates entries and returns the plan. Every violation is reported;
// the returned error wraps one ConfigurationError per problem.
func New(entries ...Entry) (Plan, error) {
	if len(entries) == 0 {
		return Plan{}, configError("", "", "plan requires at least one entry")
	}

	var errs error
	index := make(map[string]int, len(entries))
	for i, entry := range entries {
		if entry == nil {
			errs = multierr.Append(errs, configError("", "", "plan entry is nil"))
			continue
		}
		name := entry.EntryName()
		if strings.TrimSpace(name) == "" {
			errs = multierr.Append(errs, configError("", "", "entry name is required"))
			continue
		}
		if _, exists := index[name]; exists {
			errs = multierr.Append(errs, configError("", name, "duplicate entry name"))
			continue
		}
		index[name] = i

		switch e := entry.(type) {
		case *SingleEntry:
			errs = multierr.Append(errs, validateDescriptor("", e.Descriptor))
		case *GroupEntry:
			errs = multierr.Append(errs, validateGroup(e))
		}
	}
	if errs != nil {
		return Plan{}, errs
	}

	return Plan{
		entries: append([]Entry(nil), entries...),
		index:   index,
	}, nil
}

// MustNew panics when the plan is invalid. Useful for init-time wiring.
func MustNew(entries ...Entry) Plan {
	p, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return p
}

func validateGroup(g *GroupEntry) error {
	if len(g.Forms) == 0 {
		return configError("", g.Name, "group requires at least one form")
	}
	var errs error
	seen := make(map[string]struct{}, len(g.Forms))
	for _, d := range g.Forms {
		if _, exists := seen[d.Name]; exists && d.Name != "" {
			errs = multierr.Append(errs, configError(g.Name, d.Name, "duplicate form name in group"))
			continue
		}
		seen[d.Name] = struct{}{}
		errs = multierr.Append(errs, validateDescriptor(g.Name, d))
	}
	return errs
}

func validateDescriptor(scope string, d Descriptor) error {
	if strings.TrimSpace(d.Name) == "" {
		return configError(scope, "", "form name is required")
	}
	if d.Schema == nil {
		return configError(scope, d.Name, "form schema is required")
	}
	return nil
}

// Entries returns the entries in declaration order.
func (p Plan) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// Names returns the top-level names in declaration order.
func (p Plan) Names() []string {
	names := make([]string, 0, len(p.entries))
	for _, entry := range p.entries {
		names = append(names, entry.EntryName())
	}
	return names
}

// Len reports the number of top-level entries.
func (p Plan) Len() int {
	return len(p.entries)
}

// Entry looks up a top-level entry by name.
func (p Plan) Entry(name string) (Entry, bool) {
	idx, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return p.entries[idx], true
}

// Flat reports whether the plan contains only single entries.
func (p Plan) Flat() bool {
	for _, entry := range p.entries {
		if _, ok := entry.(*SingleEntry); !ok {
			return false
		}
	}
	return true
}

// SubmitNames maps every top-level name to its submission marker.
func (p Plan) SubmitNames() map[string]string {
	out := make(map[string]string, len(p.entries))
	for _, entry := range p.entries {
		name := entry.EntryName()
		out[name] = SubmitName(name)
	}
	return out
}

// Match returns the first entry, in declaration order, whose submission
// marker is present in data. Later markers are ignored.
func (p Plan) Match(data url.Values) (Entry, bool) {
	if data == nil {
		return nil, false
	}
	for _, entry := range p.entries {
		if _, ok := data[SubmitName(entry.EntryName())]; ok {
			return entry, true
		}
	}
	return nil, false
}
