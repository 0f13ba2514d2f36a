package controller

import "github.com/goliatone/go-multiform/pkg/form"

// FormSet is an ordered name → form mapping. Atomic controllers hand the
// whole plan to their hooks as a FormSet; hybrid groups use one per group.
type FormSet struct {
	names []string
	forms map[string]form.Form
}

func (s *FormSet) add(name string, f form.Form) {
	if s.forms == nil {
		s.forms = make(map[string]form.Form)
	}
	s.names = append(s.names, name)
	s.forms[name] = f
}

// Get returns the form registered under name.
func (s FormSet) Get(name string) (form.Form, bool) {
	f, ok := s.forms[name]
	return f, ok
}

// Names returns the form names in plan order.
func (s FormSet) Names() []string {
	return append([]string(nil), s.names...)
}

// Len reports the number of forms.
func (s FormSet) Len() int {
	return len(s.names)
}

// AllValid validates every form and reports whether all passed. Every form
// is asked, so each one carries its own errors afterwards.
func (s FormSet) AllValid() bool {
	valid := true
	for _, name := range s.names {
		if !s.forms[name].IsValid() {
			valid = false
		}
	}
	return valid
}

// Bound is the request-scoped counterpart of a plan entry: Form is set for
// single entries, Group for group entries.
type Bound struct {
	Name  string
	Form  form.Form
	Group *FormSet
}

// IsGroup reports whether the entry is a group.
func (b Bound) IsGroup() bool {
	return b.Group != nil
}

// Forms mirrors the plan shape for one request.
type Forms struct {
	entries []Bound
	index   map[string]int
}

func (f *Forms) add(b Bound) {
	if f.index == nil {
		f.index = make(map[string]int)
	}
	f.index[b.Name] = len(f.entries)
	f.entries = append(f.entries, b)
}

// Entries returns the bound entries in plan order.
func (f Forms) Entries() []Bound {
	return append([]Bound(nil), f.entries...)
}

// Names returns the top-level names in plan order.
func (f Forms) Names() []string {
	names := make([]string, 0, len(f.entries))
	for _, b := range f.entries {
		names = append(names, b.Name)
	}
	return names
}

// Get returns the bound entry named name.
func (f Forms) Get(name string) (Bound, bool) {
	idx, ok := f.index[name]
	if !ok {
		return Bound{}, false
	}
	return f.entries[idx], true
}

// Form returns the single form registered at the top level under name.
func (f Forms) Form(name string) (form.Form, bool) {
	b, ok := f.Get(name)
	if !ok || b.IsGroup() {
		return nil, false
	}
	return b.Form, true
}

// Group returns the group registered at the top level under name.
func (f Forms) Group(name string) (FormSet, bool) {
	b, ok := f.Get(name)
	if !ok || !b.IsGroup() {
		return FormSet{}, false
	}
	return *b.Group, true
}

// Set flattens top-level single forms into a FormSet. Groups are skipped.
func (f Forms) Set() FormSet {
	var set FormSet
	for _, b := range f.entries {
		if b.IsGroup() {
			continue
		}
		set.add(b.Name, b.Form)
	}
	return set
}
