package testsupport

import (
	"strings"
	"sync"

	"github.com/goliatone/go-multiform/pkg/form"
)

// Schema builds Forms that are valid when every required field carries a
// non-empty value in the submitted data (read through the form prefix). It
// records the arguments of every construction so tests can assert on
// binding decisions.
type Schema struct {
	required []string

	mu    sync.Mutex
	calls []form.Args
}

var _ form.Schema = (*Schema)(nil)

// RequireFields returns a Schema requiring fields.
func RequireFields(fields ...string) *Schema {
	return &Schema{required: append([]string(nil), fields...)}
}

// NewForm implements form.Schema.
func (s *Schema) NewForm(args form.Args) form.Form {
	s.mu.Lock()
	s.calls = append(s.calls, args)
	s.mu.Unlock()
	return &Form{Args: args, required: s.required}
}

// Calls returns the recorded construction arguments.
func (s *Schema) Calls() []form.Args {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]form.Args(nil), s.calls...)
}

// LastCall returns the most recent construction arguments.
func (s *Schema) LastCall() (form.Args, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return form.Args{}, false
	}
	return s.calls[len(s.calls)-1], true
}

// Form is the instance built by Schema.
type Form struct {
	Args     form.Args
	required []string

	validated bool
	errors    map[string][]string
	// Validations counts how many times validation actually ran.
	Validations int
}

var _ form.Form = (*Form)(nil)

// IsBound implements form.Form.
func (f *Form) IsBound() bool {
	return f.Args.Bound()
}

// IsValid implements form.Form.
func (f *Form) IsValid() bool {
	if !f.IsBound() {
		return false
	}
	f.validate()
	return len(f.errors) == 0
}

// Errors implements form.Form.
func (f *Form) Errors() map[string][]string {
	if !f.IsBound() {
		return nil
	}
	f.validate()
	return f.errors
}

func (f *Form) validate() {
	if f.validated {
		return
	}
	f.validated = true
	f.Validations++
	for _, field := range f.required {
		value := f.Args.Data.Get(form.HTMLName(f.Args.Prefix, field))
		if strings.TrimSpace(value) != "" {
			continue
		}
		if f.errors == nil {
			f.errors = make(map[string][]string)
		}
		f.errors[field] = append(f.errors[field], "This field is required.")
	}
}
