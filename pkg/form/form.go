package form

import (
	"mime/multipart"
	"net/url"
)

// Args carries the construction arguments for a single form instance. Data
// and Files come from the request and are only populated when the form is
// being submitted; Initial and Prefix come from static configuration.
type Args struct {
	Data    url.Values
	Files   map[string][]*multipart.FileHeader
	Initial map[string]any
	Prefix  string
}

// Bound reports whether the arguments carry submitted data.
func (a Args) Bound() bool {
	return a.Data != nil
}

// Form is a request-scoped form instance. Implementations own their
// validated data and error state and are never shared across requests.
type Form interface {
	// IsBound reports whether the form was constructed with submitted data.
	IsBound() bool
	// IsValid validates the form on first call. Unbound forms are never valid.
	IsValid() bool
	// Errors returns field errors keyed by field name. Form-level messages use
	// the NonFieldErrors key.
	Errors() map[string][]string
}

// Schema constructs form instances. Construction never fails: malformed
// input yields an invalid Form.
type Schema interface {
	NewForm(args Args) Form
}

// SchemaFunc adapts a function into a Schema.
type SchemaFunc func(args Args) Form

// NewForm calls the underlying function.
func (fn SchemaFunc) NewForm(args Args) Form {
	return fn(args)
}

// NonFieldErrors keys form-level messages in Form.Errors.
const NonFieldErrors = "__all__"

// FieldState is a render-ready snapshot of one field.
type FieldState struct {
	Name     string
	HTMLName string
	Label    string
	Type     string
	Required bool
	Value    string
	Errors   []string
}

// Describer is implemented by forms that can list their fields for
// rendering or interactive prompting.
type Describer interface {
	Fields() []FieldState
}
