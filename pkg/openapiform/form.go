package openapiform

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-multiform/pkg/form"
)

const (
	msgRequired = "This field is required."
	msgInteger  = "Enter a whole number."
	msgNumber   = "Enter a number."
)

// Form is a request-scoped instance of a Schema.
type Form struct {
	schema *Schema
	args   form.Args

	validated bool
	values    map[string]any
	errors    map[string][]string
}

var (
	_ form.Form      = (*Form)(nil)
	_ form.Describer = (*Form)(nil)
)

// IsBound implements form.Form.
func (f *Form) IsBound() bool {
	return f.args.Bound()
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

// Values returns the coerced document of a valid form.
func (f *Form) Values() (map[string]any, bool) {
	if !f.IsValid() {
		return nil, false
	}
	return maps.Clone(f.values), true
}

// Fields implements form.Describer.
func (f *Form) Fields() []form.FieldState {
	errs := f.Errors()
	out := make([]form.FieldState, 0, len(f.schema.properties))
	for _, p := range f.schema.properties {
		out = append(out, form.FieldState{
			Name:     p.name,
			HTMLName: form.HTMLName(f.args.Prefix, p.name),
			Label:    p.label,
			Type:     p.inputType,
			Required: p.required,
			Value:    f.value(p),
			Errors:   append([]string(nil), errs[p.name]...),
		})
	}
	return out
}

func (f *Form) value(p property) string {
	if f.IsBound() {
		return strings.Join(f.args.Data[form.HTMLName(f.args.Prefix, p.name)], ",")
	}
	if v, ok := f.args.Initial[p.name]; ok && v != nil {
		return fmt.Sprint(v)
	}
	if p.def != nil {
		return fmt.Sprint(p.def)
	}
	return ""
}

func (f *Form) validate() {
	if f.validated {
		return
	}
	f.validated = true
	f.values = make(map[string]any, len(f.schema.properties))

	for _, p := range f.schema.properties {
		raw, present := f.args.Data[form.HTMLName(f.args.Prefix, p.name)]
		value, ok, msg := coerce(p, raw, present)
		if msg != "" {
			f.addError(p.name, msg)
			continue
		}
		if ok {
			f.values[p.name] = value
		}
	}

	err := f.schema.schema.VisitJSON(jsonDocument(f.values), openapi3.MultiErrors())
	for _, schemaErr := range flatten(err) {
		f.addSchemaError(schemaErr)
	}
}

func (f *Form) addSchemaError(err error) {
	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		f.addError(form.NonFieldErrors, err.Error())
		return
	}
	pointer := schemaErr.JSONPointer()
	field := form.NonFieldErrors
	if len(pointer) > 0 {
		field = pointer[0]
	}
	if _, failed := f.errors[field]; failed && field != form.NonFieldErrors {
		return
	}
	if schemaErr.SchemaField == "required" {
		f.addError(field, msgRequired)
		return
	}
	f.addError(field, sentence(schemaErr.Reason))
}

func (f *Form) addError(key, msg string) {
	if f.errors == nil {
		f.errors = make(map[string][]string)
	}
	f.errors[key] = append(f.errors[key], msg)
}

// coerce converts submitted strings into the property's JSON type. Empty
// values are left out so "required" reports them.
func coerce(p property, raw []string, present bool) (any, bool, string) {
	if p.kind == openapi3.TypeBoolean {
		if !present {
			return false, true, ""
		}
		v := strings.ToLower(strings.TrimSpace(first(raw)))
		return v != "" && v != "0" && v != "false" && v != "off", true, ""
	}
	if p.kind == openapi3.TypeArray {
		var items []any
		for _, item := range raw {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, len(items) > 0, ""
	}

	v := strings.TrimSpace(first(raw))
	if v == "" {
		return nil, false, ""
	}
	switch p.kind {
	case openapi3.TypeInteger:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, false, msgInteger
		}
		return n, true, ""
	case openapi3.TypeNumber:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false, msgNumber
		}
		return n, true, ""
	default:
		return v, true, ""
	}
}

func flatten(err error) []error {
	if err == nil {
		return nil
	}
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var out []error
		for _, inner := range multi {
			out = append(out, flatten(inner)...)
		}
		return out
	}
	return []error{err}
}

// jsonDocument mirrors what encoding/json would decode: integers become
// float64.
func jsonDocument(values map[string]any) map[string]any {
	doc := make(map[string]any, len(values))
	for k, v := range values {
		if n, ok := v.(int64); ok {
			doc[k] = float64(n)
			continue
		}
		doc[k] = v
	}
	return doc
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func sentence(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "Enter a valid value."
	}
	reason = strings.ToUpper(reason[:1]) + reason[1:]
	if !strings.HasSuffix(reason, ".") {
		reason += "."
	}
	return reason
}
