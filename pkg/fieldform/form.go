package fieldform

import (
	"fmt"
	"maps"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-multiform/pkg/form"
)

const (
	msgRequired = "This field is required."
	msgEmail    = "Enter a valid email address."
	msgInteger  = "Enter a whole number."
	msgPattern  = "Enter a valid value."
)

// Form is a request-scoped instance of a Schema.
type Form struct {
	schema *Schema
	args   form.Args

	validated bool
	cleaned   map[string]any
	errors    map[string][]string
}

var (
	_ form.Form      = (*Form)(nil)
	_ form.Describer = (*Form)(nil)
)

// Schema returns the schema the form was built from.
func (f *Form) Schema() *Schema {
	return f.schema
}

// Prefix returns the prefix applied to submitted keys.
func (f *Form) Prefix() string {
	return f.args.Prefix
}

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

// Errors implements form.Form. Unbound forms report no errors.
func (f *Form) Errors() map[string][]string {
	if !f.IsBound() {
		return nil
	}
	f.validate()
	return f.errors
}

// Cleaned returns the typed values of a valid form.
func (f *Form) Cleaned() (map[string]any, bool) {
	if !f.IsValid() {
		return nil, false
	}
	return maps.Clone(f.cleaned), true
}

// Value returns the display value of field: the submitted value when bound,
// otherwise the initial or default value.
func (f *Form) Value(field string) string {
	if f.IsBound() {
		return f.args.Data.Get(form.HTMLName(f.args.Prefix, field))
	}
	if v, ok := f.args.Initial[field]; ok && v != nil {
		return fmt.Sprint(v)
	}
	for _, def := range f.schema.fields {
		if def.Name == field && def.Default != nil {
			return fmt.Sprint(def.Default)
		}
	}
	return ""
}

// Fields implements form.Describer.
func (f *Form) Fields() []form.FieldState {
	errs := f.Errors()
	out := make([]form.FieldState, 0, len(f.schema.fields))
	for _, def := range f.schema.fields {
		label := def.Label
		if label == "" {
			label = humanize(def.Name)
		}
		out = append(out, form.FieldState{
			Name:     def.Name,
			HTMLName: form.HTMLName(f.args.Prefix, def.Name),
			Label:    label,
			Type:     inputType(def.Field),
			Required: def.Required,
			Value:    f.Value(def.Name),
			Errors:   append([]string(nil), errs[def.Name]...),
		})
	}
	return out
}

func (f *Form) validate() {
	if f.validated {
		return
	}
	f.validated = true
	f.cleaned = make(map[string]any, len(f.schema.fields))

	for _, def := range f.schema.fields {
		raw := f.args.Data.Get(form.HTMLName(f.args.Prefix, def.Name))
		value, msgs := cleanField(def, raw)
		if len(msgs) > 0 {
			f.addError(def.Name, msgs...)
			continue
		}
		f.cleaned[def.Name] = value
	}
	if len(f.errors) > 0 {
		return
	}
	for _, fn := range f.schema.clean {
		if err := fn(maps.Clone(f.cleaned)); err != nil {
			f.addError(form.NonFieldErrors, err.Error())
		}
	}
}

func (f *Form) addError(key string, msgs ...string) {
	if f.errors == nil {
		f.errors = make(map[string][]string)
	}
	f.errors[key] = append(f.errors[key], msgs...)
}

func cleanField(def compiledField, raw string) (any, []string) {
	if def.Type == FieldTypeBoolean {
		checked := isChecked(raw)
		if def.Required && !checked {
			return nil, []string{msgRequired}
		}
		return checked, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		if def.Required {
			return nil, []string{msgRequired}
		}
		return emptyValue(def.Type), nil
	}

	var msgs []string
	length := utf8.RuneCountInString(value)
	if def.minLength != nil && length < *def.minLength {
		msgs = append(msgs, fmt.Sprintf("Ensure this value has at least %d characters (it has %d).", *def.minLength, length))
	}
	if def.maxLength != nil && length > *def.maxLength {
		msgs = append(msgs, fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", *def.maxLength, length))
	}
	for _, re := range def.patterns {
		if !re.MatchString(value) {
			msgs = append(msgs, msgPattern)
			break
		}
	}

	var cleaned any = value
	switch def.Type {
	case FieldTypeEmail:
		if !validEmail(value) {
			msgs = append(msgs, msgEmail)
		}
	case FieldTypeInteger:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, append(msgs, msgInteger)
		}
		if def.min != nil && n < *def.min {
			msgs = append(msgs, fmt.Sprintf("Ensure this value is greater than or equal to %d.", *def.min))
		}
		if def.max != nil && n > *def.max {
			msgs = append(msgs, fmt.Sprintf("Ensure this value is less than or equal to %d.", *def.max))
		}
		cleaned = n
	}
	if len(msgs) > 0 {
		return nil, msgs
	}
	return cleaned, nil
}

// validEmail accepts bare addresses only; display names are rejected.
func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return false
	}
	return addr.Address == value && strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@")+1:], ".")
}

func isChecked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "off", "no":
		return false
	default:
		return true
	}
}

func emptyValue(t FieldType) any {
	switch t {
	case FieldTypeInteger:
		return nil
	default:
		return ""
	}
}

func inputType(f Field) string {
	if f.InputType != "" {
		return f.InputType
	}
	switch f.Type {
	case FieldTypeEmail:
		return "email"
	case FieldTypeInteger:
		return "number"
	case FieldTypeBoolean:
		return "checkbox"
	default:
		return "text"
	}
}

func humanize(name string) string {
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
