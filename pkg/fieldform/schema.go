package fieldform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/goliatone/go-multiform/pkg/form"
)

// CleanFunc performs cross-field validation on the cleaned values of a form
// whose fields all passed. Returned errors become form-level messages.
type CleanFunc func(values map[string]any) error

// Option customises a Schema.
type Option func(*Schema)

// WithClean registers a cross-field validation step.
func WithClean(fn CleanFunc) Option {
	return func(s *Schema) {
		if fn != nil {
			s.clean = append(s.clean, fn)
		}
	}
}

// Schema is an immutable list of fields. It implements form.Schema.
type Schema struct {
	name   string
	fields []compiledField
	clean  []CleanFunc
}

var _ form.Schema = (*Schema)(nil)

type compiledField struct {
	Field
	minLength *int
	maxLength *int
	min       *int
	max       *int
	patterns  []*regexp.Regexp
}

// New validates fields and returns a Schema named name. Every problem is
// reported, not just the first.
func New(name string, fields []Field, options ...Option) (*Schema, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("fieldform: schema name is required")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("fieldform: schema %q has no fields", name)
	}

	s := &Schema{name: name}
	seen := make(map[string]struct{}, len(fields))
	var errs error
	for _, f := range fields {
		compiled, err := compileField(f)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("fieldform: %s: %w", name, err))
			continue
		}
		if _, dup := seen[compiled.Name]; dup {
			errs = multierr.Append(errs, fmt.Errorf("fieldform: %s: duplicate field %q", name, compiled.Name))
			continue
		}
		seen[compiled.Name] = struct{}{}
		s.fields = append(s.fields, compiled)
	}
	if errs != nil {
		return nil, errs
	}

	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// MustNew panics when New fails. Intended for package-level schemas.
func MustNew(name string, fields []Field, options ...Option) *Schema {
	s, err := New(name, fields, options...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// Fields returns a copy of the field definitions.
func (s *Schema) Fields() []Field {
	out := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f.Field)
	}
	return out
}

// NewForm implements form.Schema.
func (s *Schema) NewForm(args form.Args) form.Form {
	return &Form{schema: s, args: args}
}

func compileField(f Field) (compiledField, error) {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return compiledField{}, fmt.Errorf("field name is required")
	}
	if f.Type == "" {
		f.Type = FieldTypeString
	}
	switch f.Type {
	case FieldTypeString, FieldTypeEmail, FieldTypeInteger, FieldTypeBoolean:
	default:
		return compiledField{}, fmt.Errorf("field %q: unsupported type %q", f.Name, f.Type)
	}

	out := compiledField{Field: f}
	for _, rule := range f.Validations {
		if err := out.addRule(rule); err != nil {
			return compiledField{}, fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return out, nil
}

func (c *compiledField) addRule(rule ValidationRule) error {
	switch rule.Kind {
	case ValidationRuleMinLength, ValidationRuleMaxLength, ValidationRuleMin, ValidationRuleMax:
		raw := strings.TrimSpace(rule.Params["value"])
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("rule %s: invalid value %q", rule.Kind, raw)
		}
		switch rule.Kind {
		case ValidationRuleMinLength:
			c.minLength = &n
		case ValidationRuleMaxLength:
			c.maxLength = &n
		case ValidationRuleMin:
			c.min = &n
		case ValidationRuleMax:
			c.max = &n
		}
		if (rule.Kind == ValidationRuleMin || rule.Kind == ValidationRuleMax) && c.Type != FieldTypeInteger {
			return fmt.Errorf("rule %s requires an integer field", rule.Kind)
		}
	case ValidationRulePattern:
		expr := rule.Params["pattern"]
		re, err := regexp.Compile("^(?:" + expr + ")$")
		if err != nil {
			return fmt.Errorf("rule pattern: %w", err)
		}
		c.patterns = append(c.patterns, re)
	default:
		return fmt.Errorf("unknown rule %q", rule.Kind)
	}
	return nil
}

func valueRule(kind string, n int) ValidationRule {
	return ValidationRule{Kind: kind, Params: map[string]string{"value": strconv.Itoa(n)}}
}
