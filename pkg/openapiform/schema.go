package openapiform

import (
	"fmt"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-multiform/pkg/form"
)

const extensionKey = "x-multiform"

// Schema adapts an OpenAPI object schema to form.Schema.
type Schema struct {
	name       string
	schema     *openapi3.Schema
	properties []property
}

var _ form.Schema = (*Schema)(nil)

type property struct {
	name      string
	kind      string
	label     string
	inputType string
	required  bool
	def       any
}

func newSchema(name string, s *openapi3.Schema) (*Schema, error) {
	if s == nil || !isType(s.Type, openapi3.TypeObject) {
		return nil, fmt.Errorf("openapiform: schema %q must be an object", name)
	}
	if len(s.Properties) == 0 {
		return nil, fmt.Errorf("openapiform: schema %q has no properties", name)
	}

	names := make([]string, 0, len(s.Properties))
	for prop := range s.Properties {
		names = append(names, prop)
	}
	slices.Sort(names)
	names = orderedProperties(s, names)

	out := &Schema{name: name, schema: s}
	for _, prop := range names {
		ref := s.Properties[prop]
		if ref == nil || ref.Value == nil {
			return nil, fmt.Errorf("openapiform: %s: property %q is unresolved", name, prop)
		}
		out.properties = append(out.properties, newProperty(prop, ref.Value, slices.Contains(s.Required, prop)))
	}
	return out, nil
}

// orderedProperties honours an x-multiform "order" list, then appends the
// remaining properties alphabetically.
func orderedProperties(s *openapi3.Schema, sorted []string) []string {
	ext, _ := s.Extensions[extensionKey].(map[string]any)
	raw, _ := ext["order"].([]any)
	if len(raw) == 0 {
		return sorted
	}
	out := make([]string, 0, len(sorted))
	seen := make(map[string]bool, len(sorted))
	for _, item := range raw {
		name, _ := item.(string)
		if _, ok := s.Properties[name]; ok && !seen[name] {
			out = append(out, name)
			seen[name] = true
		}
	}
	for _, name := range sorted {
		if !seen[name] {
			out = append(out, name)
		}
	}
	return out
}

func newProperty(name string, s *openapi3.Schema, required bool) property {
	p := property{
		name:     name,
		kind:     primaryType(s.Type),
		label:    s.Title,
		required: required,
		def:      s.Default,
	}
	if ext, ok := s.Extensions[extensionKey].(map[string]any); ok {
		if label, ok := ext["label"].(string); ok && label != "" {
			p.label = label
		}
		if input, ok := ext["inputType"].(string); ok {
			p.inputType = input
		}
	}
	if p.label == "" {
		p.label = name
	}
	if p.inputType == "" {
		p.inputType = defaultInputType(p.kind, s.Format)
	}
	return p
}

// Name returns the component schema or operation id the schema came from.
func (s *Schema) Name() string {
	return s.name
}

// NewForm implements form.Schema.
func (s *Schema) NewForm(args form.Args) form.Form {
	return &Form{schema: s, args: args}
}

func isType(types *openapi3.Types, want string) bool {
	return types != nil && types.Is(want)
}

func primaryType(types *openapi3.Types) string {
	if types == nil {
		return openapi3.TypeString
	}
	for _, t := range types.Slice() {
		if t != openapi3.TypeNull {
			return t
		}
	}
	return openapi3.TypeString
}

func defaultInputType(kind, format string) string {
	switch kind {
	case openapi3.TypeInteger, openapi3.TypeNumber:
		return "number"
	case openapi3.TypeBoolean:
		return "checkbox"
	}
	switch format {
	case "email":
		return "email"
	case "password":
		return "password"
	case "date":
		return "date"
	}
	return "text"
}
