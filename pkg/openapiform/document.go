package openapiform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/multierr"

	"github.com/goliatone/go-multiform/pkg/form"
)

// Option customises document loading.
type Option func(*options)

type options struct {
	validate bool
}

// WithoutDocumentValidation skips openapi3.T.Validate after loading.
func WithoutDocumentValidation() Option {
	return func(o *options) {
		o.validate = false
	}
}

// Document is a loaded OpenAPI document.
type Document struct {
	spec *openapi3.T
}

// Load parses raw (JSON or YAML) and validates the document.
func Load(ctx context.Context, raw []byte, opts ...Option) (*Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(raw) == 0 {
		return nil, errors.New("openapiform: document payload is empty")
	}
	cfg := options{validate: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapiform: load document: %w", err)
	}
	if cfg.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapiform: validate: %w", err)
		}
	}
	return &Document{spec: spec}, nil
}

// SchemaNames lists the component schema names in sorted order.
func (d *Document) SchemaNames() []string {
	if d.spec.Components == nil {
		return nil
	}
	names := make([]string, 0, len(d.spec.Components.Schemas))
	for name := range d.spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema returns a form schema for the component schema name.
func (d *Document) Schema(name string) (*Schema, error) {
	name = strings.TrimSpace(name)
	if d.spec.Components == nil {
		return nil, fmt.Errorf("openapiform: schema %q not found", name)
	}
	ref, ok := d.spec.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapiform: schema %q not found", name)
	}
	return newSchema(name, ref.Value)
}

// Register adds every object component schema to reg under its component
// name, and each operation in operationIDs under its id. Non-object
// component schemas are skipped; failures are aggregated.
func (d *Document) Register(reg *form.Registry, operationIDs ...string) error {
	if reg == nil {
		return errors.New("openapiform: registry is required")
	}
	var errs error
	for _, name := range d.SchemaNames() {
		ref := d.spec.Components.Schemas[name]
		if ref == nil || ref.Value == nil || !isType(ref.Value.Type, openapi3.TypeObject) {
			continue
		}
		schema, err := d.Schema(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		errs = multierr.Append(errs, reg.Register(name, schema))
	}
	for _, id := range operationIDs {
		schema, err := d.OperationSchema(id)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		errs = multierr.Append(errs, reg.Register(id, schema))
	}
	return errs
}

// OperationSchema returns a form schema for the request body of operationID.
// Form media types are preferred over JSON.
func (d *Document) OperationSchema(operationID string) (*Schema, error) {
	operationID = strings.TrimSpace(operationID)
	if d.spec.Paths != nil {
		for _, item := range d.spec.Paths.Map() {
			if item == nil {
				continue
			}
			for _, op := range item.Operations() {
				if op == nil || op.OperationID != operationID {
					continue
				}
				schema := requestSchema(op.RequestBody)
				if schema == nil {
					return nil, fmt.Errorf("openapiform: operation %q has no request body schema", operationID)
				}
				return newSchema(operationID, schema)
			}
		}
	}
	return nil, fmt.Errorf("openapiform: operation %q not found", operationID)
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/x-www-form-urlencoded", "multipart/form-data", "application/json"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}
