package multiform

import (
	"context"

	"github.com/goliatone/go-multiform/pkg/form"
	"github.com/goliatone/go-multiform/pkg/openapiform"
)

// LoadOpenAPI parses an OpenAPI document and registers its object schemas,
// plus the request bodies of operationIDs, on reg.
func LoadOpenAPI(ctx context.Context, raw []byte, reg *form.Registry, operationIDs ...string) (*openapiform.Document, error) {
	doc, err := openapiform.Load(ctx, raw)
	if err != nil {
		return nil, err
	}
	if err := doc.Register(reg, operationIDs...); err != nil {
		return nil, err
	}
	return doc, nil
}
