package postal

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openAPIDocument []byte

const responseSchemaName = "LookupResponse"

var (
	responseSchemaOnce sync.Once
	responseSchema     *openapi3.Schema
	responseSchemaErr  error
)

// OpenAPIDocument returns the embedded description of the lookup servlet.
func OpenAPIDocument() []byte {
	return append([]byte(nil), openAPIDocument...)
}

// ResponseSchema loads and validates the embedded document once and returns
// the lookup response schema.
func ResponseSchema() (*openapi3.Schema, error) {
	responseSchemaOnce.Do(func() {
		responseSchema, responseSchemaErr = loadResponseSchema(context.Background(), openAPIDocument)
	})
	return responseSchema, responseSchemaErr
}

func loadResponseSchema(ctx context.Context, raw []byte) (*openapi3.Schema, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("postal: load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("postal: validate openapi document: %w", err)
	}

	ref := doc.Components.Schemas[responseSchemaName]
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("postal: openapi document is missing schema %q", responseSchemaName)
	}
	return ref.Value, nil
}

func validatePayload(schema *openapi3.Schema, value any) error {
	if schema == nil {
		return nil
	}
	if err := schema.VisitJSON(value); err != nil {
		return fmt.Errorf("response does not match %s: %w", responseSchemaName, err)
	}
	return nil
}
