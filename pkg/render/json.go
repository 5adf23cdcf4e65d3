package render

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONRenderer encodes the page view data, plus request errors, as JSON.
type JSONRenderer struct{}

// Name implements Renderer.
func (JSONRenderer) Name() string { return "json" }

// ContentType implements Renderer.
func (JSONRenderer) ContentType() string { return "application/json" }

// Render implements Renderer.
func (JSONRenderer) Render(_ context.Context, page Page, options RenderOptions) ([]byte, error) {
	payload := struct {
		Page
		Errors map[string][]string `json:"errors,omitempty"`
	}{Page: page, Errors: options.Errors}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: encode json: %w", err)
	}
	return out, nil
}
