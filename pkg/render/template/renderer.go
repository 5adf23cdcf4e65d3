package template

import (
	"io"
)

// TemplateRenderer is the engine contract renderers rely on. Output is
// returned and, when writers are given, copied to each of them.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	// GlobalContext merges data into the values every template sees.
	GlobalContext(data any) error
}
