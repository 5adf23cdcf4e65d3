package template_test

import (
	"embed"
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-contractform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-contractform/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, _ := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-global.golden"))
	if result != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_StructsUseJSONNames(t *testing.T) {
	engine := newEngine(t)

	type theme struct {
		CSSVars map[string]string `json:"cssVars"`
	}
	result, err := engine.RenderTemplate("use-cssvars", struct {
		Theme theme `json:"theme"`
	}{Theme: theme{CSSVars: map[string]string{"--text": "#111111", "--brand": "#123456"}}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := "<style>:root { --brand: #123456; --text: #111111; }</style>"
	if result != want {
		t.Fatalf("css vars mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_JSONFilterAndMissingTemplate(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("use-json", map[string]any{"items": []string{"a", "b"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != `["a","b"]` {
		t.Fatalf("unexpected output %q", result)
	}

	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestGoTemplateEngine_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without templates")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
