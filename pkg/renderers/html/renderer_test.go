package html

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-contractform/pkg/contract"
	"github.com/goliatone/go-contractform/pkg/render"
	"github.com/goliatone/go-contractform/pkg/testsupport"
	"github.com/goliatone/go-contractform/pkg/widgets"
)

type scriptedLookup struct {
	cities  []string
	streets []string
}

func (s scriptedLookup) Cities(context.Context, string) ([]string, error) { return s.cities, nil }
func (s scriptedLookup) Streets(context.Context, string, string) ([]string, error) {
	return s.streets, nil
}
func (scriptedLookup) Dispose() error { return nil }

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func assertContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, output)
		}
	}
}

func TestRenderer_ContractPage(t *testing.T) {
	w := widgets.NewContractWidget()
	if err := w.SetModel(contract.InitialModel()); err != nil {
		t.Fatalf("set model: %v", err)
	}
	view, err := w.View()
	if err != nil {
		t.Fatalf("view: %v", err)
	}

	selector, err := render.NewManifestSelector("", "dark", render.DefaultTheme())
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	output, err := newRenderer(t).Render(testsupport.Context(), render.ContractPage(view), render.RenderOptions{
		Theme: render.ThemeConfig(selection, nil),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(output)

	assertContains(t, html,
		`<title>Contract</title>`,
		`href="/assets/contractform.css"`,
		`--surface: #1f2933;`,
		`variant-dark`,
		`value="2021-01-01"`,
		`<h3>Household Contents</h3>`,
		`action="/contract/modules/HOUSEHOLD"`,
		`The flat of the policy holder is 100 square meters</textarea>`,
		`<h3>Debug Info</h3>`,
		`&quot;validFrom&quot;: &quot;2021-01-01&quot;`,
	)
	if strings.Index(html, `data-key="HOUSEHOLD"`) > strings.Index(html, `data-key="BICYCLE"`) {
		t.Fatalf("expected HOUSEHOLD rendered before BICYCLE")
	}
}

func TestRenderer_EmptyContractRendersNoModules(t *testing.T) {
	view, err := widgets.NewContractWidget().View()
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	output, err := newRenderer(t).Render(testsupport.Context(), render.ContractPage(view), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(output)
	if strings.Contains(html, "contract-module") {
		t.Fatalf("expected no module sections\n%s", html)
	}
	if strings.Count(html, "administrative-data") != 1 {
		t.Fatalf("expected exactly one administrative data section")
	}
}

func TestRenderer_AddressPage(t *testing.T) {
	form, err := widgets.NewAddressForm(scriptedLookup{
		cities:  []string{"Würzburg"},
		streets: []string{"Gneisenaustr.", "Werner-von-Siemens-Str."},
	}, widgets.WithFormID("home"))
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	ctx := testsupport.Context()
	if err := form.InputZip(ctx, "97074"); err != nil {
		t.Fatalf("zip: %v", err)
	}
	if err := form.FocusStreet(ctx); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if err := form.ShowInfo(); err != nil {
		t.Fatalf("info: %v", err)
	}

	output, err := newRenderer(t).Render(ctx, render.AddressPage(widgets.NewAlertPanel(), form), render.RenderOptions{
		Errors: map[string][]string{
			"home.street": {"Straße fehlt"},
			"":            {"Lookup service unavailable"},
		},
		Hidden: []render.HiddenField{render.Hidden("csrf", "token")},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(output)

	assertContains(t, html,
		`<legend class="title">Adresse</legend>`,
		`name="home.zip" type="text" value="97074" pattern="[0-9]{5}" required="required"`,
		`name="home.city" type="text" value="Würzburg"`,
		`<datalist id="home-streets"><option value="Gneisenaustr."><option value="Werner-von-Siemens-Str."></datalist>`,
		`<option value="de" selected="selected">Deutschland</option>`,
		`disabled="disabled"`,
		`<strong class="title">Info</strong>`,
		`aria-label="Schließen"`,
		`<p class="field-error">Straße fehlt</p>`,
		`<li>Lookup service unavailable</li>`,
		`<input type="hidden" name="csrf" value="token">`,
		`id="home-info" formaction="/address/info" formnovalidate="formnovalidate" name="form" value="home" disabled="disabled"`,
	)
}

func TestRenderer_IndexAndUnknownPage(t *testing.T) {
	renderer := newRenderer(t)
	output, err := renderer.Render(testsupport.Context(), render.IndexPage(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render index: %v", err)
	}
	assertContains(t, string(output),
		`<a href="/contract">Contract</a>`,
		`<a href="/" aria-current="page">Start</a>`,
	)

	if _, err := renderer.Render(testsupport.Context(), render.Page{Kind: "nope"}, render.RenderOptions{}); !errors.Is(err, ErrUnknownPage) {
		t.Fatalf("expected ErrUnknownPage, got %v", err)
	}
}

func TestRenderer_TemplatesDirOverridesBundle(t *testing.T) {
	dir := t.TempDir()
	override := `{% extends "page.tmpl" %}{% block content %}<h1 class="custom">{{ page.title }}</h1>{% endblock %}`
	if err := os.WriteFile(filepath.Join(dir, "index.tmpl"), []byte(override), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	renderer, err := New(WithTemplatesDir(dir))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output, err := renderer.Render(testsupport.Context(), render.IndexPage(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render index: %v", err)
	}
	assertContains(t, string(output),
		`<h1 class="custom">Contract form</h1>`,
		`<a href="/" aria-current="page">Start</a>`,
	)

	w := widgets.NewContractWidget()
	if err := w.SetModel(contract.InitialModel()); err != nil {
		t.Fatalf("set model: %v", err)
	}
	view, err := w.View()
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	output, err = renderer.Render(testsupport.Context(), render.ContractPage(view), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render contract: %v", err)
	}
	assertContains(t, string(output), `data-key="HOUSEHOLD"`)
}

func TestRenderer_TemplatesDirMustExist(t *testing.T) {
	if _, err := New(WithTemplatesDir(filepath.Join(t.TempDir(), "missing"))); err == nil {
		t.Fatalf("expected error for a missing templates dir")
	}
}

func TestAssetsFS_ContainsStylesheet(t *testing.T) {
	file, err := AssetsFS().Open(StylesheetName)
	if err != nil {
		t.Fatalf("open stylesheet: %v", err)
	}
	_ = file.Close()
}
