package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contractform/internal/config"
	"github.com/goliatone/go-contractform/pkg/contract"
	"github.com/goliatone/go-contractform/pkg/postal"
	"github.com/goliatone/go-contractform/pkg/renderers/tui"
	"github.com/goliatone/go-contractform/pkg/testsupport"
	"github.com/goliatone/go-contractform/pkg/widgets"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	infoMessages []string
}

func (s *stubDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[0]
	s.inputs = s.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			return "", err
		}
	}
	return val, nil
}

func (s *stubDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	if len(s.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[0]
	s.confirm = s.confirm[1:]
	return val, nil
}

func (s *stubDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	if len(s.selectIdx) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[0]
	s.selectIdx = s.selectIdx[1:]
	return val, nil
}

func (s *stubDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	if len(s.textAreas) == 0 {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[0]
	s.textAreas = s.textAreas[1:]
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newPostalServer(t *testing.T) *testsupport.PostalServer {
	t.Helper()
	server := testsupport.NewPostalServer(t)
	server.SetCities("97074", testsupport.LookupPayload{
		Success: true,
		Count:   2,
		Rows:    []testsupport.LookupRow{{City: "Würzburg"}, {City: "Würzburg"}},
	})
	server.SetStreets("97074", "Würzburg", testsupport.LookupPayload{
		Success: true,
		Count:   2,
		Rows: []testsupport.LookupRow{
			{City: "Würzburg", Street: "Gneisenaustr."},
			{City: "Würzburg", Street: "Werner-von-Siemens-Str."},
		},
	})
	return server
}

func execute(t *testing.T, driver tui.PromptDriver, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvPath, "")

	var out bytes.Buffer
	root := NewRootCommand(WithPromptDriver(driver), WithLogger(log.New(io.Discard, "", 0)))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLookupCities(t *testing.T) {
	server := newPostalServer(t)

	out, err := execute(t, nil, "lookup", "cities", "97074", "--postal-url", server.URL)
	if err != nil {
		t.Fatalf("lookup cities: %v", err)
	}
	if out != "Würzburg\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLookupStreetsJSON(t *testing.T) {
	server := newPostalServer(t)

	out, err := execute(t, nil, "lookup", "streets", "97074", "Würzburg", "--format", "json", "--postal-url", server.URL)
	if err != nil {
		t.Fatalf("lookup streets: %v", err)
	}
	var streets []string
	if err := json.Unmarshal([]byte(out), &streets); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if diff := cmp.Diff([]string{"Gneisenaustr.", "Werner-von-Siemens-Str."}, streets); diff != "" {
		t.Fatalf("streets mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupCacheFileSharedBetweenRuns(t *testing.T) {
	server := newPostalServer(t)
	cache := filepath.Join(t.TempDir(), "lookup.db")

	for i := 0; i < 2; i++ {
		if _, err := execute(t, nil, "lookup", "cities", "97074", "--cache", cache, "--postal-url", server.URL); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if got := server.Requests(); got != 1 {
		t.Fatalf("expected one upstream request, got %d", got)
	}
}

func TestLookupRejectsInvalidZip(t *testing.T) {
	_, err := execute(t, nil, "lookup", "cities", "123")
	if !errors.Is(err, postal.ErrInvalidZip) {
		t.Fatalf("expected ErrInvalidZip, got %v", err)
	}
}

func TestLookupFailure(t *testing.T) {
	server := newPostalServer(t)
	server.FailWith(500)

	_, err := execute(t, nil, "lookup", "cities", "97074", "--postal-url", server.URL)
	var lookupErr *postal.LookupError
	if !errors.As(err, &lookupErr) || lookupErr.StatusCode != 500 {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestAddressInteractive(t *testing.T) {
	server := newPostalServer(t)
	driver := &stubDriver{
		inputs:  []string{"97074", "Gneisenaustr.", "7"},
		confirm: []bool{false},
	}

	out, err := execute(t, driver, "address", "--postal-url", server.URL)
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	var record widgets.AddressRecord
	if err := json.Unmarshal([]byte(out), &record); err != nil {
		t.Fatalf("decode record: %v\n%s", err, out)
	}
	if record.City == nil || *record.City != "Würzburg" || record.Street == nil || *record.Street != "Gneisenaustr." {
		t.Fatalf("unexpected record: %s", out)
	}
}

func TestContractShow(t *testing.T) {
	out, err := execute(t, nil, "contract", "show")
	if err != nil {
		t.Fatalf("contract show: %v", err)
	}
	want, err := contract.InitialModel().DebugInfo()
	if err != nil {
		t.Fatalf("debug info: %v", err)
	}
	if strings.TrimSpace(out) != want {
		t.Fatalf("unexpected snapshot:\n%s", cmp.Diff(want, strings.TrimSpace(out)))
	}
}

func TestContractEditWritesFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contract.yaml")
	driver := &stubDriver{
		selectIdx: []int{1, 3},
		textAreas: []string{"150 square meters"},
	}

	if _, err := execute(t, driver, "contract", "edit", "--output", path); err != nil {
		t.Fatalf("contract edit: %v", err)
	}
	model, err := contract.LoadFixtureFile(path)
	if err != nil {
		t.Fatalf("load written fixture: %v", err)
	}
	household, ok := model.Contract.Module("HOUSEHOLD")
	if !ok || household.Comments != "150 square meters" {
		t.Fatalf("unexpected household module: %+v", household)
	}
	if diff := cmp.Diff([]string{"HOUSEHOLD", "BICYCLE"}, model.Contract.Keys()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	out, err := execute(t, nil, "contract", "show", "--fixture", path)
	if err != nil {
		t.Fatalf("contract show fixture: %v", err)
	}
	if !strings.Contains(out, "150 square meters") {
		t.Fatalf("expected edited comments in snapshot:\n%s", out)
	}
}

func TestRenderContractFormats(t *testing.T) {
	out, err := execute(t, nil, "render", "contract", "--format", "html", "--variant", "dark")
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	if !strings.Contains(out, `data-key="HOUSEHOLD"`) || !strings.Contains(out, "variant-dark") {
		t.Fatalf("unexpected html output:\n%s", out)
	}

	out, err = execute(t, nil, "render", "contract", "--format", "text")
	if err != nil {
		t.Fatalf("render text: %v", err)
	}
	if !strings.Contains(out, "Valid from: 2021-01-01") {
		t.Fatalf("unexpected text output:\n%s", out)
	}

	if _, err := execute(t, nil, "render", "contract", "--format", "pdf"); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}

func TestRenderIndexWithTemplateOverride(t *testing.T) {
	dir := t.TempDir()
	override := `{% extends "page.tmpl" %}{% block content %}<p class="custom">{{ page.title }}</p>{% endblock %}`
	if err := os.WriteFile(filepath.Join(dir, "index.tmpl"), []byte(override), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	out, err := execute(t, nil, "render", "index", "--templates", dir)
	if err != nil {
		t.Fatalf("render index: %v", err)
	}
	if !strings.Contains(out, `<p class="custom">Contract form</p>`) {
		t.Fatalf("expected overridden index template:\n%s", out)
	}
	if !strings.Contains(out, `<a href="/contract">Contract</a>`) {
		t.Fatalf("expected bundled page layout around the override:\n%s", out)
	}

	if _, err := execute(t, nil, "render", "index", "--templates", filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected error for a missing templates dir")
	}
}

func TestRenderAddressWithZipToFile(t *testing.T) {
	server := newPostalServer(t)
	path := filepath.Join(t.TempDir(), "address.json")

	if _, err := execute(t, nil, "render", "address", "--format", "json", "--zip", "97074", "--output", path, "--postal-url", server.URL); err != nil {
		t.Fatalf("render address: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `"value": "Würzburg"`) {
		t.Fatalf("expected prefilled city in output:\n%s", data)
	}
}
