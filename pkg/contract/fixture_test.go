package contract

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFixtureFile_YAMLMatchesInitialModel(t *testing.T) {
	model, err := LoadFixtureFile(filepath.Join("testdata", "initial.yaml"))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	want := InitialModel().Fixture()
	if diff := cmp.Diff(want, model.Fixture()); diff != "" {
		t.Fatalf("fixture mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFixture_JSON(t *testing.T) {
	model, err := LoadFixture(strings.NewReader(`{"validFrom":"2023-05-01","modules":[{"key":"GLASS","name":"Glass","comments":"c"}]}`))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	if model.Contract.AdministrativeData.ValidFrom != "2023-05-01" {
		t.Fatalf("unexpected valid from %q", model.Contract.AdministrativeData.ValidFrom)
	}
	if model.Contract.Len() != 1 {
		t.Fatalf("expected one module, got %d", model.Contract.Len())
	}
}

func TestParseFixture_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":     "   ",
		"duplicate": "modules:\n  - key: A\n  - key: A\n",
		"blank key": "modules:\n  - name: nameless\n",
		"garbage":   "modules: [",
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseFixture([]byte(payload), name); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}
