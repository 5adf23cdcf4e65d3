package contract

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixture is the on-disk description of a contract. Modules are listed in the
// order they should appear.
type Fixture struct {
	ValidFrom string   `json:"validFrom" yaml:"validFrom"`
	Modules   []Module `json:"modules" yaml:"modules"`
}

// LoadFixtureFile reads a JSON or YAML fixture from disk.
func LoadFixtureFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("contract: read fixture: %w", err)
	}
	return ParseFixture(data, path)
}

// LoadFixture reads a JSON or YAML fixture from r.
func LoadFixture(r io.Reader) (*Model, error) {
	if r == nil {
		return nil, fmt.Errorf("contract: missing reader")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("contract: read fixture: %w", err)
	}
	return ParseFixture(data, "reader")
}

// ParseFixture decodes a fixture payload into a fresh model. Duplicate or
// empty module keys are rejected.
func ParseFixture(data []byte, source string) (*Model, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("contract: fixture %s is empty", source)
	}

	var fixture Fixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		fixture = Fixture{}
		if err := yaml.Unmarshal(data, &fixture); err != nil {
			return nil, fmt.Errorf("contract: parse %s: invalid JSON or YAML: %w", source, err)
		}
	}

	c := NewContract()
	c.SetValidFrom(strings.TrimSpace(fixture.ValidFrom))
	for idx, module := range fixture.Modules {
		module.Key = strings.TrimSpace(module.Key)
		if module.Key == "" {
			return nil, fmt.Errorf("contract: fixture %s module at index %d has an empty key", source, idx)
		}
		if _, exists := c.Module(module.Key); exists {
			return nil, fmt.Errorf("contract: fixture %s defines duplicate module key %q", source, module.Key)
		}
		c.SetModule(module)
	}
	return &Model{Contract: c}, nil
}

// Fixture converts the model back into its fixture form.
func (m *Model) Fixture() Fixture {
	if m == nil || m.Contract == nil {
		return Fixture{}
	}
	return Fixture{
		ValidFrom: m.Contract.AdministrativeData.ValidFrom,
		Modules:   m.Contract.Modules(),
	}
}
