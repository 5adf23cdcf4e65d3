package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Contract owns its administrative data and contract modules exclusively.
// Modules keep insertion order; overwriting an existing key keeps its
// position.
type Contract struct {
	AdministrativeData AdministrativeData

	order   []string
	modules map[string]Module
}

// NewContract returns a contract with empty administrative data and no
// modules.
func NewContract() *Contract {
	return &Contract{modules: make(map[string]Module)}
}

// SetModule upserts a module using its Key as identity.
func (c *Contract) SetModule(module Module) {
	if c.modules == nil {
		c.modules = make(map[string]Module)
	}
	if _, exists := c.modules[module.Key]; !exists {
		c.order = append(c.order, module.Key)
	}
	c.modules[module.Key] = module
}

// Module returns the module stored under key.
func (c *Contract) Module(key string) (Module, bool) {
	if c == nil {
		return Module{}, false
	}
	module, ok := c.modules[key]
	return module, ok
}

// Modules returns the modules in insertion order.
func (c *Contract) Modules() []Module {
	if c == nil || len(c.order) == 0 {
		return nil
	}
	out := make([]Module, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.modules[key])
	}
	return out
}

// Keys returns the module keys in insertion order.
func (c *Contract) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Len reports the number of modules.
func (c *Contract) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// SetValidFrom updates the administrative valid-from date in place.
func (c *Contract) SetValidFrom(validFrom string) {
	c.AdministrativeData.ValidFrom = validFrom
}

// SetAdministrativeData replaces the administrative data wholesale.
func (c *Contract) SetAdministrativeData(data AdministrativeData) {
	c.AdministrativeData = data
}

// Clone returns a deep copy of the contract.
func (c *Contract) Clone() *Contract {
	if c == nil {
		return nil
	}
	out := &Contract{
		AdministrativeData: c.AdministrativeData,
		order:              append([]string(nil), c.order...),
		modules:            make(map[string]Module, len(c.modules)),
	}
	for key, module := range c.modules {
		out.modules[key] = module
	}
	return out
}

type contractJSON struct {
	AdministrativeData AdministrativeData `json:"administrativeData"`
	ContractModules    json.RawMessage    `json:"contractModules"`
}

// MarshalJSON emits contractModules as an object whose keys follow insertion
// order.
func (c *Contract) MarshalJSON() ([]byte, error) {
	var modules bytes.Buffer
	modules.WriteByte('{')
	for idx, key := range c.order {
		if idx > 0 {
			modules.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("contract: encode module key %q: %w", key, err)
		}
		value, err := json.Marshal(c.modules[key])
		if err != nil {
			return nil, fmt.Errorf("contract: encode module %q: %w", key, err)
		}
		modules.Write(name)
		modules.WriteByte(':')
		modules.Write(value)
	}
	modules.WriteByte('}')

	return json.Marshal(contractJSON{
		AdministrativeData: c.AdministrativeData,
		ContractModules:    modules.Bytes(),
	})
}

// UnmarshalJSON decodes contractModules preserving document order. A module
// without a key inherits its object key; a mismatching key is rejected.
func (c *Contract) UnmarshalJSON(data []byte) error {
	var payload contractJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("contract: decode contract: %w", err)
	}

	decoded := NewContract()
	decoded.AdministrativeData = payload.AdministrativeData

	raw := bytes.TrimSpace(payload.ContractModules)
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(raw))
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("contract: decode contract modules: %w", err)
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '{' {
			return fmt.Errorf("contract: contractModules must be an object")
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return fmt.Errorf("contract: decode contract modules: %w", err)
			}
			key, _ := tok.(string)
			var module Module
			if err := dec.Decode(&module); err != nil {
				return fmt.Errorf("contract: decode module %q: %w", key, err)
			}
			if module.Key == "" {
				module.Key = key
			}
			if module.Key != key {
				return fmt.Errorf("contract: module key %q does not match map key %q", module.Key, key)
			}
			decoded.SetModule(module)
		}
	}

	*c = *decoded
	return nil
}
