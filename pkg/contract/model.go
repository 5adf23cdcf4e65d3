package contract

import (
	"encoding/json"
	"fmt"
)

// AdministrativeData holds metadata about a contract. It is replaced wholesale
// on every edit.
type AdministrativeData struct {
	// ValidFrom is an ISO date (YYYY-MM-DD). Empty means unset.
	ValidFrom string
}

type administrativeDataJSON struct {
	ValidFrom *string `json:"validFrom"`
}

// MarshalJSON encodes an unset ValidFrom as null.
func (a AdministrativeData) MarshalJSON() ([]byte, error) {
	var payload administrativeDataJSON
	if a.ValidFrom != "" {
		value := a.ValidFrom
		payload.ValidFrom = &value
	}
	return json.Marshal(payload)
}

// UnmarshalJSON accepts null or a date string.
func (a *AdministrativeData) UnmarshalJSON(data []byte) error {
	var payload administrativeDataJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("contract: decode administrative data: %w", err)
	}
	a.ValidFrom = ""
	if payload.ValidFrom != nil {
		a.ValidFrom = *payload.ValidFrom
	}
	return nil
}

// Module is a named, user-commentable line item within a contract. Key is the
// module identity; Name and Comments are editable.
type Module struct {
	Key      string `json:"key" yaml:"key"`
	Name     string `json:"name" yaml:"name"`
	Comments string `json:"comments" yaml:"comments"`
}

// Model is the root aggregate owned by a contract widget.
type Model struct {
	Contract *Contract `json:"contract"`
}

// NewModel returns a model holding a fresh, empty contract.
func NewModel() *Model {
	return &Model{Contract: NewContract()}
}

// InitialModel returns the demo contract used by the contract page: valid from
// 2021-01-01 with a household and a bicycle module, in that order.
func InitialModel() *Model {
	c := NewContract()
	c.SetValidFrom("2021-01-01")
	c.SetModule(Module{
		Key:      "HOUSEHOLD",
		Name:     "Household Contents",
		Comments: "The flat of the policy holder is 100 square meters",
	})
	c.SetModule(Module{
		Key:      "BICYCLE",
		Name:     "Bicycle",
		Comments: "The policyholder is happy to insure his new E-Bike also within the contract",
	})
	return &Model{Contract: c}
}

// DebugInfo renders the model as two-space indented JSON. Contract modules
// are emitted as an object keyed by module key, in insertion order.
func (m *Model) DebugInfo() (string, error) {
	if m == nil {
		return "null", nil
	}
	payload, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("contract: debug info: %w", err)
	}
	return string(payload), nil
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}
	return &Model{Contract: m.Contract.Clone()}
}
