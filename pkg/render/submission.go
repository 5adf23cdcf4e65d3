package render

import (
	"fmt"
	"sort"
	"strings"
)

// HiddenField represents a hidden form input emitted alongside the visible
// controls.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// MergeHiddenFields returns the union of base and fields ordered by name.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base []HiddenField, fields ...HiddenField) []HiddenField {
	merged := make(map[string]string, len(base)+len(fields))
	for _, field := range append(append([]HiddenField(nil), base...), fields...) {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		merged[name] = field.Value
	}
	if len(merged) == 0 {
		return nil
	}
	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: merged[name]})
	}
	return out
}
