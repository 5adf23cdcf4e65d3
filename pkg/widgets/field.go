package widgets

import (
	"regexp"
	"sync"
)

// Field mirrors the native constraint attributes of a form control.
type Field struct {
	ID       string
	Label    string
	Value    string
	Pattern  string
	Required bool
	Disabled bool
	// ListID names the datalist offering List as suggestions.
	ListID  string
	List    []string
	Options []Option
}

var (
	patternMu    sync.Mutex
	patternCache = map[string]*regexp.Regexp{}
)

// Valid applies native constraint validation: disabled fields are never
// validated, required fields need a value, and a pattern must match the whole
// non-empty value.
func (f Field) Valid() bool {
	if f.Disabled {
		return true
	}
	if f.Value == "" {
		return !f.Required
	}
	if f.Pattern == "" {
		return true
	}
	re, err := compilePattern(f.Pattern)
	if err != nil {
		return true
	}
	return re.MatchString(f.Value)
}

func (f Field) view() FieldView {
	return FieldView{
		ID:       f.ID,
		Label:    f.Label,
		Value:    f.Value,
		Pattern:  f.Pattern,
		Required: f.Required,
		Disabled: f.Disabled,
		Valid:    f.Valid(),
		ListID:   f.ListID,
		List:     append([]string(nil), f.List...),
		Options:  append([]Option(nil), f.Options...),
	}
}

// compilePattern anchors pattern the way the HTML pattern attribute does.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := patternCache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, err
	}
	patternCache[pattern] = re
	return re, nil
}
