package postal

import "strings"

// IsValidZip reports whether zip is exactly five ASCII digits.
func IsValidZip(zip string) bool {
	if len(zip) != 5 {
		return false
	}
	for i := 0; i < len(zip); i++ {
		if zip[i] < '0' || zip[i] > '9' {
			return false
		}
	}
	return true
}

// NormalizeZip trims whitespace and validates the result.
func NormalizeZip(zip string) (string, error) {
	zip = strings.TrimSpace(zip)
	if !IsValidZip(zip) {
		return "", ErrInvalidZip
	}
	return zip, nil
}
