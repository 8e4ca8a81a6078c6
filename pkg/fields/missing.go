// Package fields checks decoded request bodies for required keys.
package fields

import (
	"fmt"
	"strings"
)

// Missing returns the required fields that are absent, null or an empty
// string in record, keeping the order of required.
func Missing(record map[string]any, required []string) []string {
	var out []string
	for _, f := range required {
		v, ok := record[f]
		if !ok || v == nil {
			out = append(out, f)
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			out = append(out, f)
		}
	}
	return out
}

// MissingError lists every missing field of one request.
type MissingError struct {
	Fields []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("Missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Check wraps Missing into a *MissingError, or returns nil.
func Check(record map[string]any, required []string) error {
	if m := Missing(record, required); len(m) > 0 {
		return &MissingError{Fields: m}
	}
	return nil
}
