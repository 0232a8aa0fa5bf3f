package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Required rejects blank strings. Callers trim before validating.
func Required(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("is required")
	}
	return nil
}

// MaxLength rejects strings longer than max runes.
func MaxLength(value string, max int) error {
	if len([]rune(value)) > max {
		return fmt.Errorf("must be at most %d characters", max)
	}
	return nil
}

// OneOf rejects values outside allowed. Matching is exact.
func OneOf(value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(allowed, ", "))
}

// Canonical returns the allowed value equal to value ignoring case.
func Canonical(value string, allowed []string) (string, error) {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return a, nil
		}
	}
	return value, OneOf(value, allowed)
}

// Color accepts #RGB and #RRGGBB hex colors.
func Color(value string) error {
	if len(value) != 4 && len(value) != 7 || value[0] != '#' {
		return errors.New("must be a hex color like #3B82F6")
	}
	for _, c := range value[1:] {
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isHex {
			return errors.New("must be a hex color like #3B82F6")
		}
	}
	return nil
}

// CleanList trims entries and drops blanks and duplicates, keeping order.
func CleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
