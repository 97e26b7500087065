package domain

import (
	"strings"
)

// ParseBoolFilter is the single truthy-value convention for boolean query
// filters across the API: "1", "true", "yes" and "on" (case-insensitive)
// parse as true, every other value as false.
func ParseBoolFilter(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
