package utils

import "strconv"

// ParseInt parses a query-string integer, falling back to defaultValue for
// empty, malformed, or non-positive input.
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil || result < 1 {
		return defaultValue
	}

	return result
}
