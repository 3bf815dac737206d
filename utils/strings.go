package utils

import "strings"

// NormalizeCode trims surrounding whitespace and uppercases a stop or service
// code before it is compared or sent upstream.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
