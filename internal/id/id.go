package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Generator returns a fresh transaction ID.
type Generator func() string

// New returns a random transaction ID like "6f1c2e1a-8a4b-4c7e-9f1d-2b3c4d5e6f70".
func New() string {
	return uuid.NewString()
}

// Sequence returns a Generator producing "prefix-1", "prefix-2", ...
// Useful where IDs must be predictable, such as tests and fixtures.
func Sequence(prefix string) Generator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// Normalize trims whitespace from a user supplied ID.
func Normalize(s string) string {
	return strings.TrimSpace(s)
}

// Short returns the first 8 characters of an ID for display.
// "6f1c2e1a-8a4b-..." -> "6f1c2e1a"
func Short(s string) string {
	if len(s) <= 8 {
		return s
	}
	return s[:8]
}
