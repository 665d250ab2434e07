// Package sanitize inspects user-supplied text. It uses bluemonday's strict
// policy to find out what a reader would actually see once markup is
// removed; callers store the original text and only use the result to
// reject submissions with nothing visible in them.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton bluemonday policy for sanitizing plain text.
// Initialized once via sync.Once for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared strict policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text strips all markup from input and trims surrounding whitespace. The
// policy escapes what it keeps, so the result is unescaped again: "a & b"
// stays "a & b". Returns "" when nothing but markup or whitespace was
// submitted.
func Text(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(getPolicy().Sanitize(input)))
}

// IsBlank reports whether input has no visible text once markup is removed.
func IsBlank(input string) bool {
	return Text(input) == ""
}
