package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips all markup from free-text input such as assistant questions.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
