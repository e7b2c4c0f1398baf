// Package normalize cleans user-supplied identifiers before they are
// stored or compared.
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Username strips markup and surrounding space and case-folds the result.
// Usernames are compared case-insensitively, so this is also the lookup key.
func Username(s string) string {
	s = strings.TrimSpace(strict.Sanitize(s))
	return text.Fold(s)
}

// Label strips markup from a free-text label but keeps its case.
func Label(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// Endpoint trims space and any trailing slash from an S3 endpoint URL.
func Endpoint(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), "/")
}
