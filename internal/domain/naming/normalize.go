// Package naming canonicalizes free-text product names so that arrivals of the
// same part typed differently by different clerks land on one stock row.
package naming

import "strings"

// Normalize trims, collapses every whitespace run to a single space and
// upper-cases the result. Empty or blank input yields "".
func Normalize(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), " "))
}
