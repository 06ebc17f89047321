// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email lowercases and trims an email address. Emails are document ids
// in both the accounts and users collections, so every write and every
// lookup must pass through here or the same person can exist twice.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Nickname trims surrounding whitespace but preserves case.
func Nickname(s string) string {
	return strings.TrimSpace(s)
}
