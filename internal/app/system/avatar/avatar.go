// internal/app/system/avatar/avatar.go
package avatar

import "net/url"

// Group avatars are not uploaded; they are derived from the group name
// via the ui-avatars placeholder service, so a rename re-derives the
// avatar deterministically.

const template = "https://ui-avatars.com/api/?name="

// URL returns the avatar image URL for a group name.
func URL(name string) string {
	return template + url.QueryEscape(name) + "&background=random"
}
