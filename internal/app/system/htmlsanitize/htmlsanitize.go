// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

// All validation in this system is client-trust-based, but content that
// other members will render (link titles, descriptions, comments) is
// still scrubbed of script vectors before it is written.

var ugc = bluemonday.UGCPolicy()

// Sanitize strips unsafe HTML, keeping the usual user-generated-content
// subset (paragraphs, emphasis, safe links).
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}
