package form

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// CleanText strips HTML markup from rich-text sources at the authoring
// boundary (imported API descriptions, web-authored documents). It is not
// applied on the compile path: survey labels and hints are copied into the
// XForm verbatim and escaped by the serializer, so tag-shaped plain text like
// "Enter weight <kg>" survives.
func CleanText(s string) string {
	if s == "" || !strings.ContainsAny(s, "<>&") {
		return s
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	// StrictPolicy entity-escapes what it keeps; undo that so the XML
	// serializer escapes exactly once.
	return html.UnescapeString(textPolicy.Sanitize(s))
}
