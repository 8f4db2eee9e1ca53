package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict allows no tags and no attributes. Script and style contents are
// dropped entirely, text inside other tags is kept.
var strict = bluemonday.StrictPolicy()

// Plain strips every HTML tag and attribute from val and trims surrounding
// whitespace. Entities escaped by the policy are unescaped again so the
// result is plain text, not HTML.
func Plain(val string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(val)))
}
