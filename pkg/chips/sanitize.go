package chips

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

// sanitize strips markup from labels that may come from remote lookup
// payloads. Entities are decoded before the policy runs so encoded tags are
// stripped too; the result stays HTML escaped ("&" becomes "&amp;").
func sanitize(raw string) string {
	decoded := strings.TrimSpace(html.UnescapeString(raw))
	if decoded == "" {
		return ""
	}
	return strings.TrimSpace(textSanitizer().Sanitize(decoded))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
