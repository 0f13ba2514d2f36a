package render

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

// Sanitizer cleans strings before they reach templates.
type Sanitizer interface {
	Sanitize(s string) string
}

// SanitizerFunc adapts a function into a Sanitizer.
type SanitizerFunc func(string) string

// Sanitize calls the underlying function.
func (fn SanitizerFunc) Sanitize(s string) string {
	return fn(s)
}

// TextSanitizer strips all markup and returns plain text. The result is not
// HTML-escaped; templates escape on output.
func TextSanitizer() Sanitizer {
	return SanitizerFunc(sanitizeText)
}

func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(trimmed)))
}

func sanitizeAll(s Sanitizer, messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	for _, msg := range messages {
		if cleaned := strings.TrimSpace(s.Sanitize(msg)); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
