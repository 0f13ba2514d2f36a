package render

import (
	"sort"
	"strings"

	"github.com/goliatone/go-multiform/pkg/form"
)

// ErrorMapping splits a form's error map into field-level and form-level
// messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// SplitErrors maps errs onto the known field names. Form-level keys and
// keys that match no field (after stripping JSON pointer or dotted path
// syntax) become form-level messages so nothing is lost.
func SplitErrors(fields []string, errs map[string][]string) ErrorMapping {
	mapping := ErrorMapping{}
	if len(errs) == 0 {
		return mapping
	}
	known := make(map[string]struct{}, len(fields))
	for _, name := range fields {
		known[name] = struct{}{}
	}

	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		messages := normalizeMessages(errs[key])
		if len(messages) == 0 {
			continue
		}
		field, ok := matchField(key, known)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[field] = normalizeMessages(append(mapping.Fields[field], messages...))
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func matchField(key string, known map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(key)
	if isFormLevelKey(trimmed) {
		return "", false
	}
	if _, ok := known[trimmed]; ok {
		return trimmed, true
	}
	segments := parsePathSegments(trimmed)
	if len(segments) == 0 {
		return "", false
	}
	if _, ok := known[segments[0]]; ok {
		return segments[0], true
	}
	return "", false
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", form.NonFieldErrors, "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
