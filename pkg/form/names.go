package form

import "strings"

// HTMLName returns the submitted key for field under prefix, joining the two
// with a dash ("asd-name") when a prefix is configured.
func HTMLName(prefix, field string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return field
	}
	return prefix + "-" + field
}
