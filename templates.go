package multiform

import (
	"io/fs"

	"github.com/goliatone/go-multiform/internal/demo"
)

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them (pass to gotemplate.WithFS alongside their own).
func EmbeddedTemplates() fs.FS {
	return demo.Templates()
}
