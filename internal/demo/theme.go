package demo

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-multiform/pkg/httpform"
)

// ThemePlain is the name of the built-in theme.
const ThemePlain = "plain"

// Themes returns a selector holding the built-in theme and its dark variant.
func Themes() *httpform.ManifestSelector {
	selector, err := httpform.NewManifestSelector(ThemePlain, "", &theme.Manifest{
		Name:    ThemePlain,
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-text":       "#1f2933",
			"color-background": "#ffffff",
			"color-error":      "#b91c1c",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"color-text":       "#e5e7eb",
					"color-background": "#111827",
					"color-error":      "#f87171",
				},
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return selector
}
