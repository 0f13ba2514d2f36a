package httpform

import (
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// ThemeSelector resolves a theme and variant. It matches the go-theme
// selector contract.
type ThemeSelector interface {
	Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error)
}

// ManifestSelector is a ThemeSelector over registered manifests. Empty names
// fall back to the defaults; unknown variants select the base manifest.
type ManifestSelector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests and sets the defaults.
func NewManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, m := range manifests {
		if err := s.Register(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a manifest keyed by its name.
func (s *ManifestSelector) Register(m *theme.Manifest) error {
	if m == nil || strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("httpform: theme manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[m.Name]; exists {
		return fmt.Errorf("httpform: theme %q already registered", m.Name)
	}
	s.manifests[m.Name] = m
	return nil
}

// Select implements ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.defaultVariant
	}

	s.mu.RLock()
	m, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("httpform: theme %q not registered", name)
	}
	if _, ok := m.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: m}, nil
}

// templateFor returns the template registered for key, preferring the
// variant override, or fallback when the theme has none.
func templateFor(sel *theme.Selection, key, fallback string) string {
	if sel == nil || sel.Manifest == nil {
		return fallback
	}
	if v, ok := sel.Manifest.Variants[sel.Variant]; ok {
		if tpl := strings.TrimSpace(v.Templates[key]); tpl != "" {
			return tpl
		}
	}
	if tpl := strings.TrimSpace(sel.Manifest.Templates[key]); tpl != "" {
		return tpl
	}
	return fallback
}

// rendererConfig flattens a selection into merged templates, tokens (variant
// wins), CSS variables and an asset resolver. It also returns the asset keys
// the resolver knows about.
func rendererConfig(sel *theme.Selection) (*theme.RendererConfig, []string) {
	if sel == nil || sel.Manifest == nil {
		return nil, nil
	}
	m := sel.Manifest
	partials := maps.Clone(m.Templates)
	tokens := maps.Clone(m.Tokens)
	files := maps.Clone(m.Assets.Files)
	prefix := m.Assets.Prefix

	if v, ok := m.Variants[sel.Variant]; ok {
		partials = mergeStrings(partials, v.Templates)
		tokens = mergeStrings(tokens, v.Tokens)
		files = mergeStrings(files, v.Assets.Files)
		if strings.TrimSpace(v.Assets.Prefix) != "" {
			prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for k, v := range tokens {
		cssVars["--"+k] = v
	}

	cfg := &theme.RendererConfig{
		Theme:    sel.Theme,
		Variant:  sel.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file := strings.TrimSpace(files[key])
			if file == "" {
				return ""
			}
			if strings.Contains(file, "://") || strings.HasPrefix(file, "/") || prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}
	return cfg, slices.Sorted(maps.Keys(files))
}

// themeContext converts a selection into template data with asset URLs
// resolved up front.
func themeContext(sel *theme.Selection) map[string]any {
	cfg, keys := rendererConfig(sel)
	if cfg == nil {
		return nil
	}
	assets := make(map[string]string, len(keys))
	for _, key := range keys {
		assets[key] = cfg.AssetURL(key)
	}
	return map[string]any{
		"name":     cfg.Theme,
		"variant":  cfg.Variant,
		"tokens":   cfg.Tokens,
		"css_vars": cfg.CSSVars,
		"assets":   assets,
	}
}

func mergeStrings(base, override map[string]string) map[string]string {
	if len(override) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]string, len(override))
	}
	for k, v := range override {
		base[k] = v
	}
	return base
}
