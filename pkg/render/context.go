package render

import (
	"sort"
	"strings"

	"github.com/goliatone/go-multiform/pkg/controller"
	"github.com/goliatone/go-multiform/pkg/form"
)

// Option configures a Builder.
type Option func(*Builder)

// WithTranslator translates labels and messages for locale.
func WithTranslator(t Translator, locale string) Option {
	return func(b *Builder) {
		b.translator = t
		b.locale = strings.TrimSpace(locale)
	}
}

// WithMissingTranslation overrides the fallback for untranslated keys.
func WithMissingTranslation(fn MissingTranslationHandler) Option {
	return func(b *Builder) {
		if fn != nil {
			b.onMissing = fn
		}
	}
}

// WithSanitizer replaces the default TextSanitizer. A nil sanitizer only
// trims whitespace.
func WithSanitizer(s Sanitizer) Option {
	return func(b *Builder) {
		if s == nil {
			s = SanitizerFunc(strings.TrimSpace)
		}
		b.sanitizer = s
	}
}

// WithHiddenFields adds page-level hidden inputs (CSRF tokens and the like).
func WithHiddenFields(fields ...HiddenField) Option {
	return func(b *Builder) {
		b.hidden = MergeHiddenFields(b.hidden, fields...)
	}
}

// WithMarkerFields adds a SubmitMarker hidden input to every entry.
func WithMarkerFields() Option {
	return func(b *Builder) {
		b.markers = true
	}
}

// Builder produces template contexts. A Builder is immutable once built and
// safe for concurrent use.
type Builder struct {
	translator Translator
	onMissing  MissingTranslationHandler
	locale     string
	sanitizer  Sanitizer
	hidden     map[string]string
	markers    bool
}

// NewBuilder returns a Builder configured by options.
func NewBuilder(options ...Option) *Builder {
	b := &Builder{
		onMissing: missingTranslationDefault,
		sanitizer: TextSanitizer(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Context is the data handed to page templates.
type Context map[string]any

// Entry is one top-level entry of the plan, or a member of a group.
type Entry struct {
	Name       string        `json:"name"`
	IsGroup    bool          `json:"is_group"`
	SubmitName string        `json:"submit_name,omitempty"`
	Bound      bool          `json:"bound"`
	Valid      bool          `json:"valid"`
	Fields     []Field       `json:"fields,omitempty"`
	Errors     []string      `json:"errors,omitempty"`
	Hidden     []HiddenField `json:"hidden,omitempty"`
	Forms      []Entry       `json:"forms,omitempty"`
}

// Field is a render-ready field.
type Field struct {
	Name     string   `json:"name"`
	HTMLName string   `json:"html_name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Value    string   `json:"value"`
	Errors   []string `json:"errors,omitempty"`
}

// Build returns the context for view:
//
//	forms        []Entry in plan order
//	form         map of top-level name to Entry
//	submit_names map of top-level name to marker key (marker-dispatched views)
//	hidden       page-level hidden inputs
//	locale       the configured locale
func (b *Builder) Build(view controller.View) Context {
	bound := view.Forms.Entries()
	entries := make([]Entry, 0, len(bound))
	byName := make(map[string]Entry, len(bound))
	for _, item := range bound {
		entry := b.entry(item, view.SubmitNames[item.Name])
		entries = append(entries, entry)
		byName[item.Name] = entry
	}

	ctx := Context{
		"forms":  entries,
		"form":   byName,
		"hidden": SortedHiddenFields(b.hidden),
		"locale": b.locale,
	}
	if len(view.SubmitNames) > 0 {
		names := make(map[string]string, len(view.SubmitNames))
		for k, v := range view.SubmitNames {
			names[k] = v
		}
		ctx["submit_names"] = names
	}
	return ctx
}

func (b *Builder) entry(item controller.Bound, submitName string) Entry {
	if !item.IsGroup() {
		entry := b.formEntry(item.Name, item.Form)
		entry.SubmitName = submitName
		entry.Hidden = b.markerFields(item.Name, submitName)
		return entry
	}

	entry := Entry{Name: item.Name, IsGroup: true, SubmitName: submitName, Valid: true}
	entry.Hidden = b.markerFields(item.Name, submitName)
	for _, name := range item.Group.Names() {
		f, _ := item.Group.Get(name)
		member := b.formEntry(name, f)
		entry.Bound = entry.Bound || member.Bound
		entry.Valid = entry.Valid && member.Valid
		entry.Forms = append(entry.Forms, member)
	}
	entry.Valid = entry.Valid && entry.Bound
	return entry
}

func (b *Builder) markerFields(name, submitName string) []HiddenField {
	if !b.markers || submitName == "" {
		return nil
	}
	return []HiddenField{SubmitMarker(name)}
}

func (b *Builder) formEntry(name string, f form.Form) Entry {
	entry := Entry{Name: name}
	if f == nil {
		return entry
	}
	entry.Bound = f.IsBound()
	errs := f.Errors()
	entry.Valid = entry.Bound && len(errs) == 0

	var states []form.FieldState
	if d, ok := f.(form.Describer); ok {
		states = d.Fields()
	}
	names := make([]string, 0, len(states))
	for _, s := range states {
		names = append(names, s.Name)
	}
	mapping := SplitErrors(names, errs)

	for _, s := range states {
		entry.Fields = append(entry.Fields, Field{
			Name:     s.Name,
			HTMLName: s.HTMLName,
			Label:    b.text(s.Label),
			Type:     s.Type,
			Required: s.Required,
			Value:    s.Value,
			Errors:   b.messages(mapping.Fields[s.Name]),
		})
	}
	if len(states) == 0 {
		// Forms without field metadata surface every message at form level.
		for _, key := range sortedKeys(mapping.Fields) {
			mapping.Form = append(mapping.Form, mapping.Fields[key]...)
		}
	}
	entry.Errors = b.messages(MergeFormErrors(mapping.Form))
	return entry
}

func (b *Builder) text(s string) string {
	return b.sanitizer.Sanitize(translate(b.locale, s, nil, b.translator, b.onMissing))
}

func (b *Builder) messages(messages []string) []string {
	translated := make([]string, 0, len(messages))
	for _, msg := range messages {
		translated = append(translated, translate(b.locale, msg, nil, b.translator, b.onMissing))
	}
	return sanitizeAll(b.sanitizer, translated)
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
