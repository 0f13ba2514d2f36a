// Package fieldform provides declarative form schemas. A Schema lists typed
// fields with validation rules; its forms read submitted values through the
// configured prefix, validate lazily on first IsValid/Errors call and expose
// render-ready field snapshots (form.Describer) that fall back to initial
// values when unbound.
//
// Validation rules reuse the canonical identifiers (minLength, maxLength,
// min, max, pattern) with string parameters stored under Params["value"] or
// Params["pattern"].
package fieldform
