// Package openapiform builds form schemas from OpenAPI 3 documents. Object
// schemas (from components or an operation's request body) become
// form.Schema implementations: submitted string values are coerced to the
// property types and validated with kin-openapi, and schema errors are mapped
// back to field names.
package openapiform
