// Package form defines the capability a controller needs from a form kind:
// something constructible from request data, files, initial values and a
// field-name prefix that can then report whether it is valid. Concrete form
// kinds live in pkg/fieldform and pkg/openapiform; controllers only ever see
// the Schema and Form interfaces declared here.
package form
