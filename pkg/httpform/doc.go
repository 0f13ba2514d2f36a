// Package httpform serves a controller.Controller over net/http. It parses
// urlencoded and multipart bodies into controller requests, renders views
// through a template engine (optionally selecting templates from a go-theme
// manifest), follows redirect results and maps controller errors to status
// codes.
package httpform
