// Package template defines the template engine seam used to render form
// pages, with a pongo2-backed implementation in the gotemplate subpackage.
package template
