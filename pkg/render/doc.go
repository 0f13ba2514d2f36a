// Package render turns a controller.View into the data handed to page
// templates. The context exposes every entry of the plan in order together
// with its submission marker, render-ready fields, normalised error messages
// and any hidden inputs the page must echo back.
package render
