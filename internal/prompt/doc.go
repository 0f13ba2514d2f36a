// Package prompt submits multi-form controllers from a terminal using survey
// prompts.
package prompt
