// Package demo wires the sample views served by cmd/multiform-demo and
// driven by cmd/multiform-cli: an atomic register+comment page, a
// comment-or-request page and a hybrid page combining both.
package demo
