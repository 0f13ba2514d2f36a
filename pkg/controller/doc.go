// Package controller implements the request handling core for endpoints that
// serve more than one form. Three composition policies are provided:
//
//   - Atomic: every form in the plan is submitted together and the request
//     succeeds only when all of them validate.
//   - Alternative: each form has its own submission marker ("<name>_submit");
//     a POST validates only the form whose marker appears first in plan order.
//   - Hybrid: like Alternative, but a top-level entry may be a group of forms
//     that share one marker and validate atomically.
//
// Controllers never speak HTTP. They return a Result (render, redirect or a
// custom value produced by a hook) that a Responder turns into a response;
// pkg/httpform provides the net/http binding.
//
// Configuration (plan, success routes, hooks) is validated when the
// controller is constructed and is read-only afterwards, so a controller is
// safe for concurrent use as long as the supplied schemas and hooks are.
package controller
