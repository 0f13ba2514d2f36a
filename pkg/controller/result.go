package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Responder turns results into responses. pkg/httpform implements it for
// net/http; tests use testsupport.Responder.
type Responder interface {
	Render(view View) error
	Redirect(target string) error
	Write(status int, contentType string, body []byte) error
}

// Result is what a controller returns for a request.
type Result interface {
	Respond(r Responder) error
}

// View is the render context: the forms built for this request and, for
// marker-dispatched controllers, the submission marker of each entry.
type View struct {
	Forms       Forms
	SubmitNames map[string]string
}

// Render displays the forms.
type Render struct {
	View View
}

// Respond implements Result.
func (r Render) Respond(resp Responder) error {
	return resp.Render(r.View)
}

// Redirect sends the client to Target.
type Redirect struct {
	Target string
}

// Respond implements Result.
func (r Redirect) Respond(resp Responder) error {
	return resp.Redirect(r.Target)
}

// JSON writes Value as a JSON document. Status defaults to 200.
type JSON struct {
	Status int
	Value  any
}

// Respond implements Result.
func (r JSON) Respond(resp Responder) error {
	body, err := json.Marshal(r.Value)
	if err != nil {
		return fmt.Errorf("controller: encode json result: %w", err)
	}
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	return resp.Write(status, "application/json", body)
}

// ResultFunc adapts a function into a Result for hooks that need full
// control over the response.
type ResultFunc func(resp Responder) error

// Respond calls the underlying function.
func (fn ResultFunc) Respond(resp Responder) error {
	return fn(resp)
}
