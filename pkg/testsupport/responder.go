package testsupport

import (
	"github.com/goliatone/go-multiform/pkg/controller"
)

// Responder records what a Result asked for.
type Responder struct {
	Rendered    *controller.View
	RedirectTo  string
	Status      int
	ContentType string
	Body        []byte
}

var _ controller.Responder = (*Responder)(nil)

// Render implements controller.Responder.
func (r *Responder) Render(view controller.View) error {
	r.Rendered = &view
	return nil
}

// Redirect implements controller.Responder.
func (r *Responder) Redirect(target string) error {
	r.RedirectTo = target
	return nil
}

// Write implements controller.Responder.
func (r *Responder) Write(status int, contentType string, body []byte) error {
	r.Status = status
	r.ContentType = contentType
	r.Body = append([]byte(nil), body...)
	return nil
}

// Respond runs result against a fresh Responder.
func Respond(result controller.Result) (*Responder, error) {
	resp := &Responder{}
	if result == nil {
		return resp, nil
	}
	if err := result.Respond(resp); err != nil {
		return nil, err
	}
	return resp, nil
}
