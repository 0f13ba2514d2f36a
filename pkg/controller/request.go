package controller

import (
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// Request is the transport-agnostic view of an inbound request. Data holds
// the submitted field and marker keys; Files the uploaded files.
type Request struct {
	Method string
	Data   url.Values
	Files  map[string][]*multipart.FileHeader
}

// Get returns a GET request.
func Get() Request {
	return Request{Method: http.MethodGet}
}

// Post returns a POST request carrying data.
func Post(data url.Values) Request {
	if data == nil {
		data = url.Values{}
	}
	return Request{Method: http.MethodPost, Data: data}
}

func (r Request) method() string {
	return strings.ToUpper(strings.TrimSpace(r.Method))
}

// IsSubmit reports whether the request carries a form submission.
func (r Request) IsSubmit() bool {
	switch r.method() {
	case http.MethodPost, http.MethodPut:
		return true
	default:
		return false
	}
}

// IsDisplay reports whether the request only asks for the forms.
func (r Request) IsDisplay() bool {
	switch r.method() {
	case http.MethodGet, http.MethodHead:
		return true
	default:
		return false
	}
}
