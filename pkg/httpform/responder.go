package httpform

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/goliatone/go-multiform/pkg/controller"
)

// responder writes controller results to an http.ResponseWriter.
type responder struct {
	w         http.ResponseWriter
	r         *http.Request
	opts      Options
	requestID string
	wrote     bool
}

var _ controller.Responder = (*responder)(nil)

// Render implements controller.Responder.
func (p *responder) Render(view controller.View) error {
	if p.opts.Engine == nil {
		return errors.New("httpform: no template engine configured")
	}

	ctx := p.opts.Builder.Build(view)
	ctx["request_id"] = p.requestID
	ctx["method"] = p.r.Method
	ctx["action"] = p.r.URL.RequestURI()

	name := p.opts.Template
	if p.opts.Theme != nil {
		sel, err := p.opts.Theme.Select(p.opts.ThemeName, p.opts.ThemeVariant)
		if err != nil {
			return err
		}
		name = templateFor(sel, p.opts.Template, p.opts.Template)
		ctx["theme"] = themeContext(sel)
	}
	if p.opts.Context != nil {
		p.opts.Context(p.r, ctx)
	}

	body, err := p.opts.Engine.RenderTemplate(name, map[string]any(ctx))
	if err != nil {
		return err
	}
	return p.Write(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}

// Redirect implements controller.Responder.
func (p *responder) Redirect(target string) error {
	p.wrote = true
	http.Redirect(p.w, p.r, target, p.opts.RedirectStatus)
	return nil
}

// Write implements controller.Responder. HEAD requests get headers only.
func (p *responder) Write(status int, contentType string, body []byte) error {
	p.wrote = true
	if contentType != "" {
		p.w.Header().Set("Content-Type", contentType)
	}
	p.w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	p.w.WriteHeader(status)
	if p.r.Method == http.MethodHead {
		return nil
	}
	_, err := p.w.Write(body)
	return err
}
