package prompt

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-multiform/pkg/controller"
	"github.com/goliatone/go-multiform/pkg/render"
)

const defaultMaxAttempts = 3

// Outcome summarises how a session ended.
type Outcome struct {
	// Entry is the submitted top-level entry; empty for atomic controllers.
	Entry       string
	Attempts    int
	RedirectTo  string
	Status      int
	ContentType string
	Body        []byte
}

// Option configures a Session.
type Option func(*Session)

// WithBuilder sets the builder used to describe the forms.
func WithBuilder(b *render.Builder) Option {
	return func(s *Session) {
		if b != nil {
			s.builder = b
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxAttempts bounds how many invalid submissions are re-prompted.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// Session submits a controller's forms from the terminal: it renders the
// forms, asks for each field and posts the answers back, re-prompting with
// the reported errors until the controller accepts the submission.
type Session struct {
	ctrl        controller.Controller
	driver      Driver
	builder     *render.Builder
	logger      *zap.Logger
	maxAttempts int
}

// NewSession returns a Session for ctrl.
func NewSession(ctrl controller.Controller, driver Driver, options ...Option) *Session {
	s := &Session{
		ctrl:        ctrl,
		driver:      driver,
		builder:     render.NewBuilder(render.WithSanitizer(nil)),
		logger:      zap.NewNop(),
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Run drives one submission to completion.
func (s *Session) Run(ctx context.Context) (Outcome, error) {
	if s.ctrl == nil || s.driver == nil {
		return Outcome{}, errors.New("prompt: controller and driver are required")
	}

	entries, dispatched, err := s.display(ctx, controller.Get())
	if err != nil {
		return Outcome{}, err
	}

	var selected string
	if dispatched {
		selected, err = s.choose(ctx, entries)
		if err != nil {
			return Outcome{}, err
		}
	}

	out := Outcome{Entry: selected}
	for out.Attempts < s.maxAttempts {
		out.Attempts++
		data := url.Values{}
		for _, entry := range entries {
			if dispatched && entry.Name != selected {
				continue
			}
			if dispatched {
				data.Set(entry.SubmitName, "1")
			}
			if err := s.ask(ctx, entry, data); err != nil {
				return out, err
			}
		}

		s.logger.Debug("submitting", zap.String("entry", selected), zap.Int("attempt", out.Attempts))
		result, err := s.ctrl.Handle(ctx, controller.Post(data))
		if err != nil {
			return out, err
		}
		resp := &recorder{}
		if err := result.Respond(resp); err != nil {
			return out, err
		}
		if resp.view == nil {
			out.RedirectTo = resp.redirect
			out.Status = resp.status
			out.ContentType = resp.contentType
			out.Body = resp.body
			return out, s.report(ctx, out)
		}

		entries = s.builder.Build(*resp.view)["forms"].([]render.Entry)
		if err := s.driver.Info(ctx, "The submission has errors, please correct them."); err != nil {
			return out, err
		}
	}
	return out, ErrTooManyAttempts
}

func (s *Session) display(ctx context.Context, req controller.Request) ([]render.Entry, bool, error) {
	result, err := s.ctrl.Handle(ctx, req)
	if err != nil {
		return nil, false, err
	}
	resp := &recorder{}
	if err := result.Respond(resp); err != nil {
		return nil, false, err
	}
	if resp.view == nil {
		return nil, false, errors.New("prompt: controller did not render its forms")
	}
	entries, _ := s.builder.Build(*resp.view)["forms"].([]render.Entry)
	return entries, len(resp.view.SubmitNames) > 0, nil
}

func (s *Session) choose(ctx context.Context, entries []render.Entry) (string, error) {
	options := make([]string, 0, len(entries))
	for _, entry := range entries {
		options = append(options, entry.Name)
	}
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message: "Which form do you want to submit?",
		Options: options,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return "", fmt.Errorf("prompt: invalid selection %d", idx)
	}
	return options[idx], nil
}

func (s *Session) ask(ctx context.Context, entry render.Entry, data url.Values) error {
	if entry.IsGroup {
		for _, member := range entry.Forms {
			if err := s.ask(ctx, member, data); err != nil {
				return err
			}
		}
		return nil
	}

	if err := s.driver.Info(ctx, "== "+entry.Name); err != nil {
		return err
	}
	for _, msg := range entry.Errors {
		if err := s.driver.Info(ctx, "! "+msg); err != nil {
			return err
		}
	}
	for _, field := range entry.Fields {
		value, err := s.askField(ctx, field)
		if err != nil {
			return err
		}
		if value != "" {
			data.Set(field.HTMLName, value)
		}
	}
	return nil
}

func (s *Session) askField(ctx context.Context, field render.Field) (string, error) {
	message := field.Label
	if message == "" {
		message = field.Name
	}
	help := strings.Join(field.Errors, " ")
	if help != "" {
		message += " (" + help + ")"
	}

	switch field.Type {
	case "checkbox":
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: field.Value == "true" || field.Value == "on", Help: help})
		if err != nil || !ok {
			return "", err
		}
		return "on", nil
	case "password":
		return s.driver.Password(ctx, InputConfig{Message: message, Default: field.Value, Help: help})
	default:
		return s.driver.Input(ctx, InputConfig{Message: message, Default: field.Value, Help: help})
	}
}

func (s *Session) report(ctx context.Context, out Outcome) error {
	switch {
	case out.RedirectTo != "":
		return s.driver.Info(ctx, "Accepted, redirecting to "+out.RedirectTo)
	case len(out.Body) > 0:
		return s.driver.Info(ctx, fmt.Sprintf("Accepted (%d %s): %s", out.Status, out.ContentType, out.Body))
	default:
		return s.driver.Info(ctx, fmt.Sprintf("Accepted (%d)", out.Status))
	}
}

type recorder struct {
	view        *controller.View
	redirect    string
	status      int
	contentType string
	body        []byte
}

func (r *recorder) Render(view controller.View) error {
	r.view = &view
	return nil
}

func (r *recorder) Redirect(target string) error {
	r.redirect = target
	return nil
}

func (r *recorder) Write(status int, contentType string, body []byte) error {
	r.status = status
	r.contentType = contentType
	r.body = append([]byte(nil), body...)
	return nil
}
