package httpform

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-multiform/pkg/controller"
)

// HTTPError lets guards and hooks pick the response status.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError is a basic HTTPError.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

// StatusCode implements HTTPError.
func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// NewHandler serves ctrl with default options plus any overrides.
func NewHandler(ctrl controller.Controller, fns ...OptionFn) http.Handler {
	return HandlerWithOptions(ctrl, NewOptions(fns...))
}

// HandlerWithOptions serves ctrl using a pre-built Options value.
func HandlerWithOptions(ctrl controller.Controller, opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		logger := opts.Logger.With(
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)

		rec := &statusRecorder{ResponseWriter: w}
		serve(ctrl, opts, logger, requestID, rec, r)
		logger.Debug("request served",
			zap.Int("status", rec.status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func serve(ctrl controller.Controller, opts Options, logger *zap.Logger, requestID string, w http.ResponseWriter, r *http.Request) {
	if ctrl == nil {
		logger.Error("no controller configured")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if opts.Guard != nil {
		if err := opts.Guard(r); err != nil {
			writeGuardError(w, err)
			return
		}
	}

	req, err := parseRequest(w, r, opts)
	if err != nil {
		code := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			code = http.StatusRequestEntityTooLarge
		}
		logger.Debug("parse request", zap.Error(err))
		http.Error(w, http.StatusText(code), code)
		return
	}
	defer cleanupMultipart(r)

	result, err := ctrl.Handle(r.Context(), req)
	if err != nil {
		writeControllerError(w, r, logger, err)
		return
	}
	if result == nil {
		logger.Error("controller returned no result")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := &responder{w: w, r: r, opts: opts, requestID: requestID}
	if err := result.Respond(resp); err != nil {
		logger.Error("write response", zap.Error(err))
		if !resp.wrote {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

// parseRequest builds the controller request. Only body fields are bound;
// query parameters never count as submitted data.
func parseRequest(w http.ResponseWriter, r *http.Request, opts Options) (controller.Request, error) {
	req := controller.Request{Method: r.Method}
	if !req.IsSubmit() {
		return req, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, opts.MaxBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(opts.MaxMemory); err != nil {
			return controller.Request{}, fmt.Errorf("httpform: parse multipart form: %w", err)
		}
		req.Files = r.MultipartForm.File
	} else if err := r.ParseForm(); err != nil {
		return controller.Request{}, fmt.Errorf("httpform: parse form: %w", err)
	}
	req.Data = r.PostForm
	if req.Data == nil {
		req.Data = map[string][]string{}
	}
	return req, nil
}

func cleanupMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

func writeControllerError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var httpErr HTTPError
	switch {
	case errors.Is(err, controller.ErrMethodNotAllowed):
		w.Header().Set("Allow", strings.Join(controller.AllowedMethods, ", "))
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	case errors.As(err, &httpErr) && httpErr != nil:
		code := httpErr.StatusCode()
		http.Error(w, http.StatusText(code), code)
	case r.Context().Err() != nil:
		logger.Debug("request canceled", zap.Error(err))
	default:
		if errors.Is(err, controller.ErrConfiguration) {
			logger.Error("controller misconfigured", zap.Error(err))
		} else {
			logger.Error("controller failed", zap.Error(err))
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		if c := httpErr.StatusCode(); c > 0 {
			code = c
		}
	}
	http.Error(w, http.StatusText(code), code)
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.code == 0 {
		s.code = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.code == 0 {
		s.code = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) status() int {
	if s.code == 0 {
		return http.StatusOK
	}
	return s.code
}
