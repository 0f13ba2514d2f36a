package httpform_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-multiform/pkg/controller"
	"github.com/goliatone/go-multiform/pkg/fieldform"
	"github.com/goliatone/go-multiform/pkg/form"
	"github.com/goliatone/go-multiform/pkg/httpform"
	"github.com/goliatone/go-multiform/pkg/plan"
	"github.com/goliatone/go-multiform/pkg/render"
)

type captureEngine struct {
	mu   sync.Mutex
	name string
	data map[string]any
	err  error
}

func (c *captureEngine) Render(name string, data any, out ...io.Writer) (string, error) {
	return c.RenderTemplate(name, data, out...)
}

func (c *captureEngine) RenderTemplate(name string, data any, _ ...io.Writer) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	c.name = name
	c.data, _ = data.(map[string]any)
	return "<page>" + name + "</page>", nil
}

func (c *captureEngine) RenderString(string, any, ...io.Writer) (string, error) {
	return "", errors.New("not supported")
}

func (c *captureEngine) RegisterFilter(string, func(any, any) (any, error)) error { return nil }

func (c *captureEngine) GlobalContext(any) error { return nil }

func (c *captureEngine) last() (string, map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name, c.data
}

func commentSchema() *fieldform.Schema {
	return fieldform.MustNew("comment", []fieldform.Field{
		{Name: "name", Type: fieldform.FieldTypeString, Required: true},
		{Name: "message", Type: fieldform.FieldTypeString, Required: true},
	})
}

func requestSchema() *fieldform.Schema {
	return fieldform.MustNew("request", []fieldform.Field{
		{Name: "email", Type: fieldform.FieldTypeEmail, Required: true},
		{Name: "request", Type: fieldform.FieldTypeString, Required: true},
	})
}

func newAlternative(t *testing.T) controller.Controller {
	t.Helper()
	ctrl, err := controller.NewAlternative(controller.DispatchConfig{
		Plan: plan.MustNew(
			plan.Single(plan.Descriptor{Name: "comment", Schema: commentSchema(), Prefix: "zxc"}),
			plan.Single(plan.Descriptor{Name: "request", Schema: requestSchema()}),
		),
		SuccessURLs: map[string]string{"comment": "/qwe", "request": "/asd"},
	})
	if err != nil {
		t.Fatalf("new alternative: %v", err)
	}
	return ctrl
}

func postForm(target string, data url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(data.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandlerRendersUnboundFormsOnGet(t *testing.T) {
	engine := &captureEngine{}
	handler := httpform.NewHandler(newAlternative(t), httpform.WithEngine(engine))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", got)
	}
	if rec.Body.String() != "<page>forms</page>" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected generated request id header")
	}

	name, data := engine.last()
	if name != "forms" {
		t.Fatalf("expected default template, got %q", name)
	}
	entries, ok := data["forms"].([]render.Entry)
	if !ok {
		t.Fatalf("expected []render.Entry in context, got %T", data["forms"])
	}
	var names []string
	for _, e := range entries {
		if e.Bound {
			t.Fatalf("entry %s should be unbound on GET", e.Name)
		}
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"comment", "request"}, names); diff != "" {
		t.Fatalf("entry order mismatch (-want +got):\n%s", diff)
	}
	wantMarkers := map[string]string{"comment": "comment_submit", "request": "request_submit"}
	if diff := cmp.Diff(wantMarkers, data["submit_names"]); diff != "" {
		t.Fatalf("submit names mismatch (-want +got):\n%s", diff)
	}
}

func TestHandlerRedirectsOnValidSubmission(t *testing.T) {
	handler := httpform.NewHandler(newAlternative(t), httpform.WithEngine(&captureEngine{}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, postForm("/", url.Values{
		"request_submit": {"1"},
		"email":          {"someone@example.com"},
		"request":        {"access"},
	}))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/asd" {
		t.Fatalf("expected redirect to /asd, got %q", loc)
	}
}

func TestHandlerRedisplaysInvalidSubmission(t *testing.T) {
	engine := &captureEngine{}
	handler := httpform.NewHandler(newAlternative(t), httpform.WithEngine(engine))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, postForm("/", url.Values{
		"comment_submit": {"1"},
		"zxc-name":       {"qwe"},
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	_, data := engine.last()
	byName, ok := data["form"].(map[string]render.Entry)
	if !ok {
		t.Fatalf("expected map of entries, got %T", data["form"])
	}
	comment := byName["comment"]
	if !comment.Bound || comment.Valid {
		t.Fatalf("expected bound invalid comment, got %+v", comment)
	}
	var messageErrors []string
	for _, f := range comment.Fields {
		if f.Name == "message" {
			messageErrors = f.Errors
		}
		if f.Name == "name" && f.Value != "qwe" {
			t.Fatalf("expected submitted value to be kept, got %q", f.Value)
		}
	}
	if diff := cmp.Diff([]string{"This field is required."}, messageErrors); diff != "" {
		t.Fatalf("message errors mismatch (-want +got):\n%s", diff)
	}
	if byName["request"].Bound {
		t.Fatalf("request form should stay unbound")
	}
}

func TestHandlerIgnoresQueryParameters(t *testing.T) {
	engine := &captureEngine{}
	handler := httpform.NewHandler(newAlternative(t), httpform.WithEngine(engine))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, postForm("/?request_submit=1&email=a@b.co&request=x", url.Values{}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected unbound render, got %d", rec.Code)
	}
	_, data := engine.last()
	for _, e := range data["forms"].([]render.Entry) {
		if e.Bound {
			t.Fatalf("query parameters must not bind %s", e.Name)
		}
	}
}

func TestHandlerParsesMultipartBodies(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("comment_submit", "1")
	_ = mw.WriteField("zxc-name", "qwe")
	_ = mw.WriteField("zxc-message", "hello")
	part, err := mw.CreateFormFile("attachment", "note.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write([]byte("attached"))
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	httpform.NewHandler(newAlternative(t), httpform.WithEngine(&captureEngine{})).ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/qwe" {
		t.Fatalf("expected redirect to /qwe, got %q", loc)
	}
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	handler := httpform.NewHandler(newAlternative(t), httpform.WithEngine(&captureEngine{}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if got := rec.Header().Get("Allow"); got != "GET, HEAD, POST, PUT" {
		t.Fatalf("unexpected Allow header %q", got)
	}
}

func TestHandlerHeadWritesNoBody(t *testing.T) {
	handler := httpform.NewHandler(newAlternative(t), httpform.WithEngine(&captureEngine{}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestHandlerRejectsOversizedBodies(t *testing.T) {
	handler := httpform.NewHandler(newAlternative(t),
		httpform.WithEngine(&captureEngine{}),
		httpform.WithMaxBodyBytes(16),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, postForm("/", url.Values{"zxc-message": {strings.Repeat("x", 256)}}))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

func TestHandlerWritesJSONResults(t *testing.T) {
	hooks := controller.NewHooks().OnFormValid("comment", func(context.Context, form.Form) (controller.Result, error) {
		return controller.JSON{Value: map[string]int{"qwe": 123}}, nil
	})
	ctrl, err := controller.NewAlternative(controller.DispatchConfig{
		Plan: plan.MustNew(
			plan.Single(plan.Descriptor{Name: "comment", Schema: commentSchema()}),
			plan.Single(plan.Descriptor{Name: "request", Schema: requestSchema()}),
		),
		SuccessURLs: map[string]string{"comment": "/qwe", "request": "/asd"},
		Hooks:       hooks,
	})
	if err != nil {
		t.Fatalf("new alternative: %v", err)
	}

	rec := httptest.NewRecorder()
	httpform.NewHandler(ctrl).ServeHTTP(rec, postForm("/", url.Values{
		"comment_submit": {"1"},
		"name":           {"qwe"},
		"message":        {"hello"},
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := rec.Body.String(); got != `{"qwe":123}` {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestHandlerMapsErrorsToStatus(t *testing.T) {
	teapot := httpform.StatusError{Code: http.StatusTeapot, Err: errors.New("brew")}
	hooks := controller.NewHooks().SuccessURL("request", func(context.Context) (string, error) {
		return "", teapot
	})
	ctrl, err := controller.NewAlternative(controller.DispatchConfig{
		Plan: plan.MustNew(
			plan.Single(plan.Descriptor{Name: "request", Schema: requestSchema()}),
		),
		SuccessURLs: map[string]string{"request": "/asd"},
		Hooks:       hooks,
	})
	if err != nil {
		t.Fatalf("new alternative: %v", err)
	}

	core, logs := observer.New(zapcore.DebugLevel)
	handler := httpform.NewHandler(ctrl, httpform.WithLogger(zap.New(core)))

	rec := httptest.NewRecorder()
	req := postForm("/", url.Values{
		"request_submit": {"1"},
		"email":          {"someone@example.com"},
		"request":        {"access"},
	})
	req.Header.Set("X-Request-ID", "req-42")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "req-42" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}
	entries := logs.FilterField(zap.String("request_id", "req-42")).All()
	if len(entries) == 0 {
		t.Fatalf("expected logs tagged with the request id")
	}
}

func TestHandlerGuardRejects(t *testing.T) {
	handler := httpform.NewHandler(newAlternative(t),
		httpform.WithEngine(&captureEngine{}),
		httpform.WithGuard(func(r *http.Request) error {
			if r.Header.Get("X-Token") == "" {
				return httpform.StatusError{Code: http.StatusUnauthorized}
			}
			return nil
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Token", "ok")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandlerRenderFailureIs500(t *testing.T) {
	handler := httpform.NewHandler(newAlternative(t), httpform.WithEngine(&captureEngine{err: errors.New("boom")}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHandlerContextFuncAndMarkers(t *testing.T) {
	engine := &captureEngine{}
	handler := httpform.NewHandler(newAlternative(t),
		httpform.WithEngine(engine),
		httpform.WithBuilder(render.NewBuilder(render.WithMarkerFields())),
		httpform.WithContext(func(r *http.Request, ctx render.Context) {
			ctx["title"] = "Contact"
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact?x=1", nil))

	_, data := engine.last()
	if data["title"] != "Contact" {
		t.Fatalf("expected context func data, got %v", data["title"])
	}
	if data["action"] != "/contact?x=1" {
		t.Fatalf("unexpected action %v", data["action"])
	}
	entries := data["forms"].([]render.Entry)
	want := []render.HiddenField{{Name: "comment_submit", Value: "1"}}
	if diff := cmp.Diff(want, entries[0].Hidden); diff != "" {
		t.Fatalf("marker fields mismatch (-want +got):\n%s", diff)
	}
}

func TestHandlerThemeSelectsTemplate(t *testing.T) {
	manifest := &theme.Manifest{
		Name:      "acme",
		Tokens:    map[string]string{"brand": "#123456"},
		Templates: map[string]string{"forms": "themes/acme/forms"},
		Assets: theme.Assets{
			Prefix: "/assets/acme",
			Files:  map[string]string{"stylesheet": "theme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens:    map[string]string{"brand": "#654321"},
				Templates: map[string]string{"forms": "themes/acme/dark/forms"},
			},
		},
	}
	selector, err := httpform.NewManifestSelector("acme", "", manifest)
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}

	tests := []struct {
		name     string
		variant  string
		template string
		brand    string
	}{
		{name: "base", variant: "", template: "themes/acme/forms", brand: "#123456"},
		{name: "variant", variant: "dark", template: "themes/acme/dark/forms", brand: "#654321"},
		{name: "unknown variant", variant: "neon", template: "themes/acme/forms", brand: "#123456"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &captureEngine{}
			handler := httpform.NewHandler(newAlternative(t),
				httpform.WithEngine(engine),
				httpform.WithTheme(selector, "", tt.variant),
			)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}

			name, data := engine.last()
			if name != tt.template {
				t.Fatalf("expected template %q, got %q", tt.template, name)
			}
			themeData, ok := data["theme"].(map[string]any)
			if !ok {
				t.Fatalf("expected theme data, got %T", data["theme"])
			}
			tokens := themeData["tokens"].(map[string]string)
			if tokens["brand"] != tt.brand {
				t.Fatalf("expected brand %q, got %q", tt.brand, tokens["brand"])
			}
			assets := themeData["assets"].(map[string]string)
			if assets["stylesheet"] != "/assets/acme/theme.css" {
				t.Fatalf("unexpected stylesheet url %q", assets["stylesheet"])
			}
		})
	}
}

func TestManifestSelectorErrors(t *testing.T) {
	if _, err := httpform.NewManifestSelector("", "", &theme.Manifest{}); err == nil {
		t.Fatalf("expected error for unnamed manifest")
	}
	selector, err := httpform.NewManifestSelector("acme", "")
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	if _, err := selector.Select("", ""); err == nil {
		t.Fatalf("expected error for unregistered theme")
	}
	if err := selector.Register(&theme.Manifest{Name: "acme"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := selector.Register(&theme.Manifest{Name: "acme"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestRegisterRoutes(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := httpform.RegisterRoutes(mux, "/forms/", newAlternative(t),
		httpform.WithEngine(&captureEngine{}),
		httpform.WithRoutePath("contact"),
	)
	if err != nil {
		t.Fatalf("register routes: %v", err)
	}
	if pattern != "/forms/contact" {
		t.Fatalf("unexpected pattern %q", pattern)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms/contact", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if _, err := httpform.RegisterRoutes(nil, "/", newAlternative(t)); err == nil {
		t.Fatalf("expected error for nil mux")
	}
	if _, err := httpform.RegisterRoutes(mux, "/", nil); err == nil {
		t.Fatalf("expected error for nil controller")
	}
}

func TestMountPath(t *testing.T) {
	tests := []struct {
		base, route, want string
	}{
		{"", "", "/"},
		{"/", "/", "/"},
		{"api", "", "/api"},
		{"/api/", "forms", "/api/forms"},
		{"", "forms", "/forms"},
	}
	for _, tt := range tests {
		if got := httpform.MountPath(tt.base, httpform.WithRoutePath(tt.route)); got != tt.want {
			t.Fatalf("MountPath(%q, %q) = %q, want %q", tt.base, tt.route, got, tt.want)
		}
	}
}
