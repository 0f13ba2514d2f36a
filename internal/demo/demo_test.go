package demo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-multiform/internal/demo"
	"github.com/goliatone/go-multiform/pkg/config"
	"github.com/goliatone/go-multiform/pkg/controller"
	"github.com/goliatone/go-multiform/pkg/testsupport"
)

func newServer(t *testing.T, opts demo.Options) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	if _, err := demo.Mount(mux, opts); err != nil {
		t.Fatalf("mount: %v", err)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func noRedirectClient() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := noRedirectClient().Get(srv.URL + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	defer resp.Body.Close()
	var body strings.Builder
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, body.String()
}

func post(t *testing.T, srv *httptest.Server, path string, data url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := noRedirectClient().PostForm(srv.URL+path, data)
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	defer resp.Body.Close()
	var body strings.Builder
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body.String()
}

func requireContains(t *testing.T, body string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in body:\n%s", fragment, body)
		}
	}
}

func TestRegisterAndCommentPage(t *testing.T) {
	srv := newServer(t, demo.Options{})

	status, body := get(t, srv, "/qwe-and-asd")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	requireContains(t, body,
		`name="username"`, `value="qwe"`,
		`name="asd-name"`, `value="asd"`,
		`type="password"`,
	)

	resp, body := post(t, srv, "/qwe-and-asd", url.Values{
		"username":    {"qwe"},
		"password":    {"qweqwe"},
		"asd-name":    {"asd"},
		"asd-message": {"hello"},
	})
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("expected JSON response, got %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if body != `{"asd":456,"qwe":123}` {
		t.Fatalf("unexpected body %q", body)
	}

	resp, body = post(t, srv, "/qwe-and-asd", url.Values{
		"username": {"qwe"},
		"password": {"qweqwe"},
		"asd-name": {"asd"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected redisplay, got %d", resp.StatusCode)
	}
	requireContains(t, body, "This field is required.", `name="asd-message"`)
}

func TestCommentOrRequestPage(t *testing.T) {
	srv := newServer(t, demo.Options{})

	status, body := get(t, srv, "/qwe-or-asd")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	requireContains(t, body,
		`name="comment_submit"`, `name="request_submit"`,
		`name="zxc-name"`, `value="asd@asd.asd"`,
	)

	resp, _ := post(t, srv, "/qwe-or-asd", url.Values{
		"request_submit": {"1"},
		"email":          {"someone@example.com"},
		"request":        {"access please"},
	})
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != demo.PathQwe {
		t.Fatalf("expected redirect to %s, got %d %q", demo.PathQwe, resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, body = post(t, srv, "/qwe-or-asd", url.Values{
		"comment_submit": {"1"},
		"zxc-name":       {"qwe"},
		"zxc-message":    {"hello"},
	})
	if resp.StatusCode != http.StatusOK || body != `{"qwe":123}` {
		t.Fatalf("expected comment JSON, got %d %q", resp.StatusCode, body)
	}

	resp, body = post(t, srv, "/qwe-or-asd", url.Values{
		"request_submit": {"1"},
		"email":          {"not-an-email"},
		"request":        {"x"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected redisplay, got %d", resp.StatusCode)
	}
	requireContains(t, body, "Enter a valid email address.", `value="not-an-email"`)
}

func TestFirstCommentOrRequestPage(t *testing.T) {
	srv := newServer(t, demo.Options{})

	status, body := get(t, srv, "/qwe-and-asd-or-zxc")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	requireContains(t, body,
		`name="first_comment_submit"`, `name="qwe-username"`, `name="message"`,
		`value="zxc@zxc.zxc"`,
	)

	resp, _ := post(t, srv, "/qwe-and-asd-or-zxc", url.Values{
		"first_comment_submit": {"1"},
		"qwe-username":         {"qwe"},
		"qwe-password":         {"qweqwe"},
		"name":                 {"asd"},
		"message":              {"hello"},
	})
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != demo.PathQweAsd {
		t.Fatalf("expected redirect to %s, got %d %q", demo.PathQweAsd, resp.StatusCode, resp.Header.Get("Location"))
	}

	status, body = get(t, srv, demo.PathQweAsd)
	if status != http.StatusOK {
		t.Fatalf("expected landing page, got %d", status)
	}
	requireContains(t, body, "<h1>qweasd</h1>", `href="/qwe-or-asd"`)
}

func TestHooksLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctrl, err := demo.NewFirstCommentOrRequest(zap.New(core))
	if err != nil {
		t.Fatalf("new hybrid: %v", err)
	}
	result, err := ctrl.Handle(context.Background(), controller.Post(url.Values{
		"first_comment_submit": {"1"},
		"qwe-username":         {"qwe"},
		"qwe-password":         {"qweqwe"},
		"name":                 {"asd"},
		"message":              {"hello"},
	}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, err := testsupport.Respond(result); err != nil {
		t.Fatalf("respond: %v", err)
	}

	entries := logs.FilterMessage("first_comment forms valid").All()
	if len(entries) != 1 {
		t.Fatalf("expected one hook log entry, got %d", len(entries))
	}
	got, _ := entries[0].ContextMap()["forms"].([]interface{})
	if diff := cmp.Diff([]interface{}{"register", "comment"}, got); diff != "" {
		t.Fatalf("logged forms mismatch (-want +got):\n%s", diff)
	}
}

func TestMountDocumentControllers(t *testing.T) {
	doc, err := config.Parse([]byte(`
controllers:
  - name: feedback
    policy: alternative
    path: /feedback
    success_urls: {comment: /qwe, request: /asd}
    entries:
      - {name: comment, kind: comment}
      - {name: request, kind: request}
`), "feedback.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	srv := newServer(t, demo.Options{Document: &doc})

	status, body := get(t, srv, "/feedback")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	requireContains(t, body, `name="comment_submit"`, `name="email"`)

	resp, _ := post(t, srv, "/feedback", url.Values{
		"comment_submit": {"1"},
		"name":           {"qwe"},
		"message":        {"hello"},
	})
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/qwe" {
		t.Fatalf("expected redirect to /qwe, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestRegistryKinds(t *testing.T) {
	if diff := cmp.Diff([]string{"comment", "register", "request"}, demo.Registry().List()); diff != "" {
		t.Fatalf("registry kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestThemeVariantTokens(t *testing.T) {
	srv := newServer(t, demo.Options{Theme: demo.Themes(), ThemeVariant: "dark"})

	status, body := get(t, srv, "/qwe-or-asd")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	requireContains(t, body, "--color-background: #111827;")
}
