package multiform_test

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-multiform"
	"github.com/goliatone/go-multiform/pkg/form"
	"github.com/goliatone/go-multiform/pkg/testsupport"
)

func TestAtomicFacadeRedirects(t *testing.T) {
	ctrl, err := multiform.Atomic("/done", []multiform.Descriptor{
		{Name: "a", Schema: testsupport.RequireFields("x")},
		{Name: "b", Schema: testsupport.RequireFields("y"), Prefix: "b"},
	}, nil)
	if err != nil {
		t.Fatalf("atomic: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(url.Values{"x": {"1"}, "b-y": {"2"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	multiform.Handler(ctrl).ServeHTTP(rec, req)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/done" {
		t.Fatalf("expected redirect to /done, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestAlternativeFacadeRejectsDuplicates(t *testing.T) {
	schema := testsupport.RequireFields("x")
	_, err := multiform.Alternative(map[string]string{"a": "/a"}, []multiform.Descriptor{
		{Name: "a", Schema: schema},
		{Name: "a", Schema: schema},
	}, nil)
	if !errors.Is(err, multiform.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLoadControllers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forms.yaml")
	doc := `
controllers:
  - name: support
    policy: alternative
    success_urls: {Request: /thanks}
    entries:
      - {name: Request, kind: Request}
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	reg := form.NewRegistry()
	_, err := multiform.LoadOpenAPI(context.Background(), []byte(`
openapi: 3.0.3
info: {title: Support, version: "1.0"}
paths: {}
components:
  schemas:
    Request:
      type: object
      required: [email]
      properties:
        email: {type: string}
`), reg)
	if err != nil {
		t.Fatalf("load openapi: %v", err)
	}

	built, err := multiform.LoadControllers(path, reg, nil)
	if err != nil {
		t.Fatalf("load controllers: %v", err)
	}
	result, err := built[0].Controller.Handle(context.Background(), testsupport.PostMarked("Request", url.Values{"email": {"a@b.co"}}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	resp, err := testsupport.Respond(result)
	if err != nil || resp.RedirectTo != "/thanks" {
		t.Fatalf("expected redirect to /thanks, got %+v (%v)", resp, err)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.Stat(multiform.EmbeddedTemplates(), "forms.html"); err != nil {
		t.Fatalf("expected forms.html: %v", err)
	}
}
