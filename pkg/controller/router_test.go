package controller_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-multiform/pkg/controller"
)

func TestSuccessRouterMissingRoute(t *testing.T) {
	router := controller.NewSuccessRouter(map[string]string{"comment": "/comments"}, nil)

	_, err := router.Resolve(context.Background(), "request")
	if !errors.Is(err, controller.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	var cfgErr *controller.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Name != "request" {
		t.Fatalf("expected error naming request, got %v", err)
	}
}

func TestSuccessRouterOverridePrecedence(t *testing.T) {
	hooks := controller.NewHooks().
		SuccessURL("comment", func(context.Context) (string, error) { return "/override", nil }).
		SuccessURL("request", func(context.Context) (string, error) { return "", nil })
	router := controller.NewSuccessRouter(map[string]string{"comment": "/comments", "request": "/requests"}, hooks)

	cases := map[string]string{
		"comment": "/override",
		"request": "/requests",
	}
	for name, want := range cases {
		got, err := router.Resolve(context.Background(), name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got != want {
			t.Fatalf("%s: expected %q, got %q", name, want, got)
		}
	}
}

func TestSuccessRouterOverrideError(t *testing.T) {
	boom := errors.New("boom")
	hooks := controller.NewHooks().SuccessURL("comment", func(context.Context) (string, error) { return "", boom })
	router := controller.NewSuccessRouter(map[string]string{"comment": "/comments"}, hooks)

	if _, err := router.Resolve(context.Background(), "comment"); err != boom {
		t.Fatalf("expected override error, got %v", err)
	}
}

func TestSuccessRouterValidateAggregates(t *testing.T) {
	hooks := controller.NewHooks().SuccessURL("b", func(context.Context) (string, error) { return "/b", nil })
	router := controller.NewSuccessRouter(map[string]string{"a": "/a"}, hooks)

	if err := router.Validate("a", "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := router.Validate("a", "c", "d")
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, name := range []string{"c", "d"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("expected %q in %v", name, err)
		}
	}
}

func TestSuccessRouterCopiesInputs(t *testing.T) {
	routes := map[string]string{"a": "/a"}
	hooks := controller.NewHooks()
	router := controller.NewSuccessRouter(routes, hooks)

	routes["a"] = "/mutated"
	hooks.SuccessURL("a", func(context.Context) (string, error) { return "/hook", nil })

	got, err := router.Resolve(context.Background(), "a")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "/a" {
		t.Fatalf("router must not observe later mutations, got %q", got)
	}
}
