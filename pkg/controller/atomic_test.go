package controller_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/goliatone/go-multiform/pkg/controller"
	"github.com/goliatone/go-multiform/pkg/plan"
	"github.com/goliatone/go-multiform/pkg/testsupport"
)

type atomicFixture struct {
	register *testsupport.Schema
	comment  *testsupport.Schema
	plan     plan.Plan
}

func newAtomicFixture(t *testing.T) atomicFixture {
	t.Helper()
	fx := atomicFixture{
		register: testsupport.RequireFields("username", "password"),
		comment:  testsupport.RequireFields("name", "message"),
	}
	fx.plan = plan.MustNew(
		plan.Single(plan.Descriptor{Name: "register", Schema: fx.register}),
		plan.Single(plan.Descriptor{Name: "comment", Schema: fx.comment, Prefix: "asd"}),
	)
	return fx
}

func validAtomicData() url.Values {
	return url.Values{
		"username":    {"qwe"},
		"password":    {"qweqwe"},
		"asd-name":    {"asd"},
		"asd-message": {"hello"},
	}
}

func TestAtomicRedirectsWhenAllValid(t *testing.T) {
	fx := newAtomicFixture(t)
	ctrl, err := controller.NewAtomic(controller.AtomicConfig{Plan: fx.plan, SuccessURL: "home"})
	if err != nil {
		t.Fatalf("new atomic: %v", err)
	}

	result, err := ctrl.Handle(context.Background(), controller.Post(validAtomicData()))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	redirect, ok := result.(controller.Redirect)
	if !ok {
		t.Fatalf("expected redirect, got %#v", result)
	}
	if redirect.Target != "home" {
		t.Fatalf("expected redirect to home, got %q", redirect.Target)
	}
}

func TestAtomicInvalidRedisplaysAllForms(t *testing.T) {
	fx := newAtomicFixture(t)
	ctrl, err := controller.NewAtomic(controller.AtomicConfig{Plan: fx.plan, SuccessURL: "home"})
	if err != nil {
		t.Fatalf("new atomic: %v", err)
	}

	data := validAtomicData()
	data.Set("username", "")
	result, err := ctrl.Handle(context.Background(), controller.Post(data))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	render, ok := result.(controller.Render)
	if !ok {
		t.Fatalf("expected render, got %#v", result)
	}

	register, _ := render.View.Forms.Form("register")
	comment, _ := render.View.Forms.Form("comment")
	if register.IsValid() {
		t.Fatalf("expected register to be invalid")
	}
	if !comment.IsValid() {
		t.Fatalf("expected comment to be valid: %v", comment.Errors())
	}
	if got := register.Errors()["username"]; len(got) != 1 {
		t.Fatalf("expected username error, got %v", register.Errors())
	}
	if render.View.SubmitNames != nil {
		t.Fatalf("atomic views carry no submit names, got %v", render.View.SubmitNames)
	}
}

func TestAtomicAllOrNothing(t *testing.T) {
	fields := []string{"username", "password", "asd-name", "asd-message"}

	// Every subset of missing fields: redirect iff nothing is missing.
	for mask := 0; mask < 1<<len(fields); mask++ {
		fx := newAtomicFixture(t)
		ctrl, err := controller.NewAtomic(controller.AtomicConfig{Plan: fx.plan, SuccessURL: "home"})
		if err != nil {
			t.Fatalf("new atomic: %v", err)
		}
		data := validAtomicData()
		for i, field := range fields {
			if mask&(1<<i) != 0 {
				data.Del(field)
			}
		}

		result, err := ctrl.Handle(context.Background(), controller.Post(data))
		if err != nil {
			t.Fatalf("mask %b: handle: %v", mask, err)
		}
		_, redirected := result.(controller.Redirect)
		if redirected != (mask == 0) {
			t.Fatalf("mask %b: redirected=%v", mask, redirected)
		}
		if !redirected {
			render := result.(controller.Render)
			if got := len(render.View.Forms.Names()); got != 2 {
				t.Fatalf("mask %b: expected both forms in context, got %d", mask, got)
			}
		}
	}
}

func TestAtomicValidatesEveryForm(t *testing.T) {
	fx := newAtomicFixture(t)
	ctrl, err := controller.NewAtomic(controller.AtomicConfig{Plan: fx.plan, SuccessURL: "home"})
	if err != nil {
		t.Fatalf("new atomic: %v", err)
	}

	result, err := ctrl.Handle(context.Background(), controller.Post(url.Values{}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	render := result.(controller.Render)
	for _, name := range []string{"register", "comment"} {
		f, _ := render.View.Forms.Form(name)
		if got := f.(*testsupport.Form).Validations; got != 1 {
			t.Fatalf("%s: expected validation to run once, got %d", name, got)
		}
	}
}

func TestAtomicGetRendersUnboundForms(t *testing.T) {
	fx := newAtomicFixture(t)
	ctrl, err := controller.NewAtomic(controller.AtomicConfig{Plan: fx.plan, SuccessURL: "home"})
	if err != nil {
		t.Fatalf("new atomic: %v", err)
	}

	result, err := ctrl.Handle(context.Background(), controller.Get())
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	render, ok := result.(controller.Render)
	if !ok {
		t.Fatalf("expected render, got %#v", result)
	}
	for _, name := range []string{"register", "comment"} {
		f, ok := render.View.Forms.Form(name)
		if !ok {
			t.Fatalf("missing form %s", name)
		}
		if f.IsBound() {
			t.Fatalf("%s should be unbound on GET", name)
		}
	}
	args, _ := fx.comment.LastCall()
	if args.Prefix != "asd" {
		t.Fatalf("expected static prefix, got %q", args.Prefix)
	}
}

func TestAtomicHooksShortCircuit(t *testing.T) {
	fx := newAtomicFixture(t)
	var seen []string
	ctrl, err := controller.NewAtomic(controller.AtomicConfig{
		Plan:       fx.plan,
		SuccessURL: "home",
		FormsValid: func(_ context.Context, forms controller.FormSet) (controller.Result, error) {
			seen = forms.Names()
			return controller.JSON{Value: map[string]int{"qwe": 123}}, nil
		},
	})
	if err != nil {
		t.Fatalf("new atomic: %v", err)
	}

	result, err := ctrl.Handle(context.Background(), controller.Post(validAtomicData()))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	resp, err := testsupport.Respond(result)
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if resp.ContentType != "application/json" || string(resp.Body) != `{"qwe":123}` {
		t.Fatalf("unexpected custom response: %q %q", resp.ContentType, resp.Body)
	}
	if len(seen) != 2 || seen[0] != "register" || seen[1] != "comment" {
		t.Fatalf("hook received unexpected forms: %v", seen)
	}
}

func TestAtomicInvalidHookFallsThroughOnNil(t *testing.T) {
	fx := newAtomicFixture(t)
	called := false
	ctrl, err := controller.NewAtomic(controller.AtomicConfig{
		Plan:       fx.plan,
		SuccessURL: "home",
		FormsInvalid: func(context.Context, controller.FormSet) (controller.Result, error) {
			called = true
			return nil, nil
		},
	})
	if err != nil {
		t.Fatalf("new atomic: %v", err)
	}

	result, err := ctrl.Handle(context.Background(), controller.Post(url.Values{}))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !called {
		t.Fatalf("expected invalid hook to run")
	}
	if _, ok := result.(controller.Render); !ok {
		t.Fatalf("expected render, got %#v", result)
	}
}

func TestAtomicHookErrorPropagates(t *testing.T) {
	fx := newAtomicFixture(t)
	boom := errors.New("boom")
	ctrl, err := controller.NewAtomic(controller.AtomicConfig{
		Plan:       fx.plan,
		SuccessURL: "home",
		FormsValid: func(context.Context, controller.FormSet) (controller.Result, error) {
			return nil, boom
		},
	})
	if err != nil {
		t.Fatalf("new atomic: %v", err)
	}

	if _, err := ctrl.Handle(context.Background(), controller.Post(validAtomicData())); err != boom {
		t.Fatalf("expected hook error unmodified, got %v", err)
	}
}

func TestAtomicSuccessURLFuncWins(t *testing.T) {
	fx := newAtomicFixture(t)
	ctrl, err := controller.NewAtomic(controller.AtomicConfig{
		Plan:       fx.plan,
		SuccessURL: "home",
		SuccessURLFunc: func(context.Context) (string, error) {
			return "/dynamic", nil
		},
	})
	if err != nil {
		t.Fatalf("new atomic: %v", err)
	}
	result, err := ctrl.Handle(context.Background(), controller.Post(validAtomicData()))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := result.(controller.Redirect).Target; got != "/dynamic" {
		t.Fatalf("expected override target, got %q", got)
	}
}

func TestNewAtomicConfigurationErrors(t *testing.T) {
	fx := newAtomicFixture(t)
	grouped := plan.MustNew(plan.Group("pair", plan.Descriptor{Name: "a", Schema: fx.register}))

	cases := []struct {
		name string
		cfg  controller.AtomicConfig
	}{
		{name: "missing plan", cfg: controller.AtomicConfig{SuccessURL: "home"}},
		{name: "missing success url", cfg: controller.AtomicConfig{Plan: fx.plan}},
		{name: "groups rejected", cfg: controller.AtomicConfig{Plan: grouped, SuccessURL: "home"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := controller.NewAtomic(tc.cfg)
			if !errors.Is(err, controller.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestAtomicRejectsUnsupportedMethod(t *testing.T) {
	fx := newAtomicFixture(t)
	ctrl, err := controller.NewAtomic(controller.AtomicConfig{Plan: fx.plan, SuccessURL: "home"})
	if err != nil {
		t.Fatalf("new atomic: %v", err)
	}
	_, err = ctrl.Handle(context.Background(), controller.Request{Method: "DELETE"})
	if !errors.Is(err, controller.ErrMethodNotAllowed) {
		t.Fatalf("expected method not allowed, got %v", err)
	}
}

func TestAtomicPutBindsLikePost(t *testing.T) {
	fx := newAtomicFixture(t)
	ctrl, err := controller.NewAtomic(controller.AtomicConfig{Plan: fx.plan, SuccessURL: "home"})
	if err != nil {
		t.Fatalf("new atomic: %v", err)
	}
	result, err := ctrl.Handle(context.Background(), controller.Request{Method: "PUT", Data: validAtomicData()})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if _, ok := result.(controller.Redirect); !ok {
		t.Fatalf("expected redirect, got %#v", result)
	}
}

func TestAtomicKwargsHookOverridesStaticValues(t *testing.T) {
	fx := newAtomicFixture(t)
	hooks := controller.NewHooks().FormKwargs("register", func(context.Context, controller.Request) (controller.Kwargs, error) {
		return controller.Kwargs{Initial: map[string]any{"username": "qwe"}, Prefix: "qwe"}, nil
	})
	ctrl, err := controller.NewAtomic(controller.AtomicConfig{Plan: fx.plan, SuccessURL: "home", Hooks: hooks})
	if err != nil {
		t.Fatalf("new atomic: %v", err)
	}
	if _, err := ctrl.Handle(context.Background(), controller.Get()); err != nil {
		t.Fatalf("handle: %v", err)
	}
	args, _ := fx.register.LastCall()
	if args.Prefix != "qwe" || args.Initial["username"] != "qwe" {
		t.Fatalf("expected kwargs hook values, got %#v", args)
	}
}
