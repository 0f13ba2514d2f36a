package controller

import (
	"context"
	"strings"

	"github.com/goliatone/go-multiform/internal/lifecycle"
	"github.com/goliatone/go-multiform/pkg/plan"
)

// AtomicConfig configures an Atomic controller.
type AtomicConfig struct {
	// Plan must contain single entries only.
	Plan plan.Plan
	// SuccessURL is the redirect target after every form validated.
	SuccessURL string
	// SuccessURLFunc overrides SuccessURL when it returns a non-empty target.
	SuccessURLFunc SuccessURLHook
	// FormsValid and FormsInvalid receive every form of the plan.
	FormsValid   GroupHook
	FormsInvalid GroupHook
	// Hooks supplies per-form kwargs hooks.
	Hooks *Hooks
}

// Atomic validates every form of its plan together.
type Atomic struct {
	settings
	plan         plan.Plan
	kwargs       KwargsResolver
	successURL   string
	successFn    SuccessURLHook
	formsValid   GroupHook
	formsInvalid GroupHook
}

var _ Controller = (*Atomic)(nil)

// NewAtomic validates cfg and returns the controller.
func NewAtomic(cfg AtomicConfig, options ...Option) (*Atomic, error) {
	if cfg.Plan.Len() == 0 {
		return nil, &ConfigurationError{Reason: "atomic controller requires a plan"}
	}
	if !cfg.Plan.Flat() {
		return nil, &ConfigurationError{Reason: "atomic controller does not accept groups"}
	}
	if strings.TrimSpace(cfg.SuccessURL) == "" && cfg.SuccessURLFunc == nil {
		return nil, &ConfigurationError{Reason: "atomic controller requires a success url"}
	}
	if err := cfg.Hooks.validate(cfg.Plan, true); err != nil {
		return nil, err
	}

	return &Atomic{
		settings:     newSettings("atomic", options...),
		plan:         cfg.Plan,
		kwargs:       NewKwargsResolver(cfg.Plan, BindOnSubmit, cfg.Hooks),
		successURL:   strings.TrimSpace(cfg.SuccessURL),
		successFn:    cfg.SuccessURLFunc,
		formsValid:   cfg.FormsValid,
		formsInvalid: cfg.FormsInvalid,
	}, nil
}

// Handle implements Controller.
func (a *Atomic) Handle(ctx context.Context, req Request) (Result, error) {
	return a.run(ctx, req, a.serve)
}

func (a *Atomic) serve(ctx context.Context, machine *lifecycle.Machine, req Request) (Result, Outcome, error) {
	switch {
	case req.IsDisplay():
		if err := machine.Fire(ctx, lifecycle.EventRender); err != nil {
			return nil, OutcomeFailed, err
		}
		forms, err := buildForms(ctx, a.plan, a.kwargs, req)
		if err != nil {
			return nil, OutcomeFailed, err
		}
		return Render{View: View{Forms: forms}}, OutcomeRendered, nil
	case req.IsSubmit():
		return a.submit(ctx, machine, req)
	default:
		return nil, OutcomeFailed, ErrMethodNotAllowed
	}
}

func (a *Atomic) submit(ctx context.Context, machine *lifecycle.Machine, req Request) (Result, Outcome, error) {
	if err := machine.Fire(ctx, lifecycle.EventSubmit); err != nil {
		return nil, OutcomeFailed, err
	}
	forms, err := buildForms(ctx, a.plan, a.kwargs, req)
	if err != nil {
		return nil, OutcomeFailed, err
	}
	set := forms.Set()

	if set.AllValid() {
		if err := machine.Fire(ctx, lifecycle.EventValid); err != nil {
			return nil, OutcomeFailed, err
		}
		if a.formsValid != nil {
			result, err := a.formsValid(ctx, set)
			if err != nil {
				return nil, OutcomeFailed, err
			}
			if result != nil {
				return result, OutcomeCustom, nil
			}
		}
		target, err := a.resolveSuccessURL(ctx)
		if err != nil {
			return nil, OutcomeFailed, err
		}
		return Redirect{Target: target}, OutcomeRedirected, nil
	}

	if err := machine.Fire(ctx, lifecycle.EventInvalid); err != nil {
		return nil, OutcomeFailed, err
	}
	if a.formsInvalid != nil {
		result, err := a.formsInvalid(ctx, set)
		if err != nil {
			return nil, OutcomeFailed, err
		}
		if result != nil {
			return result, OutcomeCustom, nil
		}
	}
	return Render{View: View{Forms: forms}}, OutcomeRedisplayed, nil
}

func (a *Atomic) resolveSuccessURL(ctx context.Context) (string, error) {
	if a.successFn != nil {
		target, err := a.successFn(ctx)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(target) != "" {
			return target, nil
		}
	}
	if a.successURL != "" {
		return a.successURL, nil
	}
	return "", &ConfigurationError{Reason: "no redirect target for atomic controller"}
}
