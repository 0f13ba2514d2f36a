package controller

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/goliatone/go-multiform/internal/lifecycle"
	"github.com/goliatone/go-multiform/pkg/plan"
)

// DispatchConfig configures the marker-dispatched controllers.
type DispatchConfig struct {
	Plan plan.Plan
	// SuccessURLs maps top-level names to redirect targets. Names with a
	// SuccessURL hook may be omitted.
	SuccessURLs map[string]string
	Hooks       *Hooks
}

// dispatcher implements marker dispatch for Alternative and Hybrid.
type dispatcher struct {
	settings
	plan   plan.Plan
	kwargs KwargsResolver
	router SuccessRouter
	hooks  *Hooks
}

func newDispatcher(kind string, cfg DispatchConfig, options ...Option) (*dispatcher, error) {
	if cfg.Plan.Len() == 0 {
		return nil, &ConfigurationError{Reason: kind + " controller requires a plan"}
	}
	router := NewSuccessRouter(cfg.SuccessURLs, cfg.Hooks)
	names := cfg.Plan.Names()
	err := multierr.Combine(
		router.Validate(names...),
		router.unknownRoutes(names...),
		cfg.Hooks.validate(cfg.Plan, false),
	)
	if err != nil {
		return nil, err
	}
	return &dispatcher{
		settings: newSettings(kind, options...),
		plan:     cfg.Plan,
		kwargs:   NewKwargsResolver(cfg.Plan, BindOnMarker, cfg.Hooks),
		router:   router,
		hooks:    cfg.Hooks.clone(),
	}, nil
}

func (d *dispatcher) Handle(ctx context.Context, req Request) (Result, error) {
	return d.run(ctx, req, d.serve)
}

func (d *dispatcher) serve(ctx context.Context, machine *lifecycle.Machine, req Request) (Result, Outcome, error) {
	switch {
	case req.IsDisplay():
		if err := machine.Fire(ctx, lifecycle.EventRender); err != nil {
			return nil, OutcomeFailed, err
		}
		forms, err := buildForms(ctx, d.plan, d.kwargs, req)
		if err != nil {
			return nil, OutcomeFailed, err
		}
		return d.render(forms), OutcomeRendered, nil
	case req.IsSubmit():
		return d.dispatch(ctx, machine, req)
	default:
		return nil, OutcomeFailed, ErrMethodNotAllowed
	}
}

func (d *dispatcher) dispatch(ctx context.Context, machine *lifecycle.Machine, req Request) (Result, Outcome, error) {
	if err := machine.Fire(ctx, lifecycle.EventDispatch); err != nil {
		return nil, OutcomeFailed, err
	}
	forms, err := buildForms(ctx, d.plan, d.kwargs, req)
	if err != nil {
		return nil, OutcomeFailed, err
	}

	entry, ok := d.plan.Match(req.Data)
	if !ok {
		if err := machine.Fire(ctx, lifecycle.EventMiss); err != nil {
			return nil, OutcomeFailed, err
		}
		d.logger.Debug("no submission marker in request")
		return d.render(forms), OutcomeUnmatched, nil
	}
	if err := machine.Fire(ctx, lifecycle.EventMatch); err != nil {
		return nil, OutcomeFailed, err
	}

	name := entry.EntryName()
	d.logger.Debug("submission matched", zap.String("entry", name))

	var (
		valid  bool
		result Result
	)
	switch e := entry.(type) {
	case *plan.SingleEntry:
		f, _ := forms.Form(name)
		valid = f.IsValid()
		if err := d.fire(ctx, machine, valid); err != nil {
			return nil, OutcomeFailed, err
		}
		hook, found := lookup(d.hooks.formValid, name)
		if !valid {
			hook, found = lookup(d.hooks.formInvalid, name)
		}
		if found && hook != nil {
			if result, err = hook(ctx, f); err != nil {
				return nil, OutcomeFailed, err
			}
		}
	case *plan.GroupEntry:
		group, _ := forms.Group(e.Name)
		valid = group.AllValid()
		if err := d.fire(ctx, machine, valid); err != nil {
			return nil, OutcomeFailed, err
		}
		hook, found := lookup(d.hooks.formsValid, name)
		if !valid {
			hook, found = lookup(d.hooks.formsInvalid, name)
		}
		if found && hook != nil {
			if result, err = hook(ctx, group); err != nil {
				return nil, OutcomeFailed, err
			}
		}
	}

	if result != nil {
		return result, OutcomeCustom, nil
	}
	if !valid {
		return d.render(forms), OutcomeRedisplayed, nil
	}

	target, err := d.router.Resolve(ctx, name)
	if err != nil {
		return nil, OutcomeFailed, err
	}
	return Redirect{Target: target}, OutcomeRedirected, nil
}

func (d *dispatcher) fire(ctx context.Context, machine *lifecycle.Machine, valid bool) error {
	if valid {
		return machine.Fire(ctx, lifecycle.EventValid)
	}
	return machine.Fire(ctx, lifecycle.EventInvalid)
}

func (d *dispatcher) render(forms Forms) Result {
	return Render{View: View{Forms: forms, SubmitNames: d.plan.SubmitNames()}}
}
