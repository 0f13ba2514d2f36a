package controller

import (
	"context"
	"maps"

	"github.com/goliatone/go-multiform/pkg/form"
	"github.com/goliatone/go-multiform/pkg/plan"
)

// BindPolicy decides when submitted data is bound to a form.
type BindPolicy int

const (
	// BindOnSubmit binds every form on POST/PUT. Used by Atomic controllers.
	BindOnSubmit BindPolicy = iota
	// BindOnMarker binds only the forms owned by the entry selected by the
	// request's first submission marker.
	BindOnMarker
)

// KwargsResolver builds form construction arguments from the request, the
// descriptor's static values and any registered kwargs hook.
type KwargsResolver struct {
	plan   plan.Plan
	policy BindPolicy
	hooks  *Hooks
}

// NewKwargsResolver returns a resolver for p. hooks may be nil.
func NewKwargsResolver(p plan.Plan, policy BindPolicy, hooks *Hooks) KwargsResolver {
	return KwargsResolver{plan: p, policy: policy, hooks: hooks.clone()}
}

// Resolve returns the arguments for descriptor d owned by the top-level
// entry scope. For single entries scope equals d.Name.
func (r KwargsResolver) Resolve(ctx context.Context, req Request, scope string, d plan.Descriptor) (form.Args, error) {
	var args form.Args
	if r.binds(req, scope) {
		args.Data = req.Data
		if args.Data == nil {
			args.Data = map[string][]string{}
		}
		args.Files = req.Files
	}

	if len(d.Initial) > 0 {
		args.Initial = maps.Clone(d.Initial)
	}
	args.Prefix = d.Prefix

	if fn, ok := lookup(r.hooks.kwargs, d.Name); ok && fn != nil {
		kw, err := fn(ctx, req)
		if err != nil {
			return form.Args{}, err
		}
		if kw.Initial != nil {
			args.Initial = maps.Clone(kw.Initial)
		}
		if kw.Prefix != "" {
			args.Prefix = kw.Prefix
		}
	}
	return args, nil
}

func (r KwargsResolver) binds(req Request, scope string) bool {
	if !req.IsSubmit() {
		return false
	}
	switch r.policy {
	case BindOnMarker:
		entry, ok := r.plan.Match(req.Data)
		return ok && entry.EntryName() == scope
	default:
		return true
	}
}

func buildForms(ctx context.Context, p plan.Plan, kw KwargsResolver, req Request) (Forms, error) {
	var forms Forms
	for _, entry := range p.Entries() {
		switch e := entry.(type) {
		case *plan.SingleEntry:
			f, err := buildForm(ctx, kw, req, e.Descriptor.Name, e.Descriptor)
			if err != nil {
				return Forms{}, err
			}
			forms.add(Bound{Name: e.Descriptor.Name, Form: f})
		case *plan.GroupEntry:
			group := &FormSet{}
			for _, d := range e.Forms {
				f, err := buildForm(ctx, kw, req, e.Name, d)
				if err != nil {
					return Forms{}, err
				}
				group.add(d.Name, f)
			}
			forms.add(Bound{Name: e.Name, Group: group})
		}
	}
	return forms, nil
}

func buildForm(ctx context.Context, kw KwargsResolver, req Request, scope string, d plan.Descriptor) (form.Form, error) {
	args, err := kw.Resolve(ctx, req, scope, d)
	if err != nil {
		return nil, err
	}
	f := d.Schema.NewForm(args)
	if f == nil {
		groupScope := scope
		if groupScope == d.Name {
			groupScope = ""
		}
		return nil, &ConfigurationError{Scope: groupScope, Name: d.Name, Reason: "schema returned a nil form"}
	}
	return f, nil
}
