package config

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/goliatone/go-multiform/pkg/controller"
	"github.com/goliatone/go-multiform/pkg/form"
	"github.com/goliatone/go-multiform/pkg/plan"
)

// Wiring carries the code-side callbacks of a controller built from a
// document. SuccessURL, FormsValid and FormsInvalid apply to atomic
// controllers only; dispatching controllers register everything on Hooks.
type Wiring struct {
	Hooks        *controller.Hooks
	SuccessURL   controller.SuccessURLHook
	FormsValid   controller.GroupHook
	FormsInvalid controller.GroupHook
}

// Built pairs a controller with the spec it was built from.
type Built struct {
	Spec       ControllerSpec
	Controller controller.Controller
}

// Plan resolves the spec's form kinds against reg.
func (s ControllerSpec) Plan(reg *form.Registry) (plan.Plan, error) {
	if reg == nil {
		return plan.Plan{}, fmt.Errorf("config: controller %q: registry is required", s.Name)
	}

	var errs error
	entries := make([]plan.Entry, 0, len(s.Entries))
	for _, entry := range s.Entries {
		if !entry.IsGroup() {
			d, err := descriptor(reg, entry.Name, entry.Kind, entry.Prefix, entry.Initial)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("config: controller %q: entry %q: %w", s.Name, entry.Name, err))
				continue
			}
			entries = append(entries, plan.Single(d))
			continue
		}

		members := make([]plan.Descriptor, 0, len(entry.Forms))
		for _, member := range entry.Forms {
			d, err := descriptor(reg, member.Name, member.Kind, member.Prefix, member.Initial)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("config: controller %q: entry %q.%q: %w", s.Name, entry.Name, member.Name, err))
				continue
			}
			members = append(members, d)
		}
		entries = append(entries, plan.Group(entry.Name, members...))
	}
	if errs != nil {
		return plan.Plan{}, errs
	}
	return plan.New(entries...)
}

// Build constructs the controller described by s. The controller name
// defaults to the spec name.
func (s ControllerSpec) Build(reg *form.Registry, wiring Wiring, options ...controller.Option) (controller.Controller, error) {
	p, err := s.Plan(reg)
	if err != nil {
		return nil, err
	}
	options = append([]controller.Option{controller.WithName(s.Name)}, options...)

	var (
		ctrl controller.Controller
		cfg  = controller.DispatchConfig{Plan: p, SuccessURLs: s.SuccessURLs, Hooks: wiring.Hooks}
	)
	switch s.Policy {
	case PolicyAtomic:
		ctrl, err = controller.NewAtomic(controller.AtomicConfig{
			Plan:           p,
			SuccessURL:     s.SuccessURL,
			SuccessURLFunc: wiring.SuccessURL,
			FormsValid:     wiring.FormsValid,
			FormsInvalid:   wiring.FormsInvalid,
			Hooks:          wiring.Hooks,
		}, options...)
	case PolicyAlternative:
		ctrl, err = controller.NewAlternative(cfg, options...)
	case PolicyHybrid:
		ctrl, err = controller.NewHybrid(cfg, options...)
	default:
		err = fmt.Errorf("config: controller %q: unknown policy %q", s.Name, s.Policy)
	}
	if err != nil {
		return nil, err
	}
	return ctrl, nil
}

// Build constructs every controller in the document. wiring is keyed by
// controller name; missing names get no callbacks. All failures are
// reported together.
func (d Document) Build(reg *form.Registry, wiring map[string]Wiring, options ...controller.Option) ([]Built, error) {
	var errs error
	built := make([]Built, 0, len(d.Controllers))
	for _, spec := range d.Controllers {
		ctrl, err := spec.Build(reg, wiring[spec.Name], options...)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		built = append(built, Built{Spec: spec, Controller: ctrl})
	}
	if errs != nil {
		return nil, errs
	}
	return built, nil
}

func descriptor(reg *form.Registry, name, kind, prefix string, initial map[string]any) (plan.Descriptor, error) {
	kind = strings.TrimSpace(kind)
	schema, err := reg.Get(kind)
	if err != nil {
		return plan.Descriptor{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = kind
	}
	return plan.Descriptor{
		Name:    strings.TrimSpace(name),
		Schema:  schema,
		Prefix:  strings.TrimSpace(prefix),
		Initial: initial,
	}, nil
}
