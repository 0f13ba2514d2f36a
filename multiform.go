package multiform

import (
	"net/http"

	"github.com/goliatone/go-multiform/pkg/config"
	"github.com/goliatone/go-multiform/pkg/controller"
	"github.com/goliatone/go-multiform/pkg/form"
	"github.com/goliatone/go-multiform/pkg/httpform"
	"github.com/goliatone/go-multiform/pkg/plan"
)

// Controller aliases controller.Controller for callers that only need the
// top-level package.
type Controller = controller.Controller

// Hooks aliases the controller hook registry.
type Hooks = controller.Hooks

// Descriptor declares one form of a plan.
type Descriptor = plan.Descriptor

// Plan is a validated submission plan.
type Plan = plan.Plan

// ErrConfiguration is matched by every configuration error.
var ErrConfiguration = controller.ErrConfiguration

// NewHooks returns an empty hook registry.
func NewHooks() *Hooks {
	return controller.NewHooks()
}

// Forms builds a plan of single entries, one per descriptor.
func Forms(descriptors ...Descriptor) (Plan, error) {
	entries := make([]plan.Entry, 0, len(descriptors))
	for _, d := range descriptors {
		entries = append(entries, plan.Single(d))
	}
	return plan.New(entries...)
}

// Atomic serves forms that must all validate before redirecting to
// successURL.
func Atomic(successURL string, forms []Descriptor, hooks *Hooks, options ...controller.Option) (*controller.Atomic, error) {
	p, err := Forms(forms...)
	if err != nil {
		return nil, err
	}
	return controller.NewAtomic(controller.AtomicConfig{Plan: p, SuccessURL: successURL, Hooks: hooks}, options...)
}

// Alternative serves forms submitted one at a time, each redirecting to its
// entry in successURLs.
func Alternative(successURLs map[string]string, forms []Descriptor, hooks *Hooks, options ...controller.Option) (*controller.Alternative, error) {
	p, err := Forms(forms...)
	if err != nil {
		return nil, err
	}
	return controller.NewAlternative(controller.DispatchConfig{Plan: p, SuccessURLs: successURLs, Hooks: hooks}, options...)
}

// Handler exposes ctrl over net/http.
func Handler(ctrl Controller, options ...httpform.OptionFn) http.Handler {
	return httpform.NewHandler(ctrl, options...)
}

// LoadControllers reads a controller document from path and builds every
// controller in it against reg.
func LoadControllers(path string, reg *form.Registry, wiring map[string]config.Wiring, options ...controller.Option) ([]config.Built, error) {
	doc, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return doc.Build(reg, wiring, options...)
}
