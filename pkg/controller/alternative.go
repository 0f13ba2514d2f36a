package controller

// Alternative serves several independent forms; a POST validates only the
// form whose submission marker appears first in plan order.
type Alternative struct {
	*dispatcher
}

var _ Controller = (*Alternative)(nil)

// NewAlternative validates cfg and returns the controller. The plan must be
// flat and every name needs a success route or a SuccessURL hook.
func NewAlternative(cfg DispatchConfig, options ...Option) (*Alternative, error) {
	if cfg.Plan.Len() > 0 && !cfg.Plan.Flat() {
		return nil, &ConfigurationError{Reason: "alternative controller does not accept groups"}
	}
	d, err := newDispatcher("alternative", cfg, options...)
	if err != nil {
		return nil, err
	}
	return &Alternative{dispatcher: d}, nil
}
