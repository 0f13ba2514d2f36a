package controller

// Hybrid serves alternative top-level entries where each entry is either a
// single form or a group of forms that share one submission marker and
// validate atomically.
type Hybrid struct {
	*dispatcher
}

var _ Controller = (*Hybrid)(nil)

// NewHybrid validates cfg and returns the controller.
func NewHybrid(cfg DispatchConfig, options ...Option) (*Hybrid, error) {
	d, err := newDispatcher("hybrid", cfg, options...)
	if err != nil {
		return nil, err
	}
	return &Hybrid{dispatcher: d}, nil
}
