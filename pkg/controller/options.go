package controller

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// Outcome classifies how a request ended; observers use it as a label.
type Outcome string

const (
	OutcomeRendered    Outcome = "rendered"
	OutcomeRedirected  Outcome = "redirected"
	OutcomeCustom      Outcome = "custom"
	OutcomeRedisplayed Outcome = "redisplayed"
	OutcomeUnmatched   Outcome = "unmatched"
	OutcomeFailed      Outcome = "failed"
)

// Observer receives one call per handled request.
type Observer interface {
	ObserveRequest(controller, method string, outcome Outcome, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(string, string, Outcome, time.Duration) {}

// Option customises a controller.
type Option func(*settings)

type settings struct {
	name     string
	logger   *zap.Logger
	observer Observer
}

// WithName labels the controller in logs and metrics.
func WithName(name string) Option {
	return func(s *settings) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			s.name = trimmed
		}
	}
}

// WithLogger injects a zap logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver registers an Observer, such as metrics.Collector.
func WithObserver(observer Observer) Option {
	return func(s *settings) {
		if observer != nil {
			s.observer = observer
		}
	}
}

func newSettings(kind string, options ...Option) settings {
	s := settings{
		name:     kind,
		logger:   zap.NewNop(),
		observer: nopObserver{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&s)
	}
	s.logger = s.logger.With(zap.String("controller", s.name))
	return s
}
