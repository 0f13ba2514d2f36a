package controller

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-multiform/internal/lifecycle"
)

// Controller handles one request end to end.
type Controller interface {
	Handle(ctx context.Context, req Request) (Result, error)
}

type serveFunc func(ctx context.Context, machine *lifecycle.Machine, req Request) (Result, Outcome, error)

// run wraps a serve function with the shared request bookkeeping: context
// checks, a fresh lifecycle machine, logging and observation.
func (s settings) run(ctx context.Context, req Request, serve serveFunc) (Result, error) {
	if ctx == nil {
		return nil, errors.New("controller: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	machine := lifecycle.New(s.logger)
	result, outcome, err := serve(ctx, machine, req)
	if err != nil {
		outcome = OutcomeFailed
		if errors.Is(err, ErrConfiguration) {
			s.logger.Error("configuration error", zap.String("method", req.Method), zap.Error(err))
		} else if !errors.Is(err, ErrMethodNotAllowed) {
			s.logger.Error("request failed", zap.String("method", req.Method), zap.Error(err))
		}
	} else {
		s.logger.Debug("request handled",
			zap.String("method", req.Method),
			zap.String("outcome", string(outcome)),
			zap.String("phase", machine.Current()),
		)
	}
	s.observer.ObserveRequest(s.name, MethodLabel(req.Method), outcome, time.Since(start))
	return result, err
}
