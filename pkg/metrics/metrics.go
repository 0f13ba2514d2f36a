package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-multiform/pkg/controller"
)

const (
	namespace = "multiform"
	subsystem = "controller"
)

// Collector records controller requests as Prometheus metrics. It implements
// controller.Observer; pass it with controller.WithObserver.
type Collector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ controller.Observer = (*Collector)(nil)

// NewCollector returns an unregistered Collector.
func NewCollector() *Collector {
	return &Collector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of handled requests by controller, method and outcome.",
			},
			[]string{"controller", "method", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Time spent handling a request, excluding response rendering.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"controller", "outcome"},
		),
	}
}

// Register adds the collector's metrics to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	if reg == nil {
		return fmt.Errorf("metrics: registerer is required")
	}
	for _, col := range []prometheus.Collector{c.requests, c.duration} {
		if err := reg.Register(col); err != nil {
			return fmt.Errorf("metrics: register: %w", err)
		}
	}
	return nil
}

// MustRegister panics when Register fails.
func (c *Collector) MustRegister(reg prometheus.Registerer) *Collector {
	if err := c.Register(reg); err != nil {
		panic(err)
	}
	return c
}

// ObserveRequest implements controller.Observer.
func (c *Collector) ObserveRequest(name, method string, outcome controller.Outcome, elapsed time.Duration) {
	c.requests.WithLabelValues(name, controller.MethodLabel(method), string(outcome)).Inc()
	c.duration.WithLabelValues(name, string(outcome)).Observe(elapsed.Seconds())
}
