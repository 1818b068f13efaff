// Package metrics exposes dialog engine activity as Prometheus collectors.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/aretw0/dialcode/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dialcode"

// Collector groups the engine's Prometheus metrics.
type Collector struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ScreenVisits    *prometheus.CounterVec
	InvalidChoices  *prometheus.CounterVec
	Completed       prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Gateway requests handled, by entry mode and outcome.",
			},
			[]string{"mode", "outcome"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Time spent handling a gateway request.",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"mode"},
		),
		ScreenVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "screen_visits_total",
				Help:      "Screens rendered to subscribers, including re-prompts.",
			},
			[]string{"screen"},
		),
		InvalidChoices: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invalid_choices_total",
				Help:      "Choices rejected by a screen.",
			},
			[]string{"screen"},
		),
		Completed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_completed_total",
				Help:      "Dialogs that reached their summary.",
			},
		),
	}
	reg.MustRegister(c.Requests, c.RequestDuration, c.ScreenVisits, c.InvalidChoices, c.Completed)
	return c
}

// ObserveRequest records the outcome of one request.
func (c *Collector) ObserveRequest(mode, outcome string, d time.Duration) {
	c.Requests.WithLabelValues(mode, outcome).Inc()
	c.RequestDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// Hooks returns lifecycle hooks that feed the collectors.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnScreenEnter: func(_ context.Context, e *domain.ScreenEvent) {
			c.ScreenVisits.WithLabelValues(strconv.Itoa(e.Screen)).Inc()
		},
		OnChoiceRejected: func(_ context.Context, e *domain.ChoiceEvent) {
			c.InvalidChoices.WithLabelValues(strconv.Itoa(e.Screen)).Inc()
		},
		OnComplete: func(_ context.Context, _ *domain.CompleteEvent) {
			c.Completed.Inc()
		},
	}
}

// Chain combines several hook sets; each callback runs in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		h := h
		if h.OnScreenEnter != nil {
			prev := out.OnScreenEnter
			out.OnScreenEnter = func(ctx context.Context, e *domain.ScreenEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnScreenEnter(ctx, e)
			}
		}
		if h.OnChoiceRejected != nil {
			prev := out.OnChoiceRejected
			out.OnChoiceRejected = func(ctx context.Context, e *domain.ChoiceEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnChoiceRejected(ctx, e)
			}
		}
		if h.OnComplete != nil {
			prev := out.OnComplete
			out.OnComplete = func(ctx context.Context, e *domain.CompleteEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnComplete(ctx, e)
			}
		}
		if h.OnRequestFailed != nil {
			prev := out.OnRequestFailed
			out.OnRequestFailed = func(ctx context.Context, e *domain.FailureEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnRequestFailed(ctx, e)
			}
		}
	}
	return out
}
