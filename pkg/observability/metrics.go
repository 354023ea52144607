package observability

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "qnabot"

// Metrics records dialog activity.
type Metrics struct {
	dialogsBegun *prometheus.CounterVec
	dialogsEnded *prometheus.CounterVec
	steps        *prometheus.CounterVec
	turns        *prometheus.CounterVec
	turnErrors   prometheus.Counter
	turnDuration prometheus.Histogram
	stackDepth   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		dialogsBegun: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dialogs_begun_total",
				Help:      "Dialogs pushed on a stack.",
			},
			[]string{"dialog_id"},
		),
		dialogsEnded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dialogs_ended_total",
				Help:      "Dialogs popped from a stack, by reason.",
			},
			[]string{"dialog_id", "reason"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "waterfall_steps_total",
				Help:      "Waterfall steps executed.",
			},
			[]string{"dialog_id", "step"},
		),
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "turns_total",
				Help:      "Turns processed, by resulting status.",
			},
			[]string{"status"},
		),
		turnErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turn_errors_total",
			Help:      "Turns that failed and were rolled back.",
		}),
		turnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Time spent processing a turn.",
			Buckets:   prometheus.DefBuckets,
		}),
		stackDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stack_depth",
			Help:      "Dialog stack depth at the end of a turn.",
			Buckets:   prometheus.LinearBuckets(0, 1, 6),
		}),
	}

	for _, c := range []prometheus.Collector{
		m.dialogsBegun, m.dialogsEnded, m.steps, m.turns,
		m.turnErrors, m.turnDuration, m.stackDepth,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDialogBegin: func(ctx context.Context, e *domain.DialogEvent) {
			m.dialogsBegun.WithLabelValues(e.DialogID).Inc()
		},
		OnDialogEnd: func(ctx context.Context, e *domain.DialogEvent) {
			m.dialogsEnded.WithLabelValues(e.DialogID, string(e.Reason)).Inc()
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			m.steps.WithLabelValues(e.DialogID, strconv.Itoa(e.StepIndex)).Inc()
		},
		OnTurnComplete: func(ctx context.Context, e *domain.TurnEvent) {
			m.turnDuration.Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.turnErrors.Inc()
				return
			}
			m.turns.WithLabelValues(string(e.Status)).Inc()
			m.stackDepth.Observe(float64(e.Depth))
		},
	}
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
