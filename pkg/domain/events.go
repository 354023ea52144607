package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDialogBegin  EventType = "dialog_begin"
	EventDialogEnd    EventType = "dialog_end"
	EventStep         EventType = "step"
	EventTurnComplete EventType = "turn_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp      time.Time `json:"timestamp"`
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id"`
}

// DialogEvent represents a frame entering or leaving the stack.
type DialogEvent struct {
	EventBase
	DialogID string    `json:"dialog_id"`
	Depth    int       `json:"depth"`
	Reason   EndReason `json:"reason,omitempty"`
}

// StepEvent represents a waterfall step invocation.
type StepEvent struct {
	EventBase
	DialogID  string `json:"dialog_id"`
	StepIndex int    `json:"step_index"`
}

// TurnEvent summarizes a processed turn.
type TurnEvent struct {
	EventBase
	Status   TurnStatus    `json:"status"`
	Depth    int           `json:"depth"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnDialogBegin  func(context.Context, *DialogEvent)
	OnDialogEnd    func(context.Context, *DialogEvent)
	OnStep         func(context.Context, *StepEvent)
	OnTurnComplete func(context.Context, *TurnEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnDialogBegin:  chain(h.OnDialogBegin, other.OnDialogBegin),
		OnDialogEnd:    chain(h.OnDialogEnd, other.OnDialogEnd),
		OnStep:         chain(h.OnStep, other.OnStep),
		OnTurnComplete: chain(h.OnTurnComplete, other.OnTurnComplete),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
