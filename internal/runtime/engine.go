package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/waterfall/internal/logging"
	"github.com/aretw0/waterfall/pkg/domain"
)

// Engine runs turns against a conversation's stack.
type Engine struct {
	dialogs *DialogSet
	rootID  string
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRootDialog sets the dialog begun when a conversation has an empty stack.
// Defaults to the first registered dialog.
func WithRootDialog(dialogID string) EngineOption {
	return func(e *Engine) {
		e.rootID = dialogID
	}
}

// NewEngine creates an engine over a dialog set.
func NewEngine(dialogs *DialogSet, opts ...EngineOption) *Engine {
	e := &Engine{
		dialogs: dialogs,
		logger:  logging.NewNop(),
	}
	if ids := dialogs.IDs(); len(ids) > 0 {
		e.rootID = ids[0]
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RootDialogID returns the dialog begun on an empty stack.
func (e *Engine) RootDialogID() string {
	return e.rootID
}

// NewDialogContext binds stack to the engine's dialog set for one turn.
// Operations mutate stack in place.
func (e *Engine) NewDialogContext(turn *TurnContext, stack *domain.Stack) *DialogContext {
	return &DialogContext{
		dialogs: e.dialogs,
		stack:   stack,
		turn:    turn,
		engine:  e,
	}
}

// Run processes one turn. It continues the active dialog, or begins the root dialog
// when the stack is empty. The given stack is never mutated: Run works on a clone and
// returns it, so a failed turn leaves the caller with the pre-turn stack.
func (e *Engine) Run(ctx context.Context, turn *TurnContext, stack *domain.Stack) (domain.TurnResult, *domain.Stack, error) {
	started := time.Now()

	working := stack.Clone()
	if working == nil {
		working = domain.NewStack(turn.Activity.ConversationID)
	}
	if working.ConversationID == "" {
		working.ConversationID = turn.Activity.ConversationID
	}

	res, err := e.run(ctx, e.NewDialogContext(turn, working))

	e.emitTurnComplete(ctx, working, res, time.Since(started), err)
	if err != nil {
		e.logger.ErrorContext(ctx, "turn failed, stack left unchanged",
			"conversation_id", working.ConversationID,
			"depth", stack.Depth(),
			"err", err,
		)
		return domain.TurnResult{}, stack, err
	}

	e.logger.DebugContext(ctx, "turn processed",
		"conversation_id", working.ConversationID,
		"status", res.Status,
		"stack", working.IDs(),
	)
	return res, working, nil
}

func (e *Engine) run(ctx context.Context, dc *DialogContext) (domain.TurnResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.TurnResult{}, err
	}
	if dc.stack.Depth() > 0 {
		return dc.Continue(ctx)
	}
	if e.rootID == "" {
		return domain.TurnResult{}, fmt.Errorf("no root dialog configured: %w", domain.ErrUnknownDialog)
	}
	return dc.Begin(ctx, e.rootID, nil)
}

func (e *Engine) emitDialogBegin(ctx context.Context, dc *DialogContext, dialogID string) {
	e.logger.DebugContext(ctx, "dialog begin", "dialog_id", dialogID, "depth", dc.stack.Depth())
	if e.hooks.OnDialogBegin != nil {
		e.hooks.OnDialogBegin(ctx, &domain.DialogEvent{
			EventBase: e.base(domain.EventDialogBegin, dc.stack),
			DialogID:  dialogID,
			Depth:     dc.stack.Depth(),
		})
	}
}

func (e *Engine) emitDialogEnd(ctx context.Context, dc *DialogContext, dialogID string, reason domain.EndReason) {
	e.logger.DebugContext(ctx, "dialog end", "dialog_id", dialogID, "reason", reason, "depth", dc.stack.Depth())
	if e.hooks.OnDialogEnd != nil {
		e.hooks.OnDialogEnd(ctx, &domain.DialogEvent{
			EventBase: e.base(domain.EventDialogEnd, dc.stack),
			DialogID:  dialogID,
			Depth:     dc.stack.Depth(),
			Reason:    reason,
		})
	}
}

func (e *Engine) emitStep(ctx context.Context, dc *DialogContext, dialogID string, index int) {
	e.logger.DebugContext(ctx, "waterfall step", "dialog_id", dialogID, "step", index)
	if e.hooks.OnStep != nil {
		e.hooks.OnStep(ctx, &domain.StepEvent{
			EventBase: e.base(domain.EventStep, dc.stack),
			DialogID:  dialogID,
			StepIndex: index,
		})
	}
}

func (e *Engine) emitTurnComplete(ctx context.Context, stack *domain.Stack, res domain.TurnResult, elapsed time.Duration, err error) {
	if e.hooks.OnTurnComplete != nil {
		e.hooks.OnTurnComplete(ctx, &domain.TurnEvent{
			EventBase: e.base(domain.EventTurnComplete, stack),
			Status:    res.Status,
			Depth:     stack.Depth(),
			Duration:  elapsed,
			Err:       err,
		})
	}
}

func (e *Engine) base(t domain.EventType, stack *domain.Stack) domain.EventBase {
	return domain.EventBase{
		Timestamp:      time.Now(),
		Type:           t,
		ConversationID: stack.ConversationID,
	}
}
