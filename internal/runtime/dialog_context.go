package runtime

import (
	"context"

	"github.com/aretw0/waterfall/pkg/domain"
)

// DialogContext binds a stack to a dialog set for the duration of a turn.
// It is not safe for concurrent use: a conversation processes one turn at a time.
type DialogContext struct {
	dialogs *DialogSet
	stack   *domain.Stack
	turn    *TurnContext
	engine  *Engine
}

// Turn returns the turn being processed.
func (dc *DialogContext) Turn() *TurnContext {
	return dc.turn
}

// Stack returns the stack this context operates on.
func (dc *DialogContext) Stack() *domain.Stack {
	return dc.stack
}

// ActiveFrame returns the top frame, or nil when the stack is empty.
func (dc *DialogContext) ActiveFrame() *domain.DialogFrame {
	return dc.stack.Active()
}

// Child creates a context over an inner stack, used by dialogs that host their own dialogs.
func (dc *DialogContext) Child(dialogs *DialogSet, stack *domain.Stack) *DialogContext {
	return &DialogContext{
		dialogs: dialogs,
		stack:   stack,
		turn:    dc.turn,
		engine:  dc.engine,
	}
}

// Begin pushes a new frame for dialogID and starts the dialog with options.
func (dc *DialogContext) Begin(ctx context.Context, dialogID string, options any) (domain.TurnResult, error) {
	d, ok := dc.dialogs.Find(dialogID)
	if !ok {
		return domain.TurnResult{}, &domain.UnknownDialogError{DialogID: dialogID}
	}

	dc.stack.Push(domain.NewFrame(dialogID))
	dc.engine.emitDialogBegin(ctx, dc, dialogID)

	return d.Begin(ctx, dc, options)
}

// Continue resumes the active dialog with the current turn.
func (dc *DialogContext) Continue(ctx context.Context) (domain.TurnResult, error) {
	frame := dc.ActiveFrame()
	if frame == nil {
		return domain.TurnResult{}, domain.ErrEmptyStack
	}
	d, ok := dc.dialogs.Find(frame.DialogID)
	if !ok {
		return domain.TurnResult{}, &domain.UnknownDialogError{DialogID: frame.DialogID}
	}
	return d.Continue(ctx, dc)
}

// End pops the active dialog. The new top dialog, if any, resumes with result.
func (dc *DialogContext) End(ctx context.Context, result any) (domain.TurnResult, error) {
	if dc.ActiveFrame() == nil {
		return domain.TurnResult{}, domain.ErrEmptyStack
	}
	if err := dc.endActive(ctx, domain.EndReasonEnded, true); err != nil {
		return domain.TurnResult{}, err
	}

	parent := dc.ActiveFrame()
	if parent == nil {
		return domain.TurnResult{Status: domain.TurnComplete, Result: result}, nil
	}
	d, ok := dc.dialogs.Find(parent.DialogID)
	if !ok {
		return domain.TurnResult{}, &domain.UnknownDialogError{DialogID: parent.DialogID}
	}
	return d.Resume(ctx, dc, result)
}

// Replace swaps the active dialog for a new one without resuming the parent.
// The target is resolved before anything is popped.
func (dc *DialogContext) Replace(ctx context.Context, dialogID string, options any) (domain.TurnResult, error) {
	if dc.ActiveFrame() == nil {
		return domain.TurnResult{}, domain.ErrEmptyStack
	}
	if _, ok := dc.dialogs.Find(dialogID); !ok {
		return domain.TurnResult{}, &domain.UnknownDialogError{DialogID: dialogID}
	}
	if err := dc.endActive(ctx, domain.EndReasonReplaced, true); err != nil {
		return domain.TurnResult{}, err
	}
	return dc.Begin(ctx, dialogID, options)
}

// CancelAll pops every frame, top to bottom. When emitEvent is set each dialog is
// notified with EndReasonCancelled before its frame is removed.
func (dc *DialogContext) CancelAll(ctx context.Context, emitEvent bool) (domain.TurnResult, error) {
	if dc.stack.Depth() == 0 {
		return domain.TurnResult{Status: domain.TurnEmpty}, nil
	}
	for dc.stack.Depth() > 0 {
		if err := dc.endActive(ctx, domain.EndReasonCancelled, emitEvent); err != nil {
			return domain.TurnResult{}, err
		}
	}
	return domain.TurnResult{Status: domain.TurnCancelled}, nil
}

// endActive notifies (optionally) and pops the top frame.
func (dc *DialogContext) endActive(ctx context.Context, reason domain.EndReason, notify bool) error {
	frame := dc.ActiveFrame()
	if notify {
		if d, ok := dc.dialogs.Find(frame.DialogID); ok {
			if err := d.End(ctx, dc, frame, reason); err != nil {
				return err
			}
		}
	}
	popped, _ := dc.stack.Pop()
	dc.engine.emitDialogEnd(ctx, dc, popped.DialogID, reason)
	return nil
}
