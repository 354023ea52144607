package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/waterfall/pkg/domain"
)

// stateInnerStack is the frame state key holding a component's inner stack.
const stateInnerStack = "dialogs"

// Component is a dialog that hosts its own set of dialogs on an inner stack.
// When the inner stack stops waiting the component ends with the inner result.
type Component struct {
	id        string
	initialID string
	dialogs   *DialogSet
}

// NewComponent creates a component. initialID must be one of dialogs.
func NewComponent(id, initialID string, dialogs ...Dialog) (*Component, error) {
	set, err := NewDialogSet(dialogs...)
	if err != nil {
		return nil, fmt.Errorf("component %s: %w", id, err)
	}
	if _, ok := set.Find(initialID); !ok {
		return nil, fmt.Errorf("component %s: initial %w", id, &domain.UnknownDialogError{DialogID: initialID})
	}
	return &Component{
		id:        id,
		initialID: initialID,
		dialogs:   set,
	}, nil
}

// ID implements Dialog.
func (c *Component) ID() string {
	return c.id
}

// Begin implements Dialog.
func (c *Component) Begin(ctx context.Context, dc *DialogContext, options any) (domain.TurnResult, error) {
	inner := domain.NewStack(dc.Stack().ConversationID)
	dc.ActiveFrame().State[stateInnerStack] = inner

	res, err := dc.Child(c.dialogs, inner).Begin(ctx, c.initialID, options)
	return c.settle(ctx, dc, res, err)
}

// Continue implements Dialog.
func (c *Component) Continue(ctx context.Context, dc *DialogContext) (domain.TurnResult, error) {
	inner := c.innerStack(dc.ActiveFrame())
	if inner.Depth() == 0 {
		return dc.End(ctx, nil)
	}
	res, err := dc.Child(c.dialogs, inner).Continue(ctx)
	return c.settle(ctx, dc, res, err)
}

// Resume implements Dialog. Components never push on the outer stack, so a
// resumption only re-arms the wait.
func (c *Component) Resume(ctx context.Context, dc *DialogContext, result any) (domain.TurnResult, error) {
	return EndOfTurn, nil
}

// End implements Dialog. A cancelled component cancels its children first.
func (c *Component) End(ctx context.Context, dc *DialogContext, frame *domain.DialogFrame, reason domain.EndReason) error {
	if reason != domain.EndReasonCancelled {
		return nil
	}
	_, err := dc.Child(c.dialogs, c.innerStack(frame)).CancelAll(ctx, true)
	return err
}

func (c *Component) settle(ctx context.Context, dc *DialogContext, res domain.TurnResult, err error) (domain.TurnResult, error) {
	if err != nil {
		return domain.TurnResult{}, err
	}
	if res.Status == domain.TurnWaiting {
		return res, nil
	}
	return dc.End(ctx, res.Result)
}

func (c *Component) innerStack(frame *domain.DialogFrame) *domain.Stack {
	if inner, ok := frame.State[stateInnerStack].(*domain.Stack); ok && inner != nil {
		return inner
	}
	inner := domain.NewStack("")
	frame.State[stateInnerStack] = inner
	return inner
}
