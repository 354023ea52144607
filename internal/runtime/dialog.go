package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/waterfall/pkg/domain"
)

// Dialog is a reusable unit of multi-turn conversational logic.
//
// The frame of a dialog is always the active frame of dc when Begin, Continue and
// Resume are called.
type Dialog interface {
	// ID returns the identifier the dialog is registered under.
	ID() string

	// Begin is called right after the dialog's frame has been pushed.
	Begin(ctx context.Context, dc *DialogContext, options any) (domain.TurnResult, error)

	// Continue is called when a new turn arrives and the dialog is on top of the stack.
	Continue(ctx context.Context, dc *DialogContext) (domain.TurnResult, error)

	// Resume is called when a child dialog ended and the dialog is on top again.
	Resume(ctx context.Context, dc *DialogContext, result any) (domain.TurnResult, error)

	// End notifies the dialog that its frame is about to be removed.
	End(ctx context.Context, dc *DialogContext, frame *domain.DialogFrame, reason domain.EndReason) error
}

// DialogSet is the registry of dialogs that can be begun from a DialogContext.
type DialogSet struct {
	dialogs map[string]Dialog
	order   []string
}

// NewDialogSet creates a set holding the given dialogs.
func NewDialogSet(dialogs ...Dialog) (*DialogSet, error) {
	s := &DialogSet{
		dialogs: make(map[string]Dialog),
	}
	for _, d := range dialogs {
		if err := s.Add(d); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add registers a dialog. Ids must be unique and non-empty.
func (s *DialogSet) Add(d Dialog) error {
	if d == nil {
		return fmt.Errorf("cannot register nil dialog")
	}
	id := d.ID()
	if id == "" {
		return fmt.Errorf("cannot register dialog with empty id")
	}
	if _, exists := s.dialogs[id]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateDialog, id)
	}
	s.dialogs[id] = d
	s.order = append(s.order, id)
	return nil
}

// Find returns the dialog registered under id.
func (s *DialogSet) Find(id string) (Dialog, bool) {
	d, ok := s.dialogs[id]
	return d, ok
}

// IDs returns the registered ids in registration order.
func (s *DialogSet) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
