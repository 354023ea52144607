package runtime

import (
	"context"

	"github.com/aretw0/waterfall/pkg/domain"
)

// stateOptions is the frame state key holding the options a waterfall was begun with.
const stateOptions = "options"

// EndOfTurn suspends the waterfall until the next turn's input arrives.
var EndOfTurn = domain.TurnResult{Status: domain.TurnWaiting}

// Step is one stage of a waterfall.
type Step func(ctx context.Context, step *StepContext) (domain.TurnResult, error)

// Waterfall is a dialog made of an ordered, linear sequence of steps.
type Waterfall struct {
	id    string
	steps []Step
}

// NewWaterfall creates a waterfall dialog. The step list is copied.
func NewWaterfall(id string, steps ...Step) *Waterfall {
	return &Waterfall{
		id:    id,
		steps: append([]Step(nil), steps...),
	}
}

// ID implements Dialog.
func (w *Waterfall) ID() string {
	return w.id
}

// Len returns the number of steps.
func (w *Waterfall) Len() int {
	return len(w.steps)
}

// Begin implements Dialog. The first step receives options and a nil result.
func (w *Waterfall) Begin(ctx context.Context, dc *DialogContext, options any) (domain.TurnResult, error) {
	frame := dc.ActiveFrame()
	if options != nil {
		frame.State[stateOptions] = options
	}
	return w.runStep(ctx, dc, 0, nil)
}

// Continue implements Dialog. Only message activities move the waterfall forward;
// anything else keeps it waiting on the same step.
func (w *Waterfall) Continue(ctx context.Context, dc *DialogContext) (domain.TurnResult, error) {
	activity := dc.Turn().Activity
	if activity.Type != domain.ActivityMessage {
		return EndOfTurn, nil
	}
	return w.Resume(ctx, dc, activity.Text)
}

// Resume implements Dialog: the step after the stored index runs with result.
func (w *Waterfall) Resume(ctx context.Context, dc *DialogContext, result any) (domain.TurnResult, error) {
	frame := dc.ActiveFrame()
	return w.runStep(ctx, dc, frame.StepIndex+1, result)
}

// End implements Dialog. Waterfalls keep no resources.
func (w *Waterfall) End(ctx context.Context, dc *DialogContext, frame *domain.DialogFrame, reason domain.EndReason) error {
	return nil
}

func (w *Waterfall) runStep(ctx context.Context, dc *DialogContext, index int, result any) (domain.TurnResult, error) {
	if index >= len(w.steps) {
		return dc.End(ctx, nil)
	}
	if err := ctx.Err(); err != nil {
		return domain.TurnResult{}, err
	}

	frame := dc.ActiveFrame()
	frame.StepIndex = index

	step := &StepContext{
		DialogContext: dc,
		waterfall:     w,
		index:         index,
		depth:         dc.stack.Depth(),
		options:       frame.State[stateOptions],
		result:        result,
		state:         frame.State,
	}
	dc.engine.emitStep(ctx, dc, w.id, index)

	res, err := w.steps[index](ctx, step)
	if err != nil {
		return domain.TurnResult{}, err
	}
	if !res.Status.Valid() {
		return domain.TurnResult{}, &domain.StepContractViolation{
			DialogID:  w.id,
			StepIndex: index,
			Reason:    "step returned no recognized action",
		}
	}
	return res, nil
}

// StepContext is the per-step handle given to a waterfall step.
// The embedded DialogContext exposes Begin, Replace, End and CancelAll.
type StepContext struct {
	*DialogContext

	waterfall *Waterfall
	index     int
	depth     int
	options   any
	result    any
	state     map[string]any
	advanced  bool
}

// Index returns the position of the running step.
func (s *StepContext) Index() int {
	return s.index
}

// Options returns the options the waterfall was begun with.
func (s *StepContext) Options() any {
	return s.options
}

// SetOptions replaces the options stored for later steps.
func (s *StepContext) SetOptions(options any) {
	s.options = options
	s.state[stateOptions] = options
}

// Result returns the previous step's result, the resumed input, or a child's result.
func (s *StepContext) Result() any {
	return s.result
}

// State returns the dialog instance's private state.
func (s *StepContext) State() map[string]any {
	return s.state
}

// Activity returns the incoming activity of the turn.
func (s *StepContext) Activity() domain.Activity {
	return s.Turn().Activity
}

// EndOfTurn suspends the waterfall on the current step.
func (s *StepContext) EndOfTurn() (domain.TurnResult, error) {
	return EndOfTurn, nil
}

// Next runs the following step immediately with result.
func (s *StepContext) Next(ctx context.Context, result any) (domain.TurnResult, error) {
	if s.advanced {
		return domain.TurnResult{}, &domain.StepContractViolation{
			DialogID:  s.waterfall.id,
			StepIndex: s.index,
			Reason:    "Next called more than once",
		}
	}
	frame := s.ActiveFrame()
	if frame == nil || frame.DialogID != s.waterfall.id || s.stack.Depth() != s.depth || frame.StepIndex != s.index {
		return domain.TurnResult{}, &domain.StepContractViolation{
			DialogID:  s.waterfall.id,
			StepIndex: s.index,
			Reason:    "Next called after the stack changed",
		}
	}
	s.advanced = true
	return s.waterfall.runStep(ctx, s.DialogContext, s.index+1, result)
}
