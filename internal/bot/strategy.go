package bot

import (
	"context"
	"fmt"

	"github.com/aretw0/waterfall/internal/qna"
	"github.com/aretw0/waterfall/internal/runtime"
	"github.com/aretw0/waterfall/pkg/domain"
)

// Trace sent when a user is routed to the complaint flow.
const (
	ComplaintTraceName  = "ComplaintDialog Triggered Trace"
	ComplaintTraceLabel = "User Error"
)

// SampleStrategy acts on Classify's decision in the slots enabled by its flags
// and delegates to the built-in steps everywhere else.
type SampleStrategy struct {
	OverrideMultiTurnStep  bool
	OverrideDisplayQnAStep bool
}

var _ qna.Strategy = SampleStrategy{}

// OnMultiTurnCheck implements qna.Strategy.
func (s SampleStrategy) OnMultiTurnCheck(ctx context.Context, step *runtime.StepContext, base runtime.Step) (domain.TurnResult, error) {
	if !s.OverrideMultiTurnStep {
		return base(ctx, step)
	}

	decision := Classify(qna.Results(step.Result()))
	if decision.Action != ActionReplaceDialog {
		return base(ctx, step)
	}

	detail := fmt.Sprintf("User %s asked to speak with Manager.", step.Activity().From.ID)
	if err := step.Turn().SendTraceActivity(ctx, ComplaintTraceName, detail, "", ComplaintTraceLabel); err != nil {
		return domain.TurnResult{}, err
	}
	return step.Replace(ctx, decision.Payload.(string), nil)
}

// OnDisplayResult implements qna.Strategy.
func (s SampleStrategy) OnDisplayResult(ctx context.Context, step *runtime.StepContext, base runtime.Step) (domain.TurnResult, error) {
	if !s.OverrideDisplayQnAStep {
		return base(ctx, step)
	}

	decision := Classify(qna.Results(step.Result()))
	if decision.Action != ActionEndWithSource {
		return base(ctx, step)
	}

	if err := step.Turn().SendActivity(ctx, decision.Payload.(domain.Activity)); err != nil {
		return domain.TurnResult{}, err
	}
	return step.End(ctx, step.Result())
}
