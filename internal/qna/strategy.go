package qna

import (
	"context"

	"github.com/aretw0/waterfall/internal/runtime"
	"github.com/aretw0/waterfall/pkg/domain"
)

// Strategy customizes the last two steps of the QnA dialog.
// Each slot receives the built-in step as base and may delegate to it.
type Strategy interface {
	OnMultiTurnCheck(ctx context.Context, step *runtime.StepContext, base runtime.Step) (domain.TurnResult, error)
	OnDisplayResult(ctx context.Context, step *runtime.StepContext, base runtime.Step) (domain.TurnResult, error)
}

type defaultStrategy struct{}

func (defaultStrategy) OnMultiTurnCheck(ctx context.Context, step *runtime.StepContext, base runtime.Step) (domain.TurnResult, error) {
	return base(ctx, step)
}

func (defaultStrategy) OnDisplayResult(ctx context.Context, step *runtime.StepContext, base runtime.Step) (domain.TurnResult, error) {
	return base(ctx, step)
}

// DefaultStrategy always runs the built-in behaviour.
var DefaultStrategy Strategy = defaultStrategy{}

// Results extracts the candidate answers carried by a step result.
// Anything other than a result list yields nil.
func Results(v any) []domain.QueryResult {
	switch r := v.(type) {
	case []domain.QueryResult:
		return r
	case domain.QueryResult:
		return []domain.QueryResult{r}
	default:
		return nil
	}
}
