package ports

import (
	"context"

	"github.com/aretw0/waterfall/pkg/domain"
)

// KnowledgeBase answers questions with an ordered list of candidate answers.
// Failures are returned to the caller as-is; the engine never retries.
type KnowledgeBase interface {
	Query(ctx context.Context, question string, opts domain.QueryOptions) ([]domain.QueryResult, error)
}

// Trainer receives active learning feedback. It is optional: a KnowledgeBase
// that also implements Trainer is told which suggestion the user picked.
type Trainer interface {
	Train(ctx context.Context, records []domain.FeedbackRecord) error
}
