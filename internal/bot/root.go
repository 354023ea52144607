package bot

import (
	"context"
	"log/slog"

	"github.com/aretw0/waterfall/internal/config"
	"github.com/aretw0/waterfall/internal/logging"
	"github.com/aretw0/waterfall/internal/qna"
	"github.com/aretw0/waterfall/internal/runtime"
	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/aretw0/waterfall/pkg/ports"
)

// Dialog ids of the sample.
const (
	RootDialogID      = "RootDialog"
	QnADialogID       = "MyQnADialog"
	ComplaintDialogID = "ComplaintDialog"
)

// Messages of the complaint flow.
const (
	ComplaintPrompt     = "You've reached the ComplaintDialog. Please describe the issue encountered."
	ComplaintIncomplete = "Whoops! Complaint filing process incomplete. Please try again later."
)

type rootSettings struct {
	trainer ports.Trainer
	logger  *slog.Logger
}

// RootOption configures NewRootDialog.
type RootOption func(*rootSettings)

// WithTrainer forwards active learning feedback to t.
func WithTrainer(t ports.Trainer) RootOption {
	return func(s *rootSettings) {
		s.trainer = t
	}
}

// WithDialogLogger sets the logger of the QnA dialog.
func WithDialogLogger(logger *slog.Logger) RootOption {
	return func(s *rootSettings) {
		s.logger = logger
	}
}

// NewRootDialog builds the RootDialog component: the QnA dialog, begun first,
// and the complaint waterfall it can hand over to.
func NewRootDialog(cfg config.Config, kb ports.KnowledgeBase, opts ...RootOption) (*runtime.Component, error) {
	settings := rootSettings{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&settings)
	}

	qnaOpts := []qna.DialogOption{
		qna.WithStrategy(SampleStrategy{
			OverrideMultiTurnStep:  cfg.OverrideMultiTurnStep,
			OverrideDisplayQnAStep: cfg.OverrideDisplayQnAStep,
		}),
		qna.WithDefaults(qna.Options{NoAnswer: cfg.DefaultAnswer}),
		qna.WithKnowledgeBaseID(cfg.KnowledgeBaseID),
		qna.WithLogger(settings.logger),
	}
	if settings.trainer != nil {
		qnaOpts = append(qnaOpts, qna.WithTrainer(settings.trainer))
	}

	return runtime.NewComponent(RootDialogID, QnADialogID,
		qna.New(QnADialogID, kb, qnaOpts...),
		NewComplaintDialog(),
	)
}

// NewComplaintDialog asks for a description, then gives up and cancels every dialog.
func NewComplaintDialog() *runtime.Waterfall {
	return runtime.NewWaterfall(ComplaintDialogID,
		func(ctx context.Context, step *runtime.StepContext) (domain.TurnResult, error) {
			if err := step.Turn().SendText(ctx, ComplaintPrompt); err != nil {
				return domain.TurnResult{}, err
			}
			return step.EndOfTurn()
		},
		func(ctx context.Context, step *runtime.StepContext) (domain.TurnResult, error) {
			if err := step.Turn().SendText(ctx, ComplaintIncomplete); err != nil {
				return domain.TurnResult{}, err
			}
			return step.CancelAll(ctx, true)
		},
	)
}
