package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/google/uuid"
)

// errOutput marks failures of the IOHandler itself, which end the loop.
var errOutput = errors.New("output failed")

// handlerSender adapts an IOHandler to ports.ActivitySender, filling in the
// addressing fields the bot leaves empty.
type handlerSender struct {
	runner  *Runner
	handler IOHandler
}

func (s *handlerSender) SendActivity(ctx context.Context, activity domain.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.ConversationID == "" {
		activity.ConversationID = s.runner.ConversationID
	}
	if activity.From.ID == "" {
		activity.From = s.runner.Bot
	}
	if activity.Recipient.ID == "" {
		activity.Recipient = s.runner.User
	}
	if activity.Timestamp.IsZero() {
		activity.Timestamp = s.runner.now()
	}
	if activity.Type == domain.ActivityTrace && !s.runner.ShowTraces {
		return nil
	}
	if err := s.handler.Output(ctx, activity); err != nil {
		return fmt.Errorf("%w: %w", errOutput, err)
	}
	return nil
}

func (s *handlerSender) SendTraceActivity(ctx context.Context, name string, value any, valueType, label string) error {
	return s.SendActivity(ctx, domain.NewTrace(name, value, valueType, label))
}
