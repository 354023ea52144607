package runtime

import (
	"context"
	"time"

	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/aretw0/waterfall/pkg/ports"
	"github.com/google/uuid"
)

// TurnContext is the per-turn handle on the incoming activity and the outgoing channel.
type TurnContext struct {
	Activity domain.Activity

	sender    ports.ActivitySender
	responded bool
}

// NewTurnContext wraps an incoming activity and the sender used to reply.
func NewTurnContext(activity domain.Activity, sender ports.ActivitySender) *TurnContext {
	return &TurnContext{
		Activity: activity,
		sender:   sender,
	}
}

// SendActivity addresses the activity to the current conversation and delivers it.
func (tc *TurnContext) SendActivity(ctx context.Context, activity domain.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.Type == "" {
		activity.Type = domain.ActivityMessage
	}
	activity.ConversationID = tc.Activity.ConversationID
	activity.From = tc.Activity.Recipient
	activity.Recipient = tc.Activity.From
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now().UTC()
	}

	if err := tc.sender.SendActivity(ctx, activity); err != nil {
		return err
	}
	if activity.Type == domain.ActivityMessage {
		tc.responded = true
	}
	return nil
}

// SendText is a shorthand for sending a plain message.
func (tc *TurnContext) SendText(ctx context.Context, text string) error {
	return tc.SendActivity(ctx, domain.NewMessage(text))
}

// SendTraceActivity delivers a diagnostic trace through the sender.
func (tc *TurnContext) SendTraceActivity(ctx context.Context, name string, value any, valueType, label string) error {
	return tc.sender.SendTraceActivity(ctx, name, value, valueType, label)
}

// Responded reports whether a message has been sent during this turn.
func (tc *TurnContext) Responded() bool {
	return tc.responded
}
