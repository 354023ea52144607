package bot

import (
	"context"
	"log/slog"

	"github.com/aretw0/waterfall"
	"github.com/aretw0/waterfall/internal/logging"
	"github.com/aretw0/waterfall/internal/runtime"
	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/aretw0/waterfall/pkg/ports"
	"github.com/aretw0/waterfall/pkg/session"
)

// DefaultWelcome greets every member that joins the conversation.
const DefaultWelcome = "Welcome to the QnA Maker sample! Ask me a question and I will try to answer it."

// Bot handles incoming activities for any number of conversations.
type Bot struct {
	engine  *waterfall.Engine
	welcome string
}

// Option configures the Bot.
type Option func(*botSettings)

type botSettings struct {
	hooks   domain.LifecycleHooks
	welcome string
	logger  *slog.Logger
}

// WithLifecycleHooks registers engine hooks, e.g. observability.Metrics.Hooks().
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *botSettings) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithWelcome changes the greeting sent to new members.
func WithWelcome(text string) Option {
	return func(s *botSettings) {
		s.welcome = text
	}
}

// WithLogger sets the structured logger of the bot and its engine.
func WithLogger(logger *slog.Logger) Option {
	return func(s *botSettings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a bot that begins root on every conversation with an empty stack.
func New(root runtime.Dialog, sessions *session.Manager, opts ...Option) (*Bot, error) {
	settings := botSettings{
		welcome: DefaultWelcome,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&settings)
	}

	engine, err := waterfall.New(root,
		waterfall.WithSessionManager(sessions),
		waterfall.WithLifecycleHooks(settings.hooks),
		waterfall.WithLogger(settings.logger),
	)
	if err != nil {
		return nil, err
	}
	return &Bot{engine: engine, welcome: settings.welcome}, nil
}

// OnTurn processes one activity. Conversation updates only greet new members;
// every other activity is a turn of the dialog stack.
func (b *Bot) OnTurn(ctx context.Context, activity domain.Activity, sender ports.ActivitySender) error {
	if activity.Type == domain.ActivityConversationUpdate {
		return b.greet(ctx, runtime.NewTurnContext(activity, sender))
	}
	return b.engine.OnTurn(ctx, activity, sender)
}

func (b *Bot) greet(ctx context.Context, turn *runtime.TurnContext) error {
	for _, member := range turn.Activity.MembersAdded {
		if member.ID == turn.Activity.Recipient.ID {
			continue
		}
		if err := turn.SendText(ctx, b.welcome); err != nil {
			return err
		}
	}
	return nil
}
