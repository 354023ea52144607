package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/waterfall/pkg/domain"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithConversationID pins the conversation id instead of generating one.
func WithConversationID(id string) Option {
	return func(r *Runner) {
		if id != "" {
			r.ConversationID = id
		}
	}
}

// WithUser sets the account messages are sent from.
func WithUser(user domain.Account) Option {
	return func(r *Runner) {
		r.User = user
	}
}

// WithBotAccount sets the account replies are attributed to.
func WithBotAccount(bot domain.Account) Option {
	return func(r *Runner) {
		r.Bot = bot
	}
}

// WithTraces forwards trace activities to the handler.
func WithTraces(show bool) Option {
	return func(r *Runner) {
		r.ShowTraces = show
	}
}

// WithExitCommands replaces the words that end the loop.
func WithExitCommands(cmds ...string) Option {
	return func(r *Runner) {
		r.ExitCommands = cmds
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}
