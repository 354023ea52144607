package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/waterfall/internal/logging"
	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/google/uuid"
)

// Default participants of a console conversation.
var (
	DefaultUser = domain.Account{ID: "user", Name: "User"}
	DefaultBot  = domain.Account{ID: "bot", Name: "Bot"}
)

// DefaultExitCommands end the chat loop when typed on their own.
var DefaultExitCommands = []string{"exit", "quit"}

// ErrorMessage is shown when a turn fails. The conversation itself survives.
const ErrorMessage = "Sorry, something went wrong. Please try again."

// Runner drives a console conversation: it reads user lines from an IOHandler,
// turns them into activities and hands them to a TurnHandler.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on stdin/stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	ConversationID string
	User           domain.Account
	Bot            domain.Account
	ShowTraces     bool
	ExitCommands   []string

	now func() time.Time
}

// NewRunner creates a Runner with a fresh conversation id.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger:         logging.NewNop(),
		ConversationID: uuid.NewString(),
		User:           DefaultUser,
		Bot:            DefaultBot,
		ExitCommands:   DefaultExitCommands,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run announces the user to the bot and then loops until the input ends,
// an exit command is typed or ctx is cancelled. None of those is an error.
func (r *Runner) Run(ctx context.Context, bot TurnHandler) error {
	handler := r.resolveHandler()
	sender := &handlerSender{runner: r, handler: handler}

	join := r.newActivity(domain.ActivityConversationUpdate)
	join.MembersAdded = []domain.Account{r.User, r.Bot}
	if err := r.turn(ctx, bot, join, handler, sender); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		text, err := handler.Input(ctx)
		if err != nil {
			switch {
			case errors.Is(err, ErrInputTooLarge), errors.Is(err, ErrInvalidUTF8):
				if err := handler.SystemOutput(ctx, err.Error()); err != nil {
					return err
				}
				continue
			case isTerminal(ctx, err):
				r.Logger.Debug("input closed", "conversation_id", r.ConversationID, "reason", err)
				return nil
			default:
				return fmt.Errorf("read input: %w", err)
			}
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if r.isExit(text) {
			r.Logger.Debug("exit requested", "conversation_id", r.ConversationID)
			return nil
		}

		msg := r.newActivity(domain.ActivityMessage)
		msg.Text = text
		if err := r.turn(ctx, bot, msg, handler, sender); err != nil {
			return err
		}
	}
}

// turn runs one activity through the bot. A failed turn is reported to the
// user and logged; only output failures stop the loop.
func (r *Runner) turn(ctx context.Context, bot TurnHandler, activity domain.Activity, handler IOHandler, sender *handlerSender) error {
	err := bot.OnTurn(ctx, activity, sender)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}
	if errors.Is(err, errOutput) {
		return err
	}
	r.Logger.Warn("turn failed", "conversation_id", r.ConversationID, "activity_id", activity.ID, "error", err)
	return handler.SystemOutput(ctx, ErrorMessage)
}

func (r *Runner) newActivity(typ domain.ActivityType) domain.Activity {
	return domain.Activity{
		ID:             uuid.NewString(),
		Type:           typ,
		From:           r.User,
		Recipient:      r.Bot,
		ConversationID: r.ConversationID,
		Timestamp:      r.now(),
	}
}

func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r.Handler
}

func (r *Runner) isExit(text string) bool {
	for _, cmd := range r.ExitCommands {
		if strings.EqualFold(text, cmd) {
			return true
		}
	}
	return false
}

func isTerminal(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.EOF)
}
