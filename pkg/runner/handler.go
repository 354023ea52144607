package runner

import (
	"context"

	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/aretw0/waterfall/pkg/ports"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Output presents a single activity produced by the bot.
	// Traces are only passed in when the runner was configured to show them.
	Output(ctx context.Context, activity domain.Activity) error

	// Input reads the next utterance from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message to the user (errors, status updates).
	// This is distinct from bot content.
	SystemOutput(ctx context.Context, msg string) error
}

// TurnHandler processes one inbound activity, writing replies to sender.
type TurnHandler interface {
	OnTurn(ctx context.Context, activity domain.Activity, sender ports.ActivitySender) error
}
