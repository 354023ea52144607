package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/waterfall/internal/runtime"
	"github.com/aretw0/waterfall/internal/testutils"
	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/stretchr/testify/require"
)

type recordingSender = testutils.RecordingSender

// spyDialog waits on every turn and records what happens to it.
type spyDialog struct {
	id      string
	journal *[]string
	resumed []any
	ends    []domain.EndReason
}

func newSpy(id string, journal *[]string) *spyDialog {
	return &spyDialog{id: id, journal: journal}
}

func (s *spyDialog) ID() string { return s.id }

func (s *spyDialog) Begin(ctx context.Context, dc *runtime.DialogContext, options any) (domain.TurnResult, error) {
	return runtime.EndOfTurn, nil
}

func (s *spyDialog) Continue(ctx context.Context, dc *runtime.DialogContext) (domain.TurnResult, error) {
	return runtime.EndOfTurn, nil
}

func (s *spyDialog) Resume(ctx context.Context, dc *runtime.DialogContext, result any) (domain.TurnResult, error) {
	s.resumed = append(s.resumed, result)
	return runtime.EndOfTurn, nil
}

func (s *spyDialog) End(ctx context.Context, dc *runtime.DialogContext, frame *domain.DialogFrame, reason domain.EndReason) error {
	s.ends = append(s.ends, reason)
	if s.journal != nil {
		*s.journal = append(*s.journal, s.id+":"+string(reason))
	}
	return nil
}

func message(text string) domain.Activity {
	return domain.Activity{
		Type:           domain.ActivityMessage,
		Text:           text,
		ConversationID: "conv-1",
		From:           domain.Account{ID: "user-1"},
		Recipient:      domain.Account{ID: "bot"},
	}
}

func newEngine(t *testing.T, opts []runtime.EngineOption, dialogs ...runtime.Dialog) *runtime.Engine {
	t.Helper()
	set, err := runtime.NewDialogSet(dialogs...)
	require.NoError(t, err)
	return runtime.NewEngine(set, opts...)
}

// turn builds a dialog context over stack for a single incoming message.
func turn(e *runtime.Engine, stack *domain.Stack, text string, sender *recordingSender) *runtime.DialogContext {
	return e.NewDialogContext(runtime.NewTurnContext(message(text), sender), stack)
}
