package qna_test

import (
	"context"
	"testing"

	"github.com/aretw0/waterfall/internal/qna"
	"github.com/aretw0/waterfall/internal/runtime"
	"github.com/aretw0/waterfall/internal/testutils"
	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/stretchr/testify/require"
)

type stubKB struct {
	answers map[string][]domain.QueryResult
	byID    map[int]domain.QueryResult
	err     error
	calls   []domain.QueryOptions
	asked   []string
}

func (k *stubKB) Query(ctx context.Context, question string, opts domain.QueryOptions) ([]domain.QueryResult, error) {
	k.calls = append(k.calls, opts)
	k.asked = append(k.asked, question)
	if k.err != nil {
		return nil, k.err
	}
	if opts.QnAID > 0 {
		if r, ok := k.byID[opts.QnAID]; ok {
			return []domain.QueryResult{r}, nil
		}
		return nil, nil
	}
	return k.answers[question], nil
}

type spyTrainer struct {
	records []domain.FeedbackRecord
}

func (s *spyTrainer) Train(ctx context.Context, records []domain.FeedbackRecord) error {
	s.records = append(s.records, records...)
	return nil
}

type recordingSender = testutils.RecordingSender

// conversation drives an engine over one stack, turn by turn.
type conversation struct {
	t      *testing.T
	engine *runtime.Engine
	stack  *domain.Stack
	sender *recordingSender
}

func newConversation(t *testing.T, dialogs ...runtime.Dialog) *conversation {
	t.Helper()
	set, err := runtime.NewDialogSet(dialogs...)
	require.NoError(t, err)
	return &conversation{
		t:      t,
		engine: runtime.NewEngine(set),
		stack:  domain.NewStack("conv-1"),
		sender: &recordingSender{},
	}
}

func (c *conversation) say(text string) (domain.TurnResult, error) {
	activity := domain.Activity{
		ID:             "act-" + text,
		Type:           domain.ActivityMessage,
		Text:           text,
		ConversationID: "conv-1",
		From:           domain.Account{ID: "user-1"},
		Recipient:      domain.Account{ID: "bot"},
	}
	res, next, err := c.engine.Run(context.Background(), runtime.NewTurnContext(activity, c.sender), c.stack)
	c.stack = next
	return res, err
}

func (c *conversation) mustSay(text string) domain.TurnResult {
	c.t.Helper()
	res, err := c.say(text)
	require.NoError(c.t, err)
	return res
}

func newDialog(kb *stubKB, opts ...qna.DialogOption) *qna.Dialog {
	return qna.New("qna", kb, opts...)
}
