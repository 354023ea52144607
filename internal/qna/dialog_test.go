package qna_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/waterfall/internal/qna"
	"github.com/aretw0/waterfall/internal/runtime"
	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actionTitles(a domain.Activity) []string {
	var out []string
	for _, action := range a.SuggestedActions {
		out = append(out, action.Title)
	}
	return out
}

func TestDialog_AnswersTopResult(t *testing.T) {
	hello := domain.QueryResult{ID: 1, Answer: "Hello!", Score: 0.99, Questions: []string{"hi"}}
	kb := &stubKB{answers: map[string][]domain.QueryResult{"hi": {hello}}}
	c := newConversation(t, newDialog(kb, qna.WithKnowledgeBaseID("kb-1")))

	res := c.mustSay("hi")

	assert.Equal(t, domain.TurnComplete, res.Status)
	assert.Equal(t, []domain.QueryResult{hello}, res.Result)
	assert.Equal(t, "Hello!", c.sender.Last().Text)
	assert.Equal(t, 0, c.stack.Depth())

	require.Len(t, kb.calls, 1)
	assert.Equal(t, qna.DefaultTop, kb.calls[0].Top)
	assert.Equal(t, qna.DefaultThreshold, kb.calls[0].ScoreThreshold)
	assert.Equal(t, domain.JoinAnd, kb.calls[0].StrictFiltersJoinOperator)

	require.Len(t, c.sender.Traces, 1)
	trace := c.sender.Traces[0]
	assert.Equal(t, qna.TraceName, trace.Name)
	assert.Equal(t, qna.TraceLabel, trace.Label)
	assert.Equal(t, qna.TraceValueType, trace.ValueType)
	info, ok := trace.Value.(qna.TraceInfo)
	require.True(t, ok)
	assert.Equal(t, "kb-1", info.KnowledgeBaseID)
	assert.Equal(t, "hi", info.Message.Text)
}

func TestDialog_NoAnswer(t *testing.T) {
	t.Run("default text", func(t *testing.T) {
		c := newConversation(t, newDialog(&stubKB{}))
		res := c.mustSay("anything")

		assert.Equal(t, domain.TurnComplete, res.Status)
		assert.Equal(t, qna.DefaultNoAnswer, c.sender.Last().Text)
	})

	t.Run("configured text", func(t *testing.T) {
		c := newConversation(t, newDialog(&stubKB{}, qna.WithDefaults(qna.Options{NoAnswer: "Try rephrasing."})))
		c.mustSay("anything")

		assert.Equal(t, "Try rephrasing.", c.sender.Last().Text)
	})
}

func TestDialog_KnowledgeBaseErrorPropagates(t *testing.T) {
	boom := errors.New("service unavailable")
	c := newConversation(t, newDialog(&stubKB{err: boom}))

	_, err := c.say("hi")

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.stack.Depth())
	assert.Empty(t, c.sender.Activities)
}

func activeLearningKB() *stubKB {
	return &stubKB{answers: map[string][]domain.QueryResult{
		"size": {
			{ID: 1, Answer: "I am five.", Score: 0.80, Questions: []string{"How old are you?"}},
			{ID: 2, Answer: "Two meters.", Score: 0.75, Questions: []string{"How tall are you?"}},
		},
		"hi": {
			{ID: 3, Answer: "Hello!", Score: 0.99, Questions: []string{"hi"}},
		},
	}}
}

func TestDialog_ActiveLearning(t *testing.T) {
	t.Run("suggestions card", func(t *testing.T) {
		c := newConversation(t, newDialog(activeLearningKB()))

		res := c.mustSay("size")

		assert.Equal(t, domain.TurnWaiting, res.Status)
		card := c.sender.Last()
		assert.Equal(t, qna.DefaultActiveLearningCardTitle, card.Text)
		assert.Equal(t, []string{"How old are you?", "How tall are you?", qna.DefaultCardNoMatchText}, actionTitles(card))
	})

	t.Run("pick trains and answers", func(t *testing.T) {
		trainer := &spyTrainer{}
		c := newConversation(t, newDialog(activeLearningKB(), qna.WithTrainer(trainer)))
		c.mustSay("size")

		res := c.mustSay("How tall are you?")

		assert.Equal(t, domain.TurnComplete, res.Status)
		assert.Equal(t, "Two meters.", c.sender.Last().Text)
		assert.Equal(t, []domain.FeedbackRecord{{UserID: "user-1", UserQuestion: "size", QnAID: 2}}, trainer.records)
	})

	t.Run("none of the above", func(t *testing.T) {
		c := newConversation(t, newDialog(activeLearningKB()))
		c.mustSay("size")

		res := c.mustSay(qna.DefaultCardNoMatchText)

		assert.Equal(t, domain.TurnComplete, res.Status)
		assert.Equal(t, qna.DefaultCardNoMatchResponse, c.sender.Last().Text)
	})

	t.Run("new question restarts", func(t *testing.T) {
		kb := activeLearningKB()
		c := newConversation(t, newDialog(kb))
		c.mustSay("size")

		res := c.mustSay("hi")

		assert.Equal(t, domain.TurnComplete, res.Status)
		assert.Equal(t, "Hello!", c.sender.Last().Text)
		assert.Equal(t, []string{"size", "hi"}, kb.asked)
	})

	t.Run("disabled", func(t *testing.T) {
		c := newConversation(t, newDialog(activeLearningKB(), qna.WithDefaults(qna.Options{DisableActiveLearning: true})))

		res := c.mustSay("size")

		assert.Equal(t, domain.TurnComplete, res.Status)
		assert.Equal(t, "I am five.", c.sender.Last().Text)
	})
}

func TestDialog_MultiTurnPrompts(t *testing.T) {
	kb := &stubKB{
		answers: map[string][]domain.QueryResult{
			"help": {{
				ID:     10,
				Answer: "What do you need help with?",
				Score:  0.99,
				Context: &domain.AnswerContext{Prompts: []domain.Prompt{
					{DisplayOrder: 1, QnAID: 11, DisplayText: "Billing"},
					{DisplayOrder: 2, QnAID: 12, DisplayText: "Shipping"},
				}},
			}},
		},
		byID: map[int]domain.QueryResult{
			12: {ID: 12, Answer: "Shipping takes three days.", Score: 1},
		},
	}
	c := newConversation(t, newDialog(kb))

	res := c.mustSay("help")
	assert.Equal(t, domain.TurnWaiting, res.Status)
	prompt := c.sender.Last()
	assert.Equal(t, "What do you need help with?", prompt.Text)
	assert.Equal(t, []string{"Billing", "Shipping"}, actionTitles(prompt))
	assert.Equal(t, domain.ActionIMBack, prompt.SuggestedActions[0].Type)

	res = c.mustSay("Shipping")
	assert.Equal(t, domain.TurnComplete, res.Status)
	assert.Equal(t, "Shipping takes three days.", c.sender.Last().Text)

	require.Len(t, kb.calls, 2)
	assert.Equal(t, 12, kb.calls[1].QnAID)
	assert.Equal(t, &domain.RequestContext{PreviousQnAID: 10, PreviousUserQuery: "help"}, kb.calls[1].Context)
}

func TestDialog_WaitsForMessageBeforeQuerying(t *testing.T) {
	hello := domain.QueryResult{ID: 1, Answer: "Hello!", Score: 0.99}
	kb := &stubKB{answers: map[string][]domain.QueryResult{"hi": {hello}}}
	c := newConversation(t, newDialog(kb))

	event := domain.Activity{Type: domain.ActivityEvent, ConversationID: "conv-1"}
	res, next, err := c.engine.Run(context.Background(), runtime.NewTurnContext(event, c.sender), c.stack)
	require.NoError(t, err)
	c.stack = next

	assert.Equal(t, domain.TurnWaiting, res.Status)
	assert.Empty(t, kb.calls)

	res = c.mustSay("hi")
	assert.Equal(t, domain.TurnComplete, res.Status)
	assert.Equal(t, "Hello!", c.sender.Last().Text)
}

type displayOverride struct {
	calls int
}

func (s *displayOverride) OnMultiTurnCheck(ctx context.Context, step *runtime.StepContext, base runtime.Step) (domain.TurnResult, error) {
	return base(ctx, step)
}

func (s *displayOverride) OnDisplayResult(ctx context.Context, step *runtime.StepContext, base runtime.Step) (domain.TurnResult, error) {
	s.calls++
	if err := step.Turn().SendText(ctx, "custom display"); err != nil {
		return domain.TurnResult{}, err
	}
	return step.End(ctx, "custom")
}

func TestDialog_StrategyReplacesDisplay(t *testing.T) {
	kb := &stubKB{answers: map[string][]domain.QueryResult{"hi": {{ID: 1, Answer: "Hello!", Score: 0.99}}}}
	strategy := &displayOverride{}
	c := newConversation(t, newDialog(kb, qna.WithStrategy(strategy)))

	res := c.mustSay("hi")

	assert.Equal(t, 1, strategy.calls)
	assert.Equal(t, "custom", res.Result)
	assert.Equal(t, "custom display", c.sender.Last().Text)
}

func TestResults(t *testing.T) {
	r := domain.QueryResult{ID: 1}
	assert.Equal(t, []domain.QueryResult{r}, qna.Results([]domain.QueryResult{r}))
	assert.Equal(t, []domain.QueryResult{r}, qna.Results(r))
	assert.Nil(t, qna.Results("text"))
	assert.Nil(t, qna.Results(nil))
}
