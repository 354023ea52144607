package qna

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/waterfall/internal/logging"
	"github.com/aretw0/waterfall/internal/runtime"
	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/aretw0/waterfall/pkg/ports"
)

// Frame state keys.
const (
	stateOptions       = "qna_options"
	stateSuggestions   = "qna_suggestions"
	stateCurrentQuery  = "qna_current_query"
	statePromptIDs     = "qna_prompt_ids"
	statePreviousQnAID = "qna_previous_id"
)

// Trace emitted after every knowledge base query.
const (
	TraceName      = "QnAMaker"
	TraceLabel     = "QnAMaker Trace"
	TraceValueType = "https://www.qnamaker.ai/schemas/trace"
)

// TraceInfo is the value of the query trace activity.
type TraceInfo struct {
	Message         domain.Activity       `json:"message"`
	QueryResults    []domain.QueryResult  `json:"query_results"`
	KnowledgeBaseID string                `json:"knowledge_base_id"`
	ScoreThreshold  float64               `json:"score_threshold"`
	Top             int                   `json:"top"`
	StrictFilters   []domain.StrictFilter `json:"strict_filters,omitempty"`
}

// Dialog answers the user's message from a knowledge base.
type Dialog struct {
	id       string
	kb       ports.KnowledgeBase
	trainer  ports.Trainer
	strategy Strategy
	defaults Options
	kbID     string
	logger   *slog.Logger
	flow     *runtime.Waterfall
}

// DialogOption configures the Dialog.
type DialogOption func(*Dialog)

// WithStrategy replaces the multi-turn and display steps.
func WithStrategy(s Strategy) DialogOption {
	return func(d *Dialog) {
		if s != nil {
			d.strategy = s
		}
	}
}

// WithTrainer sends active learning feedback to t.
func WithTrainer(t ports.Trainer) DialogOption {
	return func(d *Dialog) {
		d.trainer = t
	}
}

// WithDefaults sets the options used for fields a caller leaves empty.
func WithDefaults(opts Options) DialogOption {
	return func(d *Dialog) {
		d.defaults = opts
	}
}

// WithKnowledgeBaseID names the knowledge base in query traces.
func WithKnowledgeBaseID(id string) DialogOption {
	return func(d *Dialog) {
		d.kbID = id
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) DialogOption {
	return func(d *Dialog) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a QnA dialog registered under id.
func New(id string, kb ports.KnowledgeBase, opts ...DialogOption) *Dialog {
	d := &Dialog{
		id:       id,
		kb:       kb,
		strategy: DefaultStrategy,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.flow = runtime.NewWaterfall(id,
		d.callGenerateAnswer,
		d.callTrain,
		func(ctx context.Context, step *runtime.StepContext) (domain.TurnResult, error) {
			return d.strategy.OnMultiTurnCheck(ctx, step, d.CheckForMultiTurnPrompt)
		},
		func(ctx context.Context, step *runtime.StepContext) (domain.TurnResult, error) {
			return d.strategy.OnDisplayResult(ctx, step, d.DisplayResult)
		},
	)
	return d
}

// ID implements runtime.Dialog.
func (d *Dialog) ID() string {
	return d.id
}

// Begin implements runtime.Dialog. A dialog begun by anything but a message
// waits for one before querying.
func (d *Dialog) Begin(ctx context.Context, dc *runtime.DialogContext, options any) (domain.TurnResult, error) {
	opts, err := DecodeOptions(options)
	if err != nil {
		return domain.TurnResult{}, err
	}
	frame := dc.ActiveFrame()
	frame.State[stateOptions] = opts.merge(d.defaults)

	if dc.Turn().Activity.Type != domain.ActivityMessage {
		frame.StepIndex = -1
		return runtime.EndOfTurn, nil
	}
	return d.flow.Begin(ctx, dc, nil)
}

// Continue implements runtime.Dialog.
func (d *Dialog) Continue(ctx context.Context, dc *runtime.DialogContext) (domain.TurnResult, error) {
	return d.flow.Continue(ctx, dc)
}

// Resume implements runtime.Dialog.
func (d *Dialog) Resume(ctx context.Context, dc *runtime.DialogContext, result any) (domain.TurnResult, error) {
	return d.flow.Resume(ctx, dc, result)
}

// End implements runtime.Dialog.
func (d *Dialog) End(ctx context.Context, dc *runtime.DialogContext, frame *domain.DialogFrame, reason domain.EndReason) error {
	return nil
}

// StepOptions returns the options of the running QnA dialog instance.
func StepOptions(step *runtime.StepContext) Options {
	if opts, ok := step.State()[stateOptions].(Options); ok {
		return opts
	}
	return Options{}.withDefaults()
}

func (d *Dialog) callGenerateAnswer(ctx context.Context, step *runtime.StepContext) (domain.TurnResult, error) {
	opts := StepOptions(step)
	question := step.Activity().Text
	step.State()[stateCurrentQuery] = question

	results, err := d.kb.Query(ctx, question, opts.query())
	if err != nil {
		return domain.TurnResult{}, fmt.Errorf("query knowledge base: %w", err)
	}
	d.logger.DebugContext(ctx, "knowledge base queried",
		"dialog_id", d.id,
		"results", len(results),
		"qna_id", opts.QnAID,
	)

	trace := TraceInfo{
		Message:         step.Activity(),
		QueryResults:    results,
		KnowledgeBaseID: d.kbID,
		ScoreThreshold:  opts.Threshold,
		Top:             opts.Top,
		StrictFilters:   opts.StrictFilters,
	}
	if err := step.Turn().SendTraceActivity(ctx, TraceName, trace, TraceValueType, TraceLabel); err != nil {
		return domain.TurnResult{}, err
	}

	// Follow-up context applies to a single query.
	opts.Context = nil
	opts.QnAID = 0
	step.State()[stateOptions] = opts

	if !opts.DisableActiveLearning && len(results) > 0 && results[0].Score*100 <= MaxScoreForLowScoreVariation {
		results = LowScoreVariation(results)
		if len(results) > 1 {
			if err := step.Turn().SendActivity(ctx, suggestionsCard(results, opts)); err != nil {
				return domain.TurnResult{}, err
			}
			step.State()[stateSuggestions] = results
			return step.EndOfTurn()
		}
	}

	var top []domain.QueryResult
	if len(results) > 0 {
		top = results[:1]
	}
	return step.Next(ctx, top)
}

func (d *Dialog) callTrain(ctx context.Context, step *runtime.StepContext) (domain.TurnResult, error) {
	suggestions, _ := step.State()[stateSuggestions].([]domain.QueryResult)
	if len(suggestions) <= 1 {
		return step.Next(ctx, step.Result())
	}
	delete(step.State(), stateSuggestions)

	opts := StepOptions(step)
	reply := step.Activity().Text

	for _, s := range suggestions {
		if len(s.Questions) == 0 || s.Questions[0] != reply {
			continue
		}
		if d.trainer != nil {
			query, _ := step.State()[stateCurrentQuery].(string)
			err := d.trainer.Train(ctx, []domain.FeedbackRecord{{
				UserID:       step.Activity().From.ID,
				UserQuestion: query,
				QnAID:        s.ID,
			}})
			if err != nil {
				return domain.TurnResult{}, fmt.Errorf("train knowledge base: %w", err)
			}
		}
		return step.Next(ctx, []domain.QueryResult{s})
	}

	if reply == opts.CardNoMatchText {
		if err := step.Turn().SendText(ctx, opts.CardNoMatchResponse); err != nil {
			return domain.TurnResult{}, err
		}
		return step.End(ctx, nil)
	}

	// Anything else is a new question.
	return step.Replace(ctx, d.id, opts)
}

// CheckForMultiTurnPrompt is the built-in multi-turn step. A single answer
// carrying prompts is sent with the prompts as suggested actions and the
// dialog waits for the user's pick.
func (d *Dialog) CheckForMultiTurnPrompt(ctx context.Context, step *runtime.StepContext) (domain.TurnResult, error) {
	results := Results(step.Result())
	if len(results) == 0 || !results[0].HasPrompts() {
		return step.Next(ctx, step.Result())
	}

	answer := results[0]
	ids := make(map[string]int, len(answer.Context.Prompts))
	actions := make([]domain.CardAction, 0, len(answer.Context.Prompts))
	for _, p := range answer.Context.Prompts {
		ids[p.DisplayText] = p.QnAID
		actions = append(actions, domain.CardAction{
			Type:  domain.ActionIMBack,
			Title: p.DisplayText,
			Value: p.DisplayText,
		})
	}
	step.State()[statePromptIDs] = ids
	step.State()[statePreviousQnAID] = answer.ID

	if err := step.Turn().SendActivity(ctx, domain.NewSuggestedActions(actions, answer.Answer)); err != nil {
		return domain.TurnResult{}, err
	}
	return step.EndOfTurn()
}

// DisplayResult is the built-in display step. After a multi-turn prompt it
// restarts the dialog with the follow-up context; otherwise it sends the top
// answer, or the no-answer text, and ends with the results.
func (d *Dialog) DisplayResult(ctx context.Context, step *runtime.StepContext) (domain.TurnResult, error) {
	opts := StepOptions(step)

	if prev, _ := step.State()[statePreviousQnAID].(int); prev > 0 {
		query, _ := step.State()[stateCurrentQuery].(string)
		opts.Context = &domain.RequestContext{
			PreviousQnAID:     prev,
			PreviousUserQuery: query,
		}
		if ids, ok := step.State()[statePromptIDs].(map[string]int); ok {
			opts.QnAID = ids[step.Activity().Text]
		}
		return step.Replace(ctx, d.id, opts)
	}

	text := opts.NoAnswer
	if results := Results(step.Result()); len(results) > 0 {
		text = results[0].Answer
	}
	if err := step.Turn().SendText(ctx, text); err != nil {
		return domain.TurnResult{}, err
	}
	return step.End(ctx, step.Result())
}

func suggestionsCard(results []domain.QueryResult, opts Options) domain.Activity {
	actions := make([]domain.CardAction, 0, len(results)+1)
	for _, r := range results {
		if len(r.Questions) == 0 {
			continue
		}
		actions = append(actions, domain.CardAction{
			Type:  domain.ActionIMBack,
			Title: r.Questions[0],
			Value: r.Questions[0],
		})
	}
	actions = append(actions, domain.CardAction{
		Type:  domain.ActionIMBack,
		Title: opts.CardNoMatchText,
		Value: opts.CardNoMatchText,
	})
	return domain.NewSuggestedActions(actions, opts.ActiveLearningCardTitle)
}
