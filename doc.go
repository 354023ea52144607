/*
Package waterfall is a dialog engine for turn-based conversational bots.

A conversation is a stack of dialogs. Each incoming activity is handed to the
dialog on top of the stack, which may reply, wait for the next activity, begin
a child dialog or end and return a result to its parent. Dialogs are usually
waterfalls: ordered steps that run one after another, pausing between turns.

The stack of each conversation is persisted through a ports.StackStore, and a
turn that fails leaves the stored stack untouched.

# Usage

	greet := waterfall.NewWaterfall("greet",
		func(ctx context.Context, step *waterfall.StepContext) (domain.TurnResult, error) {
			if err := step.Turn().SendText(ctx, "What is your name?"); err != nil {
				return domain.TurnResult{}, err
			}
			return step.EndOfTurn()
		},
		func(ctx context.Context, step *waterfall.StepContext) (domain.TurnResult, error) {
			if err := step.Turn().SendText(ctx, "Hello, "+step.Activity().Text); err != nil {
				return domain.TurnResult{}, err
			}
			return step.Next(ctx, nil)
		},
	)

	engine, err := waterfall.New(greet)
	if err != nil {
		log.Fatal(err)
	}
	err = engine.OnTurn(ctx, activity, sender)

The qnabot command in cmd/qnabot wires this engine to a question and answer
knowledge base with active learning and multi-turn prompts.
*/
package waterfall
