/*
Package runner implements the console chat loop for a bot.

It acts as the bridge between the bot (a TurnHandler) and the outside world:
user lines become message activities, and the bot's replies are written back
through a pluggable IOHandler.

# Key Components

  - Runner: reads input, builds activities and drives one turn per line.
  - IOHandler: decouples how the conversation is presented (text, JSON lines).
  - TextHandler: interactive terminal usage, with numbered suggested actions.
  - JSONHandler: one JSON activity per line, for scripting.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithTraces(cfg.ShowTraces),
	)

	if err := r.Run(ctx, bot); err != nil {
		log.Fatal(err)
	}
*/
package runner
