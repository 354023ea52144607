package cli

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/aretw0/waterfall/internal/presentation/tui"
	"github.com/aretw0/waterfall/pkg/runner"
	"golang.org/x/sync/errgroup"
)

// ChatOptions selects how the console conversation is presented.
type ChatOptions struct {
	In  io.Reader
	Out io.Writer

	// JSON switches to one JSON activity per line in both directions.
	JSON bool
	// Pretty enables the banner, markdown rendering and colours.
	// Callers usually set it when Out is a terminal.
	Pretty bool
	// ConversationID pins the conversation id; empty generates one.
	ConversationID string
}

// RunChat runs the console loop against app.Bot until the input ends, the user
// types exit or ctx is cancelled. With a metrics address configured, the
// metrics endpoint is served for the duration of the chat.
func RunChat(ctx context.Context, app *App, opts ChatOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	if addr := app.Config.MetricsAddr; addr != "" {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
		g.Go(func() error {
			return ServeMetrics(gctx, ln, app.Registry, app.Logger)
		})
	}

	if opts.Pretty && !opts.JSON {
		tui.PrintBanner(opts.Out, app.Config.KnowledgeBaseID)
	}

	r := runner.NewRunner(
		runner.WithInputHandler(newHandler(app, opts)),
		runner.WithLogger(app.Logger),
		runner.WithTraces(app.Config.ShowTraces),
		runner.WithConversationID(opts.ConversationID),
	)

	g.Go(func() error {
		// The chat ending stops the metrics server too.
		defer cancel()
		return r.Run(gctx, app.Bot)
	})

	return g.Wait()
}

func newHandler(app *App, opts ChatOptions) runner.IOHandler {
	if opts.JSON {
		h := runner.NewJSONHandler(opts.In, opts.Out)
		h.MaxInputSize = app.Config.MaxInputSize
		return h
	}

	handlerOpts := []runner.TextHandlerOption{
		runner.WithMaxInputSize(app.Config.MaxInputSize),
		runner.WithTraceFormatter(tui.PlainTrace),
	}
	if opts.Pretty {
		handlerOpts = append(handlerOpts,
			runner.WithTextHandlerRenderer(tui.NewRenderer(0)),
			runner.WithTraceFormatter(tui.FormatTrace),
			runner.WithSystemFormatter(tui.FormatSystem),
		)
	}
	return runner.NewTextHandler(opts.In, opts.Out, handlerOpts...)
}
