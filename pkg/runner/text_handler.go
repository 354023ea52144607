package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/waterfall/pkg/domain"
)

// ContentRenderer transforms message text before it is written.
// This allows for TUI rendering (markdown to ANSI) without coupling the runner to a terminal library.
type ContentRenderer func(string) (string, error)

// TraceFormatter turns a trace activity into a single display line.
type TraceFormatter func(domain.Activity) string

// TextHandler implements the standard text-based interface.
// Suggested actions are listed as numbered choices; answering with the number
// selects the action's value.
type TextHandler struct {
	Reader       *bufio.Reader
	Writer       io.Writer
	Renderer     ContentRenderer
	FormatTrace  TraceFormatter
	FormatSystem func(string) string
	MaxInputSize int

	mu      sync.Mutex
	choices []domain.CardAction

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTraceFormatter configures how traces are displayed.
func WithTraceFormatter(f TraceFormatter) TextHandlerOption {
	return func(h *TextHandler) {
		h.FormatTrace = f
	}
}

// WithSystemFormatter configures how system messages are displayed.
func WithSystemFormatter(f func(string) string) TextHandlerOption {
	return func(h *TextHandler) {
		h.FormatSystem = f
	}
}

// WithMaxInputSize bounds the size of a single user line, in bytes.
func WithMaxInputSize(n int) TextHandlerOption {
	return func(h *TextHandler) {
		h.MaxInputSize = n
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:       bufio.NewReader(r),
		Writer:       w,
		FormatTrace:  defaultTraceFormat,
		FormatSystem: func(s string) string { return "[System] " + s },
		MaxInputSize: DefaultMaxInputSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour context cancellation
// while a read is blocked.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')

		// A final line without a newline still counts.
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}

		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff for non-fatal errors to prevent CPU spikes on persistent failure
			time.Sleep(50 * time.Millisecond)
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, activity domain.Activity) error {
	switch activity.Type {
	case domain.ActivityMessage:
		return h.writeMessage(activity)
	case domain.ActivityTrace:
		if h.FormatTrace == nil {
			return nil
		}
		_, err := fmt.Fprintln(h.Writer, h.FormatTrace(activity))
		return err
	default:
		return nil
	}
}

func (h *TextHandler) writeMessage(activity domain.Activity) error {
	if activity.Text != "" {
		output := activity.Text
		if h.Renderer != nil {
			if rendered, err := h.Renderer(output); err == nil {
				output = rendered
			}
		}
		if _, err := fmt.Fprintln(h.Writer, strings.TrimSpace(output)); err != nil {
			return err
		}
	}

	if len(activity.SuggestedActions) == 0 {
		return nil
	}

	h.mu.Lock()
	h.choices = append([]domain.CardAction(nil), activity.SuggestedActions...)
	h.mu.Unlock()

	for i, action := range activity.SuggestedActions {
		line := fmt.Sprintf("  %d. %s", i+1, action.Title)
		if action.Type == domain.ActionOpenURL {
			line += " <" + action.Value + ">"
		}
		if _, err := fmt.Fprintln(h.Writer, line); err != nil {
			return err
		}
	}
	return nil
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			text := strings.TrimSpace(res.text)

			clean, err := SanitizeInputLimit(text, h.MaxInputSize)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return h.resolveChoice(clean), nil
		}
	}
}

// resolveChoice maps a numeric reply onto the matching imBack action.
// Choices are only valid for the reply that immediately follows them.
func (h *TextHandler) resolveChoice(text string) string {
	h.mu.Lock()
	choices := h.choices
	h.choices = nil
	h.mu.Unlock()

	n, err := strconv.Atoi(text)
	if err != nil || n < 1 || n > len(choices) {
		return text
	}
	if choice := choices[n-1]; choice.Type == domain.ActionIMBack {
		return choice.Value
	}
	return text
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "\n%s\n", h.FormatSystem(msg))
	return err
}

func defaultTraceFormat(a domain.Activity) string {
	return fmt.Sprintf("[%s] %+v", a.Label, a.Value)
}
