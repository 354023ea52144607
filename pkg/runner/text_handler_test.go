package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_Output(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf,
		WithTextHandlerRenderer(func(s string) (string, error) {
			return "Rendered: " + s + "\n\n", nil
		}),
	)

	require.NoError(t, handler.Output(context.Background(), domain.NewMessage("Hello World")))
	assert.Equal(t, "Rendered: Hello World\n", outBuf.String())
}

func TestTextHandler_OutputSkipsUpdates(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf)

	require.NoError(t, handler.Output(context.Background(), domain.Activity{Type: domain.ActivityConversationUpdate}))
	assert.Empty(t, outBuf.String())
}

func TestTextHandler_Traces(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf)

	trace := domain.NewTrace("QnAMaker", "payload", "type", "QnAMaker Trace")
	require.NoError(t, handler.Output(context.Background(), trace))
	assert.Equal(t, "[QnAMaker Trace] payload\n", outBuf.String())

	outBuf.Reset()
	handler.FormatTrace = nil
	require.NoError(t, handler.Output(context.Background(), trace))
	assert.Empty(t, outBuf.String())
}

func TestTextHandler_Input(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("my user input\n"), outBuf)

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "my user input", val)
	assert.Equal(t, "> ", outBuf.String())

	_, err = handler.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_InputWithoutTrailingNewline(t *testing.T) {
	handler := NewTextHandler(strings.NewReader("last line"), &bytes.Buffer{})

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "last line", val)
}

func TestTextHandler_InputRetriesRejectedLines(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("far too long\nok\n"), outBuf, WithMaxInputSize(5))

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Contains(t, outBuf.String(), "Please try again.")
}

func TestTextHandler_InputHonoursContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	handler := NewTextHandler(pr, &bytes.Buffer{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := handler.Input(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTextHandler_SuggestedActions(t *testing.T) {
	actions := []domain.CardAction{
		{Type: domain.ActionIMBack, Title: "Opening time", Value: "What is the opening time?"},
		{Type: domain.ActionIMBack, Title: "None of the above.", Value: "None of the above."},
		{Type: domain.ActionOpenURL, Title: "Docs", Value: "https://example.com"},
	}

	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"number selects imBack value", "1", "What is the opening time?"},
		{"second choice", "2", "None of the above."},
		{"openUrl is not sent back", "3", "3"},
		{"out of range", "4", "4"},
		{"free text passes through", "something else", "something else"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outBuf := &bytes.Buffer{}
			handler := NewTextHandler(strings.NewReader(tt.reply+"\n"+"1\n"), outBuf)

			require.NoError(t, handler.Output(context.Background(), domain.NewSuggestedActions(actions, "Did you mean:")))
			assert.Contains(t, outBuf.String(), "Did you mean:\n  1. Opening time\n  2. None of the above.\n  3. Docs <https://example.com>\n")

			got, err := handler.Input(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Choices only apply to the next reply.
			got, err = handler.Input(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "1", got)
		})
	}
}

func TestTextHandler_SystemOutput(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf, WithSystemFormatter(strings.ToUpper))

	require.NoError(t, handler.SystemOutput(context.Background(), "careful"))
	assert.Equal(t, "\nCAREFUL\n", outBuf.String())
}
