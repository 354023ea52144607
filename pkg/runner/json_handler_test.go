package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandler_Output(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(strings.NewReader(""), buf)

	msg := domain.NewSuggestedActions([]domain.CardAction{{Type: domain.ActionIMBack, Title: "A", Value: "a"}}, "Did you mean:")
	require.NoError(t, handler.Output(context.Background(), msg))
	require.NoError(t, handler.SystemOutput(context.Background(), "note"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var decoded domain.Activity
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
	assert.Equal(t, domain.ActivityMessage, decoded.Type)
	assert.Equal(t, "Did you mean:", decoded.Text)
	assert.Equal(t, msg.SuggestedActions, decoded.SuggestedActions)

	assert.JSONEq(t, `{"type":"system","text":"note"}`, lines[1])
}

func TestJSONHandler_Input(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"json string", `"Hello World"`, "Hello World"},
		{"json object", `{"text": " hi "}`, "hi"},
		{"plain text", `where is the source?`, "where is the source?"},
		{"no trailing newline", `last`, "last"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewJSONHandler(strings.NewReader(tt.line), &bytes.Buffer{})
			got, err := handler.Input(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONHandler_InputEOF(t *testing.T) {
	handler := NewJSONHandler(strings.NewReader("one\n"), &bytes.Buffer{})

	_, err := handler.Input(context.Background())
	require.NoError(t, err)
	_, err = handler.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONHandler_InputLimit(t *testing.T) {
	handler := NewJSONHandler(strings.NewReader(`"abcdef"`+"\n"), &bytes.Buffer{})
	handler.MaxInputSize = 3

	_, err := handler.Input(context.Background())
	assert.ErrorIs(t, err, ErrInputTooLarge)
}
