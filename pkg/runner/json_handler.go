package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/waterfall/pkg/domain"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
// Every bot activity is emitted as one JSON object per line.
type JSONHandler struct {
	Reader       *bufio.Reader
	Writer       io.Writer
	Encoder      *json.Encoder
	MaxInputSize int
}

// systemLine is the envelope used for SystemOutput.
type systemLine struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// inputLine is the accepted object form of an input line.
type inputLine struct {
	Text string `json:"text"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:       bufio.NewReader(r),
		Writer:       w,
		Encoder:      json.NewEncoder(w),
		MaxInputSize: DefaultMaxInputSize,
	}
}

func (h *JSONHandler) Output(ctx context.Context, activity domain.Activity) error {
	return h.Encoder.Encode(activity)
}

// Input reads one line. It accepts a JSON string ("hello"), an object
// ({"text": "hello"}) or plain text.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	line, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimSpace(line)

	text := line
	var str string
	var obj inputLine
	switch {
	case json.Unmarshal([]byte(line), &str) == nil:
		text = str
	case json.Unmarshal([]byte(line), &obj) == nil:
		text = obj.Text
	}

	return SanitizeInputLimit(strings.TrimSpace(text), h.MaxInputSize)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(systemLine{Type: "system", Text: msg})
}
