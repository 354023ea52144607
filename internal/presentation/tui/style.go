package tui

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/muesli/termenv"
)

// FormatTrace renders a trace activity as a dim single line.
func FormatTrace(a domain.Activity) string {
	return termenv.String(PlainTrace(a)).Faint().String()
}

// PlainTrace renders a trace activity without styling.
// Structured values are shown as compact JSON.
func PlainTrace(a domain.Activity) string {
	label := a.Label
	if label == "" {
		label = a.Name
	}
	var value string
	switch v := a.Value.(type) {
	case string:
		value = v
	case nil:
		value = ""
	default:
		b, err := json.Marshal(v)
		if err != nil {
			value = fmt.Sprintf("%+v", v)
		} else {
			value = string(b)
		}
	}
	return fmt.Sprintf("[%s] %s", label, value)
}

// FormatSystem highlights a system message.
func FormatSystem(msg string) string {
	p := termenv.EnvColorProfile()
	return termenv.String("! " + msg).Foreground(p.Color("#f59e0b")).String()
}
