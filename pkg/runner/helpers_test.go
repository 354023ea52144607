package runner

import (
	"context"
	"io"
	"sync"

	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/aretw0/waterfall/pkg/ports"
)

// echoBot replies to every message with its text and records what it saw.
type echoBot struct {
	mu       sync.Mutex
	received []domain.Activity
	fail     map[string]error
	actions  []domain.CardAction
}

func (b *echoBot) OnTurn(ctx context.Context, activity domain.Activity, sender ports.ActivitySender) error {
	b.mu.Lock()
	b.received = append(b.received, activity)
	b.mu.Unlock()

	if activity.Type == domain.ActivityConversationUpdate {
		return sender.SendActivity(ctx, domain.NewMessage("welcome"))
	}
	if err := b.fail[activity.Text]; err != nil {
		return err
	}
	if err := sender.SendTraceActivity(ctx, "Echo", activity.Text, "text", "Echo Trace"); err != nil {
		return err
	}
	if len(b.actions) > 0 {
		return sender.SendActivity(ctx, domain.NewSuggestedActions(b.actions, "pick one"))
	}
	return sender.SendActivity(ctx, domain.NewMessage("echo: "+activity.Text))
}

func (b *echoBot) messages() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, a := range b.received {
		if a.Type == domain.ActivityMessage {
			out = append(out, a.Text)
		}
	}
	return out
}

// scriptedIO is an IOHandler fed from a fixed list of lines.
type scriptedIO struct {
	lines     []string
	errs      []error
	output    []domain.Activity
	system    []string
	outputErr error
}

func (s *scriptedIO) Output(ctx context.Context, activity domain.Activity) error {
	if s.outputErr != nil {
		return s.outputErr
	}
	s.output = append(s.output, activity)
	return nil
}

func (s *scriptedIO) Input(ctx context.Context) (string, error) {
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return "", err
		}
	}
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedIO) SystemOutput(ctx context.Context, msg string) error {
	s.system = append(s.system, msg)
	return nil
}

func (s *scriptedIO) texts() []string {
	var out []string
	for _, a := range s.output {
		if a.Type == domain.ActivityMessage {
			out = append(out, a.Text)
		}
	}
	return out
}
