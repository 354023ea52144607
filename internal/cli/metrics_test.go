package cli

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/aretw0/waterfall/internal/logging"
	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discardSender struct{}

func (discardSender) SendActivity(context.Context, domain.Activity) error { return nil }
func (discardSender) SendTraceActivity(context.Context, string, any, string, string) error {
	return nil
}

func TestServeMetrics(t *testing.T) {
	app := newTestApp(t, testConfig())

	msg := domain.NewMessage("hi")
	msg.ConversationID = "metrics"
	msg.From = domain.Account{ID: "user"}
	require.NoError(t, app.Bot.OnTurn(context.Background(), msg, discardSender{}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ServeMetrics(ctx, ln, app.Registry, logging.NewNop()) }()

	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		body = string(b)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	assert.Contains(t, body, `qnabot_turns_total{status="complete"}`)
	assert.Contains(t, body, "qnabot_turn_duration_seconds")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}
