package observability_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/aretw0/waterfall/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnDialogBegin(ctx, &domain.DialogEvent{DialogID: "RootDialog", Depth: 1})
	hooks.OnDialogBegin(ctx, &domain.DialogEvent{DialogID: "MyQnADialog", Depth: 1})
	hooks.OnStep(ctx, &domain.StepEvent{DialogID: "MyQnADialog", StepIndex: 0})
	hooks.OnStep(ctx, &domain.StepEvent{DialogID: "MyQnADialog", StepIndex: 1})
	hooks.OnDialogEnd(ctx, &domain.DialogEvent{DialogID: "MyQnADialog", Reason: domain.EndReasonReplaced})
	hooks.OnTurnComplete(ctx, &domain.TurnEvent{Status: domain.TurnWaiting, Depth: 1, Duration: 20 * time.Millisecond})
	hooks.OnTurnComplete(ctx, &domain.TurnEvent{Err: errors.New("boom"), Duration: time.Millisecond})

	const expected = `
# HELP qnabot_dialogs_begun_total Dialogs pushed on a stack.
# TYPE qnabot_dialogs_begun_total counter
qnabot_dialogs_begun_total{dialog_id="MyQnADialog"} 1
qnabot_dialogs_begun_total{dialog_id="RootDialog"} 1
# HELP qnabot_dialogs_ended_total Dialogs popped from a stack, by reason.
# TYPE qnabot_dialogs_ended_total counter
qnabot_dialogs_ended_total{dialog_id="MyQnADialog",reason="replaced"} 1
# HELP qnabot_turns_total Turns processed, by resulting status.
# TYPE qnabot_turns_total counter
qnabot_turns_total{status="waiting"} 1
# HELP qnabot_turn_errors_total Turns that failed and were rolled back.
# TYPE qnabot_turn_errors_total counter
qnabot_turn_errors_total 1
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"qnabot_dialogs_begun_total",
		"qnabot_dialogs_ended_total",
		"qnabot_turns_total",
		"qnabot_turn_errors_total",
	)
	assert.NoError(t, err)

	assert.Equal(t, 2, testutil.CollectAndCount(reg, "qnabot_waterfall_steps_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "qnabot_turn_duration_seconds"))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	m.Hooks().OnDialogBegin(context.Background(), &domain.DialogEvent{DialogID: "RootDialog"})

	rec := httptest.NewRecorder()
	observability.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `qnabot_dialogs_begun_total{dialog_id="RootDialog"} 1`)
}
