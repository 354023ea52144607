// Package testutils holds test doubles shared by the package tests.
package testutils

import (
	"context"
	"sync"

	"github.com/aretw0/waterfall/pkg/domain"
)

// RecordingSender is a ports.ActivitySender that keeps everything it is given.
// Traces are kept apart from other activities.
type RecordingSender struct {
	mu         sync.Mutex
	Activities []domain.Activity
	Traces     []domain.Activity

	// Err, when set, is returned by every send.
	Err error
}

func (r *RecordingSender) SendActivity(ctx context.Context, activity domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if activity.Type == domain.ActivityTrace {
		r.Traces = append(r.Traces, activity)
		return nil
	}
	r.Activities = append(r.Activities, activity)
	return nil
}

func (r *RecordingSender) SendTraceActivity(ctx context.Context, name string, value any, valueType, label string) error {
	return r.SendActivity(ctx, domain.NewTrace(name, value, valueType, label))
}

// Texts returns the text of every non-trace activity, in order.
func (r *RecordingSender) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, a := range r.Activities {
		out = append(out, a.Text)
	}
	return out
}

// Last returns the most recent non-trace activity, or the zero value.
func (r *RecordingSender) Last() domain.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Activities) == 0 {
		return domain.Activity{}
	}
	return r.Activities[len(r.Activities)-1]
}

// Trace returns the first trace with the given name.
func (r *RecordingSender) Trace(name string) (domain.Activity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tr := range r.Traces {
		if tr.Name == name {
			return tr, true
		}
	}
	return domain.Activity{}, false
}

// Reset forgets everything recorded so far.
func (r *RecordingSender) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Activities = nil
	r.Traces = nil
}
