package ports

import (
	"context"

	"github.com/aretw0/waterfall/pkg/domain"
)

// ActivitySender delivers activities to the user.
// Implementations must preserve the order in which activities are issued.
type ActivitySender interface {
	// SendActivity delivers a message (or any other activity).
	SendActivity(ctx context.Context, activity domain.Activity) error

	// SendTraceActivity delivers a diagnostic trace.
	SendTraceActivity(ctx context.Context, name string, value any, valueType, label string) error
}
