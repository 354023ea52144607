package ports

import (
	"context"

	"github.com/aretw0/waterfall/pkg/domain"
)

// StackStore keeps the dialog stack of each conversation between turns.
type StackStore interface {
	// Save stores the stack for a given conversation ID.
	Save(ctx context.Context, conversationID string, stack *domain.Stack) error

	// Load retrieves the stack for a given conversation ID.
	// Returns domain.ErrConversationNotFound if the conversation does not exist.
	Load(ctx context.Context, conversationID string) (*domain.Stack, error)

	// Delete removes the stack for a given conversation ID.
	Delete(ctx context.Context, conversationID string) error

	// List returns the IDs of the known conversations.
	List(ctx context.Context) ([]string, error)
}
