package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/waterfall/pkg/domain"
)

// Store implements ports.StackStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Stack
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Stack),
	}
}

// Save keeps a deep copy of the stack.
func (s *Store) Save(ctx context.Context, conversationID string, stack *domain.Stack) error {
	copied := stack.Clone()
	if copied == nil {
		copied = domain.NewStack(conversationID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[conversationID] = copied
	return nil
}

// Load returns a copy so callers cannot mutate the stored stack through the pointer.
func (s *Store) Load(ctx context.Context, conversationID string) (*domain.Stack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stack, ok := s.data[conversationID]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	return stack.Clone(), nil
}

// Delete removes the stack.
func (s *Store) Delete(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, conversationID)
	return nil
}

// List returns the known conversations in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
