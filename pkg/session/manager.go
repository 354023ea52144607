package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/waterfall/internal/logging"
	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/aretw0/waterfall/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates conversation access, ensuring a conversation runs one turn at a time.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.StackStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a session manager over the given stack store.
func NewManager(store ports.StackStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(conversationID) after unlocking.
func (m *Manager) acquire(conversationID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[conversationID]
	if !exists {
		entry = &lockEntry{}
		m.locks[conversationID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(conversationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[conversationID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, conversationID)
	}
}

// Load retrieves a conversation's stack.
func (m *Manager) Load(ctx context.Context, conversationID string) (*domain.Stack, error) {
	var stack *domain.Stack
	err := m.WithLock(ctx, conversationID, func(ctx context.Context) error {
		var err error
		stack, err = m.store.Load(ctx, conversationID)
		return err
	})
	return stack, err
}

// Save persists a conversation's stack.
func (m *Manager) Save(ctx context.Context, conversationID string, stack *domain.Stack) error {
	return m.WithLock(ctx, conversationID, func(ctx context.Context) error {
		return m.store.Save(ctx, conversationID, stack)
	})
}

// Delete forgets a conversation.
func (m *Manager) Delete(ctx context.Context, conversationID string) error {
	return m.WithLock(ctx, conversationID, func(ctx context.Context) error {
		return m.store.Delete(ctx, conversationID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying stack store.
func (m *Manager) Store() ports.StackStore {
	return m.store
}

// TurnFunc processes one turn. It returns the stack to keep.
type TurnFunc func(ctx context.Context, stack *domain.Stack) (*domain.Stack, error)

// Turn runs fn with the conversation locked. A conversation without a stored
// stack starts empty. The stack returned by fn is saved only when fn succeeds,
// so a failed turn leaves the stored stack untouched.
func (m *Manager) Turn(ctx context.Context, conversationID string, fn TurnFunc) error {
	return m.WithLock(ctx, conversationID, func(ctx context.Context) error {
		stack, err := m.store.Load(ctx, conversationID)
		if errors.Is(err, domain.ErrConversationNotFound) {
			stack = domain.NewStack(conversationID)
		} else if err != nil {
			return fmt.Errorf("failed to load conversation: %w", err)
		}

		next, err := fn(ctx, stack)
		if err != nil {
			m.logger.Debug("turn failed, conversation not saved",
				"conversation_id", conversationID,
				"err", err,
			)
			return err
		}
		if next == nil {
			next = domain.NewStack(conversationID)
		}
		if err := m.store.Save(ctx, conversationID, next); err != nil {
			return fmt.Errorf("failed to save conversation: %w", err)
		}
		return nil
	})
}

// WithLock executes a function while holding the lock for the conversation.
func (m *Manager) WithLock(ctx context.Context, conversationID string, fn func(context.Context) error) error {
	entry := m.acquire(conversationID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(conversationID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
