package waterfall

import (
	"context"
	"log/slog"

	"github.com/aretw0/waterfall/internal/logging"
	"github.com/aretw0/waterfall/internal/runtime"
	"github.com/aretw0/waterfall/pkg/adapters/memory"
	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/aretw0/waterfall/pkg/ports"
	"github.com/aretw0/waterfall/pkg/session"
)

// Building blocks of a dialog tree.
type (
	Dialog        = runtime.Dialog
	DialogSet     = runtime.DialogSet
	DialogContext = runtime.DialogContext
	TurnContext   = runtime.TurnContext
	Step          = runtime.Step
	StepContext   = runtime.StepContext
	Waterfall     = runtime.Waterfall
	Component     = runtime.Component
)

var (
	NewWaterfall   = runtime.NewWaterfall
	NewComponent   = runtime.NewComponent
	NewDialogSet   = runtime.NewDialogSet
	NewTurnContext = runtime.NewTurnContext
)

// Engine is the high-level entry point for the library.
// It runs turns against the dialog stack of each conversation, one turn per
// conversation at a time, and persists the stack only when a turn succeeds.
type Engine struct {
	runtime  *runtime.Engine
	sessions *session.Manager
	logger   *slog.Logger
}

type settings struct {
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	store    ports.StackStore
	sessions *session.Manager
}

// Option defines a functional option for configuring the Engine.
type Option func(*settings)

// WithLifecycleHooks registers observability hooks. Repeated calls accumulate.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore persists stacks in store. Defaults to an in-memory store.
func WithStore(store ports.StackStore) Option {
	return func(s *settings) {
		s.store = store
	}
}

// WithSessionManager shares an existing session manager. It takes precedence over WithStore.
func WithSessionManager(m *session.Manager) Option {
	return func(s *settings) {
		s.sessions = m
	}
}

// New creates an Engine that begins root on conversations without a stack.
func New(root Dialog, opts ...Option) (*Engine, error) {
	s := settings{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}

	dialogs, err := runtime.NewDialogSet(root)
	if err != nil {
		return nil, err
	}

	sessions := s.sessions
	if sessions == nil {
		store := s.store
		if store == nil {
			store = memory.NewStore()
		}
		sessions = session.NewManager(store, session.WithLogger(s.logger))
	}

	return &Engine{
		runtime: runtime.NewEngine(dialogs,
			runtime.WithRootDialog(root.ID()),
			runtime.WithLifecycleHooks(s.hooks),
			runtime.WithLogger(s.logger),
		),
		sessions: sessions,
		logger:   s.logger,
	}, nil
}

// Sessions exposes the session manager, e.g. to inspect or delete stacks.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// OnTurn runs one activity through the conversation's dialog stack.
// A turn that fails leaves the stored stack as it was before the turn.
func (e *Engine) OnTurn(ctx context.Context, activity domain.Activity, sender ports.ActivitySender) error {
	turn := runtime.NewTurnContext(activity, sender)

	return e.sessions.Turn(ctx, activity.ConversationID, func(ctx context.Context, stack *domain.Stack) (*domain.Stack, error) {
		res, next, err := e.runtime.Run(ctx, turn, stack)
		if err != nil {
			return nil, err
		}
		if diff := domain.Diff(stack, next); !diff.IsEmpty() {
			e.logger.DebugContext(ctx, "stack changed",
				"conversation_id", activity.ConversationID,
				"status", res.Status,
				"popped", diff.Popped,
				"pushed", diff.Pushed,
				"advanced", diff.Advanced,
				"responded", turn.Responded(),
			)
		}
		return next, nil
	})
}
