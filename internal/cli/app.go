package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/waterfall/internal/bot"
	"github.com/aretw0/waterfall/internal/config"
	"github.com/aretw0/waterfall/internal/logging"
	"github.com/aretw0/waterfall/pkg/adapters/memory"
	"github.com/aretw0/waterfall/pkg/observability"
	"github.com/aretw0/waterfall/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
)

// App holds the wired components of one bot process.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	KB       *memory.KnowledgeBase
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	Sessions *session.Manager
	Bot      *bot.Bot
}

// AppOption customises NewApp.
type AppOption func(*App)

// WithAppLogger replaces the logger built from the config.
func WithAppLogger(logger *slog.Logger) AppOption {
	return func(a *App) {
		a.Logger = logger
	}
}

// NewApp builds the knowledge base, metrics, session manager and bot from cfg.
func NewApp(cfg config.Config, opts ...AppOption) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	app := &App{Config: cfg}
	for _, opt := range opts {
		opt(app)
	}
	if app.Logger == nil {
		level, _ := logging.ParseLevel(cfg.LogLevel)
		app.Logger = logging.New(level, cfg.LogFormat)
	}

	kb, err := LoadKnowledgeBase(cfg.KnowledgeBaseFile)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	app.KB = kb
	if app.Config.KnowledgeBaseID == "" {
		app.Config.KnowledgeBaseID = kb.ID()
	}

	app.Registry = prometheus.NewRegistry()
	if app.Metrics, err = observability.NewMetrics(app.Registry); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	root, err := bot.NewRootDialog(app.Config, kb,
		bot.WithTrainer(kb),
		bot.WithDialogLogger(app.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("build dialogs: %w", err)
	}

	app.Sessions = session.NewManager(memory.NewStore(), session.WithLogger(app.Logger))
	app.Bot, err = bot.New(root, app.Sessions,
		bot.WithLifecycleHooks(app.Metrics.Hooks()),
		bot.WithLogger(app.Logger),
	)
	if err != nil {
		return nil, err
	}

	app.Logger.Debug("app ready",
		"knowledge_base_id", app.Config.KnowledgeBaseID,
		"config_file", cfg.File,
		"override_multiturn", cfg.OverrideMultiTurnStep,
		"override_display", cfg.OverrideDisplayQnAStep,
	)
	return app, nil
}
