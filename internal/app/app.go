package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"ArticlesEnhancer/internal/config"
	"ArticlesEnhancer/internal/infrastructure/httpserver"
	"ArticlesEnhancer/internal/infrastructure/llm"
	"ArticlesEnhancer/internal/infrastructure/research"
	"ArticlesEnhancer/internal/infrastructure/scheduler"
	"ArticlesEnhancer/internal/infrastructure/storage"
	"ArticlesEnhancer/internal/infrastructure/telegram"
	"ArticlesEnhancer/internal/logging"
	"ArticlesEnhancer/internal/ports"
	"ArticlesEnhancer/internal/search"
	"ArticlesEnhancer/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	enhancer *usecase.Enhancer
	worker   *usecase.Worker
	server   *httpserver.Server
	closers  []func(context.Context) error
}

// New builds every collaborator; configuration and connectivity errors are fatal.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	a := &Application{cfg: cfg, logger: baseLogger}

	store, err := a.newStore(ctx)
	if err != nil {
		return nil, err
	}

	gatherer, err := NewResearcher(cfg, baseLogger)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.Enabled() {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	a.enhancer = usecase.NewEnhancer(usecase.EnhancerDeps{
		Store:      store,
		Researcher: gatherer,
		Rewriter:   usecase.NewRewriter(generator, cfg.AI.MaxOriginalChars, baseLogger.With("component", "rewriter")),
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "enhancer"),
	})
	a.worker = usecase.NewWorker(
		scheduler.NewIntervalScheduler(cfg.Worker.PollInterval, baseLogger.With("component", "scheduler")),
		a.enhancer,
	)
	a.server = httpserver.New(cfg.Server.Addr(), baseLogger.With("component", "httpserver"))

	baseLogger.Info("application ready",
		"store", cfg.Store.Driver,
		"engine", cfg.Research.Engine,
		"provider", cfg.AI.Provider,
		"interval", cfg.Worker.PollInterval,
		"notifier", notifier != nil,
	)
	return a, nil
}

// NewResearcher builds the search-and-scrape gatherer for the configured engine.
func NewResearcher(cfg config.Config, baseLogger *slog.Logger) (*research.Gatherer, error) {
	if baseLogger == nil {
		baseLogger = logging.Discard()
	}

	selected := strings.ToLower(strings.TrimSpace(cfg.Research.Engine))
	if selected == "" {
		selected = "google"
	}
	endpointFor := func(name string) string {
		if name == selected {
			return cfg.Research.Endpoint
		}
		return ""
	}

	client := &http.Client{Timeout: cfg.Research.SearchTimeout + cfg.Research.PageTimeout}
	registry := search.NewRegistry()
	registry.Register(research.NewGoogleEngine(client, endpointFor("google")))
	registry.Register(research.NewDuckDuckGoEngine(client, endpointFor("duckduckgo")))

	engine, err := registry.Resolve(selected)
	if err != nil {
		return nil, err
	}

	return research.NewGatherer(engine, client, research.Options{
		MaxSources:      cfg.Research.MaxSources,
		SearchTimeout:   cfg.Research.SearchTimeout,
		PageTimeout:     cfg.Research.PageTimeout,
		MaxSnippetChars: cfg.Research.MaxSnippetChars,
		MinSnippetChars: cfg.Research.MinSnippetChars,
		OriginDomains:   cfg.Research.OriginDomains,
		FallbackText:    cfg.Research.FallbackText,
		UserAgents:      cfg.Research.UserAgents,
	}, baseLogger.With("component", "research", "engine", engine.Name())), nil
}

func (a *Application) newStore(ctx context.Context) (ports.ArticleStore, error) {
	cfg := a.cfg.Store
	openCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		openCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	switch strings.ToLower(cfg.Driver) {
	case "", config.StoreHTTP:
		return storage.NewHTTPStore(cfg.URL, &http.Client{Timeout: cfg.Timeout}), nil
	case config.StoreSQLite, config.StorePostgres:
		store, err := storage.OpenSQLStore(openCtx, strings.ToLower(cfg.Driver), cfg.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return store.Close() })
		return store, nil
	case config.StoreMongo:
		store, err := storage.OpenMongoStore(openCtx, cfg.MongoURI, cfg.Database, cfg.Collection)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func newGenerator(ctx context.Context, cfg config.Config) (ports.TextGenerator, error) {
	switch strings.ToLower(cfg.AI.Provider) {
	case "", config.ProviderGemini:
		return llm.NewGeminiClient(ctx, cfg.Gemini)
	case config.ProviderChatGPT:
		if cfg.ChatGPT.APIKey == "" || cfg.ChatGPT.Endpoint == "" {
			return nil, fmt.Errorf("chatgpt: %w", llm.ErrMisconfigured)
		}
		return llm.NewChatGPTClient(cfg.ChatGPT), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
}

// Run serves the liveness routes and drives the enhancement loop until ctx ends.
func (a *Application) Run(ctx context.Context) error {
	if a.worker == nil || a.server == nil {
		return fmt.Errorf("application is not initialised")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.server.Run(gctx)
	})
	g.Go(func() error {
		a.logger.Info("enhancement loop started")
		err := a.worker.Run(gctx)
		a.logger.Info("enhancement loop stopped")
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	return g.Wait()
}

// RunOnce executes a single enhancement cycle.
func (a *Application) RunOnce(ctx context.Context) usecase.CycleResult {
	return a.enhancer.RunCycle(ctx)
}

// Close releases store connections.
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
