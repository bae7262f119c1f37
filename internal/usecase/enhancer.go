package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"ArticlesEnhancer/internal/domain"
	"ArticlesEnhancer/internal/ports"
)

// Outcome summarises what a single cycle did.
type Outcome string

const (
	OutcomeIdle             Outcome = "idle"
	OutcomeStoreUnavailable Outcome = "store_unavailable"
	OutcomeEnhanced         Outcome = "enhanced"
	OutcomeMissingID        Outcome = "missing_id"
	OutcomePersistFailed    Outcome = "persist_failed"
)

// CycleResult describes one poll → enhance pass.
type CycleResult struct {
	ID               string
	Outcome          Outcome
	ArticleKey       string
	Title            string
	Snippets         int
	FallbackResearch bool
	KeptOriginal     bool
}

// EnhancerDeps wires all driven adapters into the enhancement cycle.
type EnhancerDeps struct {
	Store      ports.ArticleStore
	Researcher ports.ResearchGatherer
	Rewriter   ports.ContentRewriter
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// Enhancer runs the research → rewrite → persist workflow for pending articles.
type Enhancer struct {
	store      ports.ArticleStore
	researcher ports.ResearchGatherer
	rewriter   ports.ContentRewriter
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewEnhancer constructs the orchestration component.
func NewEnhancer(deps EnhancerDeps) *Enhancer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Enhancer{
		store:      deps.Store,
		researcher: deps.Researcher,
		rewriter:   deps.Rewriter,
		notifier:   deps.Notifier,
		logger:     logger,
	}
}

// RunCycle polls the store once and enhances at most one pending article.
// It never returns an error; every failure is logged and reflected in the outcome.
func (e *Enhancer) RunCycle(ctx context.Context) CycleResult {
	result := CycleResult{ID: uuid.NewString(), Outcome: OutcomeIdle}
	log := e.logger.With("cycle", result.ID)

	if e.store == nil {
		log.Error("article store is not configured")
		result.Outcome = OutcomeStoreUnavailable
		return result
	}

	articles, err := e.store.List(ctx)
	if err != nil {
		log.Error("list articles failed", "error", err)
		result.Outcome = OutcomeStoreUnavailable
		return result
	}

	article, ok := SelectPending(articles)
	if !ok {
		log.Debug("no pending article", "articles", len(articles))
		return result
	}

	result.ArticleKey = article.StoreKey()
	result.Title = article.Title
	log = log.With("article", result.ArticleKey, "title", article.Title)
	log.Info("processing article")

	snippets := e.research(ctx, article.Title)
	result.Snippets = len(snippets)
	result.FallbackResearch = len(snippets) == 1 && snippets[0].IsFallback()
	log.Debug("research gathered", "snippets", result.Snippets, "fallback", result.FallbackResearch)

	rewritten := e.rewrite(ctx, article.Content, snippets)
	result.KeptOriginal = rewritten == article.Content

	if result.ArticleKey == "" {
		log.Error("article has no identifier, skipping update")
		result.Outcome = OutcomeMissingID
		return result
	}

	if err := e.store.Update(ctx, result.ArticleKey, domain.NewEnhancementUpdate(rewritten)); err != nil {
		log.Error("update article failed", "error", err)
		result.Outcome = OutcomePersistFailed
		return result
	}

	result.Outcome = OutcomeEnhanced
	log.Info("article enhanced", "kept_original", result.KeptOriginal, "snippets", result.Snippets)

	if e.notifier != nil {
		enhanced := article
		enhanced.AIContent = &rewritten
		enhanced.Version = domain.EnhancedVersion
		if err := e.notifier.PublishEnhanced(ctx, enhanced); err != nil {
			log.Warn("notify enhanced article failed", "error", err)
		}
	}

	return result
}

func (e *Enhancer) research(ctx context.Context, topic string) []domain.ResearchSnippet {
	if e.researcher == nil {
		return []domain.ResearchSnippet{domain.FallbackSnippet("")}
	}
	snippets := e.researcher.Gather(ctx, topic)
	if len(snippets) == 0 {
		return []domain.ResearchSnippet{domain.FallbackSnippet("")}
	}
	return snippets
}

func (e *Enhancer) rewrite(ctx context.Context, original string, snippets []domain.ResearchSnippet) string {
	if e.rewriter == nil {
		return original
	}
	return e.rewriter.Rewrite(ctx, original, snippets)
}

// SelectPending returns the first article, in store order, that still needs enhancement.
func SelectPending(articles []domain.Article) (domain.Article, bool) {
	for _, article := range articles {
		if article.Pending() {
			return article, true
		}
	}
	return domain.Article{}, false
}
