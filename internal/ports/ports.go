package ports

import (
	"context"

	"ArticlesEnhancer/internal/domain"
)

// ArticleStore lists articles and applies partial updates keyed by identifier.
type ArticleStore interface {
	List(ctx context.Context) ([]domain.Article, error)
	Update(ctx context.Context, id string, update domain.ArticleUpdate) error
}

// ResearchGatherer collects context snippets for a topic.
// Implementations never fail and always return at least one snippet.
type ResearchGatherer interface {
	Gather(ctx context.Context, topic string) []domain.ResearchSnippet
}

// ContentRewriter produces an HTML rewrite, returning the original on failure.
type ContentRewriter interface {
	Rewrite(ctx context.Context, original string, snippets []domain.ResearchSnippet) string
}

// TextGenerator sends a single prompt to a generative model.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Notifier announces enhanced articles to an outbound channel.
type Notifier interface {
	PublishEnhanced(ctx context.Context, article domain.Article) error
}

// Scheduler drives a job repeatedly until the context is cancelled.
type Scheduler interface {
	Run(ctx context.Context, job func(context.Context)) error
}
