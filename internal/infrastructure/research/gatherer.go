package research

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ArticlesEnhancer/internal/domain"
	"ArticlesEnhancer/internal/ports"
	"ArticlesEnhancer/internal/search"
)

// Options tunes the gatherer. Zero values fall back to the defaults below.
type Options struct {
	MaxSources      int
	SearchTimeout   time.Duration
	PageTimeout     time.Duration
	MaxSnippetChars int
	MinSnippetChars int
	OriginDomains   []string
	FallbackText    string
	UserAgents      []string
}

func (o Options) withDefaults() Options {
	if o.MaxSources <= 0 {
		o.MaxSources = 2
	}
	if o.SearchTimeout <= 0 {
		o.SearchTimeout = 5 * time.Second
	}
	if o.PageTimeout <= 0 {
		o.PageTimeout = 4 * time.Second
	}
	if o.MaxSnippetChars <= 0 {
		o.MaxSnippetChars = 1500
	}
	if o.MinSnippetChars <= 0 {
		o.MinSnippetChars = 100
	}
	if o.FallbackText == "" {
		o.FallbackText = domain.DefaultFallbackText
	}
	return o
}

// Gatherer implements ResearchGatherer on top of a search engine and page scraping.
type Gatherer struct {
	engine search.Engine
	client *http.Client
	filter domainFilter
	agents userAgentPool
	opts   Options
	logger *slog.Logger
}

var _ ports.ResearchGatherer = (*Gatherer)(nil)

// NewGatherer wires an engine with the HTTP client used for page fetches.
func NewGatherer(engine search.Engine, client *http.Client, opts Options, log *slog.Logger) *Gatherer {
	opts = opts.withDefaults()

	excluded := append([]string{}, opts.OriginDomains...)
	if engine != nil {
		excluded = append(excluded, engine.Domain())
	}

	return &Gatherer{
		engine: engine,
		client: defaultClient(client),
		filter: newDomainFilter(excluded...),
		agents: newUserAgentPool(opts.UserAgents),
		opts:   opts,
		logger: log,
	}
}

// Gather searches the topic and scrapes the leading results.
// It always returns at least one snippet; failures resolve to the fallback.
func (g *Gatherer) Gather(ctx context.Context, topic string) []domain.ResearchSnippet {
	userAgent := g.agents.Pick()

	links, err := g.search(ctx, topic, userAgent)
	if err != nil {
		g.warn("search failed, using fallback", "topic", topic, "error", err)
		return g.fallback()
	}
	if len(links) == 0 {
		g.warn("search returned no usable links, using fallback", "topic", topic)
		return g.fallback()
	}

	g.debug("search links found", "topic", topic, "links", len(links), "scraping", min(len(links), g.opts.MaxSources))

	snippets := make([]domain.ResearchSnippet, 0, g.opts.MaxSources)
	for _, link := range links {
		if len(snippets) == g.opts.MaxSources {
			break
		}
		if ctx.Err() != nil {
			break
		}
		snippet, err := g.scrape(ctx, link, userAgent)
		if err != nil {
			g.debug("skip source", "url", link, "error", err)
			continue
		}
		snippets = append(snippets, snippet)
	}

	if len(snippets) == 0 {
		g.warn("no source produced usable text, using fallback", "topic", topic)
		return g.fallback()
	}

	return snippets
}

// search returns the allowed candidate links, capped at MaxSources.
func (g *Gatherer) search(ctx context.Context, topic, userAgent string) ([]string, error) {
	if g.engine == nil {
		return nil, fmt.Errorf("search engine is not configured")
	}

	searchCtx, cancel := context.WithTimeout(ctx, g.opts.SearchTimeout)
	defer cancel()

	results, err := g.engine.Search(searchCtx, search.Request{Query: topic, UserAgent: userAgent})
	if err != nil {
		return nil, err
	}

	candidates := make([]string, 0, g.opts.MaxSources)
	for _, link := range results {
		if !g.filter.Allowed(link) {
			continue
		}
		candidates = append(candidates, link)
		if len(candidates) == g.opts.MaxSources {
			break
		}
	}
	return candidates, nil
}

func (g *Gatherer) scrape(ctx context.Context, link, userAgent string) (domain.ResearchSnippet, error) {
	pageCtx, cancel := context.WithTimeout(ctx, g.opts.PageTimeout)
	defer cancel()

	doc, err := fetchDocument(pageCtx, g.client, link, userAgent)
	if err != nil {
		return domain.ResearchSnippet{}, err
	}

	text := extractText(doc, g.opts.MaxSnippetChars)
	if n := len([]rune(text)); n <= g.opts.MinSnippetChars {
		return domain.ResearchSnippet{}, fmt.Errorf("page text too short (%d chars)", n)
	}

	return domain.ResearchSnippet{Source: link, Text: text}, nil
}

func (g *Gatherer) fallback() []domain.ResearchSnippet {
	return []domain.ResearchSnippet{domain.FallbackSnippet(g.opts.FallbackText)}
}

func (g *Gatherer) debug(msg string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}

func (g *Gatherer) warn(msg string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Warn(msg, args...)
	}
}
