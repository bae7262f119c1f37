package usecase

import (
	"context"
	"log/slog"
	"strings"

	"ArticlesEnhancer/internal/domain"
	"ArticlesEnhancer/internal/ports"
)

const defaultMaxOriginalChars = 5000

const editorialInstruction = `You are an expert editor. Rewrite the "Original Article" below to be more authoritative, clear, and professional.`

const editorialRequirements = `Requirements:
1. Use HTML formatting (<h2>, <p>, <ul>).
2. STRICTLY DO NOT include a "References" or "Sources" section at the bottom.
3. Return ONLY the HTML string, with no commentary before or after it.`

// Rewriter implements ContentRewriter on top of a text generator.
type Rewriter struct {
	generator        ports.TextGenerator
	maxOriginalChars int
	logger           *slog.Logger
}

var _ ports.ContentRewriter = (*Rewriter)(nil)

// NewRewriter wires a generator; maxOriginalChars defaults to 5000.
func NewRewriter(generator ports.TextGenerator, maxOriginalChars int, log *slog.Logger) *Rewriter {
	if maxOriginalChars <= 0 {
		maxOriginalChars = defaultMaxOriginalChars
	}
	return &Rewriter{generator: generator, maxOriginalChars: maxOriginalChars, logger: log}
}

// Rewrite asks the generator for an HTML rewrite.
// Any failure returns original unchanged.
func (r *Rewriter) Rewrite(ctx context.Context, original string, snippets []domain.ResearchSnippet) string {
	if r.generator == nil {
		r.warn("no text generator configured, keeping original")
		return original
	}

	prompt := BuildPrompt(original, snippets, r.maxOriginalChars)

	text, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		r.warn("rewrite failed, keeping original", "error", err)
		return original
	}

	return text
}

// BuildPrompt assembles the editorial instruction, research context and the
// original article cut to maxOriginalChars characters.
func BuildPrompt(original string, snippets []domain.ResearchSnippet, maxOriginalChars int) string {
	var b strings.Builder
	b.WriteString(editorialInstruction)
	b.WriteString("\n\nContext / Research:\n")
	b.WriteString(FormatSnippets(snippets))
	b.WriteString("\n\nOriginal Article:\n")
	b.WriteString(truncateChars(original, maxOriginalChars))
	b.WriteString("\n\n")
	b.WriteString(editorialRequirements)
	b.WriteString("\n")
	return b.String()
}

// FormatSnippets renders snippets as "Source (<source>): <text>" blocks.
func FormatSnippets(snippets []domain.ResearchSnippet) string {
	parts := make([]string, 0, len(snippets))
	for _, s := range snippets {
		parts = append(parts, "Source ("+s.Source+"): "+s.Text)
	}
	return strings.Join(parts, "\n\n")
}

func truncateChars(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

func (r *Rewriter) warn(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
