package domain

// FallbackSource labels the snippet used when live search yields nothing.
const FallbackSource = "Internal Knowledge Base"

// DefaultFallbackText explains to the model that no live research is available.
const DefaultFallbackText = "Search unavailable. Using Gemini's advanced internal database to generate authoritative insights."

// ResearchSnippet is a short excerpt handed to the rewriter as context.
type ResearchSnippet struct {
	Source string
	Text   string
}

// IsFallback reports whether the snippet came from the internal fallback.
func (s ResearchSnippet) IsFallback() bool {
	return s.Source == FallbackSource
}

// FallbackSnippet returns the single snippet used when research fails.
func FallbackSnippet(text string) ResearchSnippet {
	if text == "" {
		text = DefaultFallbackText
	}
	return ResearchSnippet{Source: FallbackSource, Text: text}
}
