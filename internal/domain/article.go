package domain

import (
	"strings"
	"time"
)

const (
	// IngestedVersion is assigned by the ingestion job.
	IngestedVersion = 1
	// EnhancedVersion marks an article whose AI rewrite has been stored.
	EnhancedVersion = 2
)

// Article is a record owned by the article store and referenced by the pipeline.
type Article struct {
	ID          string
	LegacyID    string
	Title       string
	Slug        string
	Content     string
	AIContent   *string
	SourceURL   string
	Version     int
	PublishedAt time.Time
}

// Pending reports whether the article still waits for enhancement.
func (a Article) Pending() bool {
	return a.AIContent == nil || strings.TrimSpace(*a.AIContent) == ""
}

// StoreKey returns the identifier used for partial updates.
// Stores that label identifiers differently populate LegacyID instead of ID.
func (a Article) StoreKey() string {
	if id := strings.TrimSpace(a.ID); id != "" {
		return id
	}
	return strings.TrimSpace(a.LegacyID)
}

// ArticleUpdate is the partial update written after a rewrite.
type ArticleUpdate struct {
	AIContent string
	Version   int
}

// NewEnhancementUpdate builds the update stored after a successful cycle.
func NewEnhancementUpdate(html string) ArticleUpdate {
	return ArticleUpdate{AIContent: html, Version: EnhancedVersion}
}
