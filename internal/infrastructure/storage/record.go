package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"ArticlesEnhancer/internal/domain"
)

// ErrArticleNotFound is returned when an update targets an unknown identifier.
var ErrArticleNotFound = errors.New("article not found")

// flexibleID accepts string, numeric and {"$oid": "..."} identifiers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
	case '{':
		var oid struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(data, &oid); err != nil {
			return err
		}
		*f = flexibleID(oid.OID)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = flexibleID(n.String())
	}
	return nil
}

// flexibleInt accepts numbers, numeric strings and null.
type flexibleInt int

func (f *flexibleInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	raw := strings.Trim(string(data), `"`)
	if raw == "" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return err
	}
	*f = flexibleInt(n)
	return nil
}

// articleRecord mirrors the article JSON produced by the ingestion side.
type articleRecord struct {
	ID          flexibleID  `json:"id"`
	MongoID     flexibleID  `json:"_id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Content     string      `json:"content"`
	AIContent   *string     `json:"ai_content"`
	SourceURL   string      `json:"source_url"`
	Version     flexibleInt `json:"version"`
	PublishedAt string      `json:"published_at"`
}

func (r articleRecord) toDomain() domain.Article {
	return domain.Article{
		ID:          string(r.ID),
		LegacyID:    string(r.MongoID),
		Title:       r.Title,
		Slug:        r.Slug,
		Content:     r.Content,
		AIContent:   r.AIContent,
		SourceURL:   r.SourceURL,
		Version:     int(r.Version),
		PublishedAt: parseTimestamp(r.PublishedAt),
	}
}

// updateRecord is the partial-update body.
type updateRecord struct {
	AIContent string `json:"ai_content"`
	Version   int    `json:"version"`
}

func newUpdateRecord(u domain.ArticleUpdate) updateRecord {
	return updateRecord{AIContent: u.AIContent, Version: u.Version}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000000Z",
	"2006-01-02",
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
