package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ArticlesEnhancer/internal/domain"
	"ArticlesEnhancer/internal/ports"
)

const maxListBytes = 32 << 20

// HTTPStore talks to the article REST collection: GET <base>, PUT <base>/<id>.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

var _ ports.ArticleStore = (*HTTPStore)(nil)

// NewHTTPStore wires the collection URL; a nil client gets a 10s timeout.
func NewHTTPStore(baseURL string, client *http.Client) *HTTPStore {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPStore{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// List returns every article in the order the store reports them.
func (s *HTTPStore) List(ctx context.Context) ([]domain.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list articles: unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxListBytes))
	if err != nil {
		return nil, fmt.Errorf("read articles: %w", err)
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}

	articles := make([]domain.Article, 0, len(records))
	for _, r := range records {
		articles = append(articles, r.toDomain())
	}
	return articles, nil
}

// decodeRecords accepts a bare array or a {"data": [...]} envelope.
func decodeRecords(raw []byte) ([]articleRecord, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var envelope struct {
			Data []articleRecord `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, err
		}
		return envelope.Data, nil
	}

	var records []articleRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Update sends the partial update for one article.
func (s *HTTPStore) Update(ctx context.Context, id string, update domain.ArticleUpdate) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("update article: empty id")
	}

	body, err := json.Marshal(newUpdateRecord(update))
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}

	endpoint := s.baseURL + "/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("update article %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("update article %s: %w", id, ErrArticleNotFound)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("update article %s: status %s: %s", id, resp.Status, strings.TrimSpace(string(payload)))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
