package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticlesEnhancer/internal/domain"
)

func TestHTTPStoreListDecodesArrayAndEnvelope(t *testing.T) {
	t.Parallel()

	payloads := map[string]string{
		"array": `[
			{"id": 1, "title": "First", "content": "<p>a</p>", "ai_content": null, "version": 1, "published_at": "2024-01-02 03:04:05"},
			{"_id": {"$oid": "65a1f0c2e4b0a1b2c3d4e5f6"}, "title": "Second", "content": "<p>b</p>", "ai_content": "<h2>done</h2>", "version": "2"}
		]`,
		"envelope": `{"data": [
			{"id": "1", "title": "First", "content": "<p>a</p>", "version": 1, "published_at": "2024-01-02T03:04:05.000000Z"},
			{"_id": "65a1f0c2e4b0a1b2c3d4e5f6", "title": "Second", "content": "<p>b</p>", "ai_content": "<h2>done</h2>", "version": 2}
		]}`,
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					http.Error(w, "method", http.StatusMethodNotAllowed)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, payload)
			}))
			t.Cleanup(server.Close)

			articles, err := NewHTTPStore(server.URL+"/api/articles", nil).List(context.Background())
			require.NoError(t, err)
			require.Len(t, articles, 2)

			assert.Equal(t, "1", articles[0].StoreKey())
			assert.Equal(t, "First", articles[0].Title)
			assert.True(t, articles[0].Pending())
			assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), articles[0].PublishedAt)

			assert.Empty(t, articles[1].ID)
			assert.Equal(t, "65a1f0c2e4b0a1b2c3d4e5f6", articles[1].StoreKey())
			assert.False(t, articles[1].Pending())
			assert.Equal(t, 2, articles[1].Version)
		})
	}
}

func TestHTTPStoreListErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"not json": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "<html>maintenance</html>")
		},
	}

	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(handler)
			t.Cleanup(server.Close)

			_, err := NewHTTPStore(server.URL, nil).List(context.Background())
			assert.Error(t, err)
		})
	}

	_, err := NewHTTPStore("http://127.0.0.1:1", &http.Client{Timeout: time.Second}).List(context.Background())
	assert.Error(t, err)
}

func TestHTTPStoreUpdateSendsPartialBody(t *testing.T) {
	t.Parallel()

	type captured struct {
		method string
		path   string
		body   map[string]any
	}
	calls := make(chan captured, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls <- captured{method: r.Method, path: r.URL.Path, body: body}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok": true}`)
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL+"/api/articles/", nil)
	err := store.Update(context.Background(), "7", domain.NewEnhancementUpdate("<h2>New</h2>"))
	require.NoError(t, err)

	got := <-calls
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/api/articles/7", got.path)
	assert.Equal(t, map[string]any{"ai_content": "<h2>New</h2>", "version": float64(2)}, got.body)
}

func TestHTTPStoreUpdateStatuses(t *testing.T) {
	t.Parallel()

	status := map[string]int{"missing": http.StatusNotFound, "broken": http.StatusInternalServerError}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := status[r.URL.Path[len("/api/articles/"):]]
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
	}))
	defer server.Close()

	store := NewHTTPStore(server.URL+"/api/articles", nil)
	update := domain.NewEnhancementUpdate("<p>x</p>")

	assert.ErrorIs(t, store.Update(context.Background(), "missing", update), ErrArticleNotFound)

	err := store.Update(context.Background(), "broken", update)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrArticleNotFound)

	assert.NoError(t, store.Update(context.Background(), "fine", update))
	assert.Error(t, store.Update(context.Background(), "  ", update))
}

func TestFlexibleDecoding(t *testing.T) {
	t.Parallel()

	var rec articleRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id": 12, "version": null, "ai_content": ""}`), &rec))
	article := rec.toDomain()
	assert.Equal(t, "12", article.ID)
	assert.Zero(t, article.Version)
	assert.True(t, article.Pending())
	assert.True(t, article.PublishedAt.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"version": "two"}`), &rec))
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	for _, raw := range []string{
		"2024-05-06T07:08:09Z",
		"2024-05-06 07:08:09",
		"2024-05-06T07:08:09.000000Z",
		"2024-05-06 07:08:09+00:00",
	} {
		assert.Equal(t, want, parseTimestamp(raw), raw)
	}
	assert.True(t, parseTimestamp("yesterday").IsZero())
	assert.True(t, parseTimestamp(" ").IsZero())
}
