package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticlesEnhancer/internal/domain"
)

func openMemoryStore(t *testing.T) *SQLStore {
	t.Helper()

	store, err := OpenSQLStore(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedArticle(t *testing.T, store *SQLStore, title, content string, aiContent any, published string) {
	t.Helper()

	query, args, err := store.builder.Insert(articlesTable).
		Columns("title", "slug", "content", "ai_content", "source_url", "version", "published_at").
		Values(title, "slug-"+title, content, aiContent, "https://blog.example/"+title, 1, published).
		ToSql()
	require.NoError(t, err)

	_, err = store.db.ExecContext(context.Background(), query, args...)
	require.NoError(t, err)
}

func TestSQLStoreListOrdersByID(t *testing.T) {
	t.Parallel()

	store := openMemoryStore(t)
	seedArticle(t, store, "first", "<p>1</p>", nil, "2024-01-02 03:04:05")
	seedArticle(t, store, "second", "<p>2</p>", "<h2>done</h2>", "2024-02-03 00:00:00")

	articles, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "1", articles[0].ID)
	assert.Equal(t, "first", articles[0].Title)
	assert.Nil(t, articles[0].AIContent)
	assert.True(t, articles[0].Pending())
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), articles[0].PublishedAt)

	assert.Equal(t, "2", articles[1].ID)
	require.NotNil(t, articles[1].AIContent)
	assert.Equal(t, "<h2>done</h2>", *articles[1].AIContent)
	assert.False(t, articles[1].Pending())
}

func TestSQLStoreUpdate(t *testing.T) {
	t.Parallel()

	store := openMemoryStore(t)
	seedArticle(t, store, "only", "<p>c</p>", nil, "2024-01-02 03:04:05")

	err := store.Update(context.Background(), "1", domain.NewEnhancementUpdate("<h2>new</h2>"))
	require.NoError(t, err)

	articles, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)
	require.NotNil(t, articles[0].AIContent)
	assert.Equal(t, "<h2>new</h2>", *articles[0].AIContent)
	assert.Equal(t, domain.EnhancedVersion, articles[0].Version)
	assert.Equal(t, "<p>c</p>", articles[0].Content)
}

func TestSQLStoreUpdateUnknownArticle(t *testing.T) {
	t.Parallel()

	store := openMemoryStore(t)

	for _, id := range []string{"42", "65a1f0c2e4b0a1b2c3d4e5f6", ""} {
		err := store.Update(context.Background(), id, domain.NewEnhancementUpdate("<p>x</p>"))
		assert.ErrorIs(t, err, ErrArticleNotFound, "id %q", id)
	}
}

func TestOpenSQLStoreRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := OpenSQLStore(context.Background(), "sqlite", "")
	assert.Error(t, err)

	_, err = OpenSQLStore(context.Background(), "mysql", "user@/db")
	assert.Error(t, err)
}

func TestSQLStoreWithoutDatabase(t *testing.T) {
	t.Parallel()

	store := &SQLStore{}
	_, err := store.List(context.Background())
	assert.Error(t, err)
	assert.Error(t, store.Update(context.Background(), "1", domain.NewEnhancementUpdate("x")))
	assert.NoError(t, store.Close())
}
