package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"ArticlesEnhancer/internal/domain"
	"ArticlesEnhancer/internal/ports"
)

const articlesTable = "articles"

var articleColumns = []string{"id", "title", "slug", "content", "ai_content", "source_url", "version", "published_at"}

// SQLStore persists articles in a relational table (sqlite or postgres).
type SQLStore struct {
	db      *sql.DB
	dialect string
	builder sq.StatementBuilderType
}

var _ ports.ArticleStore = (*SQLStore)(nil)

// NewSQLStore wires an open sql.DB; dialect is "sqlite" or "postgres".
func NewSQLStore(db *sql.DB, dialect string) *SQLStore {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if dialect == "postgres" {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return &SQLStore{db: db, dialect: dialect, builder: builder}
}

// OpenSQLStore opens the database, verifies connectivity and ensures the schema.
func OpenSQLStore(ctx context.Context, dialect, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("open %s store: empty dsn", dialect)
	}

	if dialect != "postgres" && dialect != "sqlite" {
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}

	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	store := NewSQLStore(db, dialect)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Migrate creates the articles table when it does not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	timeType := "TIMESTAMP"
	if s.dialect == "postgres" {
		idColumn = "BIGSERIAL PRIMARY KEY"
		timeType = "TIMESTAMPTZ"
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id %s,
		title TEXT NOT NULL,
		slug TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		ai_content TEXT NULL,
		source_url TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL DEFAULT 1,
		published_at %s NULL,
		updated_at %s NULL
	)`, articlesTable, idColumn, timeType, timeType)

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("migrate articles: %w", err)
	}
	return nil
}

// List returns every article ordered by identifier.
func (s *SQLStore) List(ctx context.Context) ([]domain.Article, error) {
	if s.db == nil {
		return nil, fmt.Errorf("sql store is not configured")
	}

	query, args, err := s.builder.Select(articleColumns...).From(articlesTable).OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}

	var articles []domain.Article
	for rows.Next() {
		var (
			id          int64
			article     domain.Article
			aiContent   sql.NullString
			publishedAt sql.NullString
		)
		if err := rows.Scan(&id, &article.Title, &article.Slug, &article.Content, &aiContent, &article.SourceURL, &article.Version, &publishedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan article: %w", err)
		}
		article.ID = strconv.FormatInt(id, 10)
		if aiContent.Valid {
			html := aiContent.String
			article.AIContent = &html
		}
		if publishedAt.Valid {
			article.PublishedAt = parseTimestamp(publishedAt.String)
		}
		articles = append(articles, article)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return articles, nil
}

// Update writes ai_content and version for one article.
func (s *SQLStore) Update(ctx context.Context, id string, update domain.ArticleUpdate) error {
	if s.db == nil {
		return fmt.Errorf("sql store is not configured")
	}

	key, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return fmt.Errorf("update article %q: %w", id, ErrArticleNotFound)
	}

	query, args, err := s.builder.Update(articlesTable).
		Set("ai_content", update.AIContent).
		Set("version", update.Version).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update article %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update article %s: rows affected: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("update article %s: %w", id, ErrArticleNotFound)
	}

	return nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
