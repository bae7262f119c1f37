package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ArticlesEnhancer/internal/domain"
	"ArticlesEnhancer/internal/ports"
)

// MongoStore reads and updates articles in a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ ports.ArticleStore = (*MongoStore)(nil)

// mongoRecord is the document shape written by the ingestion side.
type mongoRecord struct {
	ID          bson.RawValue `bson:"_id"`
	Title       string        `bson:"title"`
	Slug        string        `bson:"slug"`
	Content     string        `bson:"content"`
	AIContent   *string       `bson:"ai_content"`
	SourceURL   string        `bson:"source_url"`
	Version     bson.RawValue `bson:"version"`
	PublishedAt bson.RawValue `bson:"published_at"`
}

// OpenMongoStore connects, pings and binds the articles collection.
func OpenMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("open mongodb store: empty uri")
	}
	if database == "" || collection == "" {
		return nil, fmt.Errorf("open mongodb store: database and collection are required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{client: client, collection: client.Database(database).Collection(collection)}, nil
}

// List returns every document ordered by _id.
func (s *MongoStore) List(ctx context.Context) ([]domain.Article, error) {
	if s.collection == nil {
		return nil, fmt.Errorf("mongodb store is not configured")
	}

	cursor, err := s.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find articles: %w", err)
	}
	defer cursor.Close(ctx)

	var articles []domain.Article
	for cursor.Next(ctx) {
		var rec mongoRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode article: %w", err)
		}
		articles = append(articles, rec.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return articles, nil
}

func (r mongoRecord) toDomain() domain.Article {
	return domain.Article{
		LegacyID:    rawIDString(r.ID),
		Title:       r.Title,
		Slug:        r.Slug,
		Content:     r.Content,
		AIContent:   r.AIContent,
		SourceURL:   r.SourceURL,
		Version:     rawInt(r.Version),
		PublishedAt: rawTime(r.PublishedAt),
	}
}

// Update sets ai_content and version on the document with the given _id.
func (s *MongoStore) Update(ctx context.Context, id string, update domain.ArticleUpdate) error {
	if s.collection == nil {
		return fmt.Errorf("mongodb store is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("update article: empty id")
	}

	change := bson.D{{Key: "$set", Value: bson.D{
		{Key: "ai_content", Value: update.AIContent},
		{Key: "version", Value: update.Version},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}

	res, err := s.collection.UpdateOne(ctx, idFilter(id), change)
	if err != nil {
		return fmt.Errorf("update article %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update article %s: %w", id, ErrArticleNotFound)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return err
	}
	return nil
}

// idFilter matches ObjectID hex strings as ObjectIDs and anything else verbatim.
func idFilter(id string) bson.D {
	id = strings.TrimSpace(id)
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.D{{Key: "_id", Value: oid}}
	}
	return bson.D{{Key: "_id", Value: id}}
}

func rawIDString(v bson.RawValue) string {
	switch v.Type {
	case bson.TypeObjectID:
		return v.ObjectID().Hex()
	case bson.TypeString:
		return v.StringValue()
	case bson.TypeInt32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case bson.TypeInt64:
		return strconv.FormatInt(v.Int64(), 10)
	default:
		return ""
	}
}

func rawInt(v bson.RawValue) int {
	switch v.Type {
	case bson.TypeInt32:
		return int(v.Int32())
	case bson.TypeInt64:
		return int(v.Int64())
	case bson.TypeDouble:
		return int(v.Double())
	case bson.TypeString:
		n, _ := strconv.Atoi(strings.TrimSpace(v.StringValue()))
		return n
	default:
		return 0
	}
}

func rawTime(v bson.RawValue) time.Time {
	switch v.Type {
	case bson.TypeDateTime:
		return v.Time().UTC()
	case bson.TypeString:
		return parseTimestamp(v.StringValue())
	default:
		return time.Time{}
	}
}
