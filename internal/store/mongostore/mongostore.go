// Package mongostore implements the chunk repository on MongoDB Atlas
// vector search. The Atlas index must cover the embedding path and allow
// filtering on sessionId.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/models"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/store"
)

// Atlas recommends over-fetching candidates before the final limit.
const candidateMultiplier = 10

type chunkDoc struct {
	ID                 string    `bson:"_id"`
	Content            string    `bson:"content"`
	Embedding          []float32 `bson:"embedding"`
	SessionID          string    `bson:"sessionId"`
	Email              string    `bson:"email"`
	Name               string    `bson:"name"`
	Role               string    `bson:"role"`
	Source             string    `bson:"source"`
	ContentFingerprint string    `bson:"contentHash"`
}

type Store struct {
	collection *mongo.Collection
	indexName  string
	embedder   store.Embedder
}

func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	return client, nil
}

func New(client *mongo.Client, database, collection, indexName string, embedder store.Embedder) *Store {
	return &Store{
		collection: client.Database(database).Collection(collection),
		indexName:  indexName,
		embedder:   embedder,
	}
}

func (s *Store) Add(ctx context.Context, records []models.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}

	contents := make([]string, len(records))
	for i, rec := range records {
		contents[i] = rec.Content
	}
	embeddings, err := s.embedder.EmbedDocuments(ctx, contents)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}

	docs := make([]any, len(records))
	for i, rec := range records {
		docs[i] = chunkDoc{
			ID:                 rec.ID,
			Content:            rec.Content,
			Embedding:          embeddings[i],
			SessionID:          rec.SessionID,
			Email:              rec.Email,
			Name:               rec.Name,
			Role:               rec.Role,
			Source:             rec.Source,
			ContentFingerprint: rec.ContentFingerprint,
		}
	}

	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("inserting chunks: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, query, sessionID string, k int) ([]models.ChunkRecord, error) {
	queryEmbedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	// The filter runs before the vector search, so only chunks in the
	// caller's session are candidates at all.
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: s.indexName},
			{Key: "path", Value: "embedding"},
			{Key: "queryVector", Value: queryEmbedding},
			{Key: "numCandidates", Value: k * candidateMultiplier},
			{Key: "limit", Value: k},
			{Key: "filter", Value: bson.D{{Key: "sessionId", Value: sessionID}}},
		}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []chunkDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("reading search results: %w", err)
	}

	records := make([]models.ChunkRecord, len(docs))
	for i, doc := range docs {
		records[i] = models.ChunkRecord{
			ID:                 doc.ID,
			Content:            doc.Content,
			SessionID:          doc.SessionID,
			Email:              doc.Email,
			Name:               doc.Name,
			Role:               doc.Role,
			Source:             doc.Source,
			ContentFingerprint: doc.ContentFingerprint,
		}
	}
	return records, nil
}

func (s *Store) Fingerprint(ctx context.Context, sessionID, email string) (string, error) {
	var doc chunkDoc
	err := s.collection.FindOne(ctx, bson.M{"sessionId": sessionID, "email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("looking up fingerprint: %w", err)
	}
	return doc.ContentFingerprint, nil
}

func (s *Store) DeleteByCandidate(ctx context.Context, sessionID, email string) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{"sessionId": sessionID, "email": email})
	if err != nil {
		return fmt.Errorf("deleting candidate chunks: %w", err)
	}
	return nil
}

func (s *Store) DeleteBySession(ctx context.Context, sessionID string) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return fmt.Errorf("deleting session chunks: %w", err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context, sessionID string) (int, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return 0, fmt.Errorf("counting session chunks: %w", err)
	}
	return int(count), nil
}
