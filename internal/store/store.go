// Package store defines the vector repository contract the pipeline is
// written against. Implementations own persisted chunk storage; the
// pipeline never mutates a chunk in place, it deletes and re-inserts.
package store

import (
	"context"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/models"
)

// Embedder produces vector embeddings for text. Satisfied by
// langchaingo's embeddings.EmbedderImpl.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// Repository is the session-scoped chunk store.
type Repository interface {
	// Add persists the given chunk records, embedding their content.
	Add(ctx context.Context, records []models.ChunkRecord) error

	// Search returns up to k nearest chunks for the query, restricted to
	// the given session. Chunks from other sessions are never returned.
	Search(ctx context.Context, query, sessionID string, k int) ([]models.ChunkRecord, error)

	// Fingerprint returns the stored content fingerprint for the
	// (session, email) pair, or "" when the candidate has no live chunks.
	Fingerprint(ctx context.Context, sessionID, email string) (string, error)

	// DeleteByCandidate removes all chunks for one (session, email) pair.
	DeleteByCandidate(ctx context.Context, sessionID, email string) error

	// DeleteBySession removes all chunks for a session. Wiping an empty
	// session succeeds silently.
	DeleteBySession(ctx context.Context, sessionID string) error

	// Count returns the number of chunks stored for a session.
	Count(ctx context.Context, sessionID string) (int, error)
}
