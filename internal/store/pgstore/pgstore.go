// Package pgstore implements the chunk repository on Postgres with the
// pgvector extension, via bun.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/models"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/store"
)

type chunkRow struct {
	bun.BaseModel `bun:"table:chunk_records,alias:c"`

	ID                 string    `bun:"id,pk"`
	Content            string    `bun:"content,notnull"`
	Embedding          []float32 `bun:"embedding,notnull,type:vector(768)"`
	SessionID          string    `bun:"session_id,notnull"`
	Email              string    `bun:"email,notnull"`
	Name               string    `bun:"name"`
	Role               string    `bun:"role"`
	Source             string    `bun:"source"`
	ContentFingerprint string    `bun:"content_fingerprint,notnull"`
}

type Store struct {
	db       *bun.DB
	embedder store.Embedder
}

// Connect opens the Postgres connection the way the rest of the app
// expects it: DSN plus password, TLS disabled for local development.
func Connect(dsn, password string) *sql.DB {
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn+"?sslmode=disable"), pgdriver.WithPassword(password)))
}

func New(sqldb *sql.DB, embedder store.Embedder, debug bool) *Store {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return &Store{db: db, embedder: embedder}
}

// InitSchema creates the chunk table if it does not exist. The vector
// extension must already be installed on the database.
func (s *Store) InitSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*chunkRow)(nil)).IfNotExists().Exec(ctx)
	return err
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

	rows := make([]chunkRow, len(records))
	for i, rec := range records {
		rows[i] = chunkRow{
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

	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("inserting chunks: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, query, sessionID string, k int) ([]models.ChunkRecord, error) {
	queryEmbedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	var rows []chunkRow
	err = s.db.NewSelect().
		Model(&rows).
		Where("session_id = ?", sessionID).
		OrderExpr("embedding <-> ?", queryEmbedding).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}

	records := make([]models.ChunkRecord, len(rows))
	for i, row := range rows {
		records[i] = models.ChunkRecord{
			ID:                 row.ID,
			Content:            row.Content,
			SessionID:          row.SessionID,
			Email:              row.Email,
			Name:               row.Name,
			Role:               row.Role,
			Source:             row.Source,
			ContentFingerprint: row.ContentFingerprint,
		}
	}
	return records, nil
}

func (s *Store) Fingerprint(ctx context.Context, sessionID, email string) (string, error) {
	var fingerprint string
	err := s.db.NewSelect().
		Model((*chunkRow)(nil)).
		Column("content_fingerprint").
		Where("session_id = ?", sessionID).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx, &fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("looking up fingerprint: %w", err)
	}
	return fingerprint, nil
}

func (s *Store) DeleteByCandidate(ctx context.Context, sessionID, email string) error {
	_, err := s.db.NewDelete().
		Model((*chunkRow)(nil)).
		Where("session_id = ?", sessionID).
		Where("email = ?", email).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("deleting candidate chunks: %w", err)
	}
	return nil
}

func (s *Store) DeleteBySession(ctx context.Context, sessionID string) error {
	_, err := s.db.NewDelete().
		Model((*chunkRow)(nil)).
		Where("session_id = ?", sessionID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("deleting session chunks: %w", err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context, sessionID string) (int, error) {
	count, err := s.db.NewSelect().
		Model((*chunkRow)(nil)).
		Where("session_id = ?", sessionID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting session chunks: %w", err)
	}
	return count, nil
}
