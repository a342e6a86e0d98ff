// Package factory opens the configured chunk repository backend.
package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/config"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/helper"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/store"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/store/chromemstore"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/store/mongostore"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/store/pgstore"
)

// Open builds the repository selected by the vector_store.provider
// setting. The returned close function releases any backend connection
// and is safe to defer immediately.
func Open(ctx context.Context, cfg *config.Config, embedder store.Embedder) (store.Repository, func(), error) {
	switch cfg.VectorStore.Provider {
	case "chromem":
		if !cfg.VectorStore.InMemory {
			if err := helper.CreateFolder(cfg.VectorStore.Path); err != nil {
				return nil, nil, fmt.Errorf("creating store directory: %w", err)
			}
		}
		repo, err := chromemstore.New(cfg.VectorStore.Path, cfg.VectorStore.Collection, cfg.VectorStore.InMemory, embedder)
		if err != nil {
			return nil, nil, fmt.Errorf("opening chromem store: %w", err)
		}
		log.Info().Str("path", cfg.VectorStore.Path).Bool("in_memory", cfg.VectorStore.InMemory).
			Msg("Using chromem vector store")
		return repo, func() {}, nil

	case "postgres":
		sqldb := pgstore.Connect(cfg.Database.URL, cfg.Database.Password)
		repo := pgstore.New(sqldb, embedder, cfg.Database.Debug)
		if err := repo.InitSchema(ctx); err != nil {
			sqldb.Close()
			return nil, nil, fmt.Errorf("initializing postgres schema: %w", err)
		}
		log.Info().Msg("Using postgres vector store")
		return repo, func() { sqldb.Close() }, nil

	case "mongodb":
		client, err := mongostore.Connect(ctx, cfg.MongoDB.URI)
		if err != nil {
			return nil, nil, err
		}
		repo := mongostore.New(client, cfg.MongoDB.Database, cfg.MongoDB.Collection, cfg.MongoDB.VectorIndex, embedder)
		log.Info().Str("database", cfg.MongoDB.Database).Msg("Using mongodb vector store")
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown vector store provider: %q", cfg.VectorStore.Provider)
	}
}
