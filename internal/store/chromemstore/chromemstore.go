// Package chromemstore implements the chunk repository on chromem-go,
// either in memory or persisted to disk. It is the default backend and
// needs no external services.
package chromemstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/models"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/store"
)

const compress = false

// candidateState tracks what chromem cannot answer by metadata alone:
// the live fingerprint and chunk count per candidate.
type candidateState struct {
	Fingerprint string `json:"fingerprint"`
	Chunks      int    `json:"chunks"`
}

type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   store.Embedder

	mu        sync.RWMutex
	sessions  map[string]map[string]candidateState
	statePath string // "" when in-memory
}

// New opens (or creates) the collection. With inMemory set, nothing
// touches the filesystem and all state lives for the process only.
func New(dbPath, collectionName string, inMemory bool, embedder store.Embedder) (*Store, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	embedFn := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, embedFn)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %w", err)
	}

	s := &Store{
		db:         db,
		collection: collection,
		embedder:   embedder,
		sessions:   map[string]map[string]candidateState{},
	}
	if !inMemory {
		s.statePath = filepath.Join(dbPath, collectionName+".state.json")
		if err := s.loadState(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Add(ctx context.Context, records []models.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(records))
	for i, rec := range records {
		docs[i] = chromem.Document{
			ID:      rec.ID,
			Content: rec.Content,
			Metadata: map[string]string{
				"sessionId":   rec.SessionID,
				"email":       rec.Email,
				"name":        rec.Name,
				"role":        rec.Role,
				"source":      rec.Source,
				"contentHash": rec.ContentFingerprint,
			},
		}
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		session, ok := s.sessions[rec.SessionID]
		if !ok {
			session = map[string]candidateState{}
			s.sessions[rec.SessionID] = session
		}
		state := session[rec.Email]
		state.Fingerprint = rec.ContentFingerprint
		state.Chunks++
		session[rec.Email] = state
	}
	return s.saveState()
}

func (s *Store) Search(ctx context.Context, query, sessionID string, k int) ([]models.ChunkRecord, error) {
	if total := s.collection.Count(); total == 0 {
		return nil, nil
	} else if k > total {
		k = total
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryText:  query,
		NResults:   k,
		Where:      map[string]string{"sessionId": sessionID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	records := make([]models.ChunkRecord, len(results))
	for i, r := range results {
		records[i] = models.ChunkRecord{
			ID:                 r.ID,
			Content:            r.Content,
			SessionID:          r.Metadata["sessionId"],
			Email:              r.Metadata["email"],
			Name:               r.Metadata["name"],
			Role:               r.Metadata["role"],
			Source:             r.Metadata["source"],
			ContentFingerprint: r.Metadata["contentHash"],
		}
	}
	return records, nil
}

func (s *Store) Fingerprint(ctx context.Context, sessionID, email string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[sessionID][email].Fingerprint, nil
}

func (s *Store) DeleteByCandidate(ctx context.Context, sessionID, email string) error {
	err := s.collection.Delete(ctx, map[string]string{"sessionId": sessionID, "email": email}, nil)
	if err != nil {
		return fmt.Errorf("failed to delete candidate chunks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions[sessionID], email)
	return s.saveState()
}

func (s *Store) DeleteBySession(ctx context.Context, sessionID string) error {
	err := s.collection.Delete(ctx, map[string]string{"sessionId": sessionID}, nil)
	if err != nil {
		return fmt.Errorf("failed to delete session chunks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return s.saveState()
}

func (s *Store) Count(ctx context.Context, sessionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, state := range s.sessions[sessionID] {
		total += state.Chunks
	}
	return total, nil
}

// loadState restores the per-candidate index written alongside the
// chromem files. Callers hold no lock yet; New is single-threaded.
func (s *Store) loadState() error {
	data, err := os.ReadFile(s.statePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read store state: %w", err)
	}
	if err := json.Unmarshal(data, &s.sessions); err != nil {
		return fmt.Errorf("failed to decode store state: %w", err)
	}
	log.Debug().Int("sessions", len(s.sessions)).Str("path", s.statePath).Msg("Loaded store state")
	return nil
}

// saveState is called with s.mu held.
func (s *Store) saveState() error {
	if s.statePath == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store state: %w", err)
	}
	if err := os.WriteFile(s.statePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write store state: %w", err)
	}
	return nil
}
