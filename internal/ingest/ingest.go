// Package ingest owns the write path: fingerprint-based change
// detection, identity extraction, chunking and repository writes.
//
// Replacement is delete-then-insert with no transaction around the two
// operations. A concurrent read in that window may observe zero, partial
// or pre-update chunks; consistency is last-writer-wins per
// (session, email) and serialization, if needed, belongs to the caller.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/chunker"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/extract"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/helper"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/models"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/parser"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/store"
)

// ErrMissingIdentity is returned when no email can be extracted from a
// document. Nothing is persisted in that case.
var ErrMissingIdentity = errors.New("no email found in candidate data")

// Decision classifies what an ingestion call did.
type Decision string

const (
	DecisionInsert  Decision = "insert"
	DecisionSkip    Decision = "skip"
	DecisionReplace Decision = "replace"
)

type Result struct {
	Decision      Decision
	ChunksWritten int
	Email         string
}

// Summary aggregates a directory ingestion.
type Summary struct {
	Total      int
	Successful int
	Failed     int
	Errors     []string
}

type Service struct {
	repo    store.Repository
	chunker chunker.Chunker
}

func NewService(repo store.Repository, chunkSize, chunkOverlap int) *Service {
	return &Service{
		repo:    repo,
		chunker: chunker.New(chunkSize, chunkOverlap),
	}
}

// IngestText ingests one candidate document. Re-ingesting identical
// content for the same (session, email) is a no-op; changed content
// replaces all previous chunks for that candidate.
func (s *Service) IngestText(ctx context.Context, rawText, sourceName, sessionID string) (Result, error) {
	fingerprint := fingerprintOf(rawText)

	email, ok := extract.Email(rawText)
	if !ok {
		return Result{}, fmt.Errorf("%w (%s)", ErrMissingIdentity, sourceName)
	}

	existing, err := s.repo.Fingerprint(ctx, sessionID, email)
	if err != nil {
		return Result{}, fmt.Errorf("checking existing fingerprint: %w", err)
	}

	decision := DecisionInsert
	switch existing {
	case "":
	case fingerprint:
		log.Debug().Str("email", email).Str("fingerprint", fingerprint[:8]).
			Msg("Skipping ingest: content unchanged")
		return Result{Decision: DecisionSkip, Email: email}, nil
	default:
		log.Info().Str("email", email).Str("session", sessionID).
			Str("old", existing[:8]).Str("new", fingerprint[:8]).
			Msg("Content changed, replacing candidate chunks")
		if err := s.repo.DeleteByCandidate(ctx, sessionID, email); err != nil {
			return Result{}, fmt.Errorf("deleting outdated chunks: %w", err)
		}
		decision = DecisionReplace
	}

	profile, _ := extract.Profile(rawText)
	enriched, err := s.chunker.SplitAndEnrich(rawText, profile)
	if err != nil {
		return Result{}, err
	}
	if len(enriched) == 0 {
		return Result{Decision: decision, Email: email}, nil
	}

	records := make([]models.ChunkRecord, len(enriched))
	for i := range enriched {
		records[i] = models.ChunkRecord{
			ID:                 helper.ChunkID(sessionID, email, enriched[i], i),
			Content:            enriched[i],
			SessionID:          sessionID,
			Email:              email,
			Name:               profile.Name,
			Role:               profile.Role,
			Source:             sourceName,
			ContentFingerprint: fingerprint,
		}
	}

	if err := s.repo.Add(ctx, records); err != nil {
		return Result{}, fmt.Errorf("storing chunks: %w", err)
	}

	log.Info().Int("chunks", len(records)).Str("email", email).Str("session", sessionID).
		Msg("Ingested candidate document")
	return Result{Decision: decision, ChunksWritten: len(records), Email: email}, nil
}

// IngestFile parses the file and ingests its text, using the file's
// base name as the source.
func (s *Service) IngestFile(ctx context.Context, path, sessionID string) (Result, error) {
	text, err := parser.Parse(path)
	if err != nil {
		return Result{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s.IngestText(ctx, text, filepath.Base(path), sessionID)
}

// IngestDirectory ingests every regular file in the directory,
// collecting per-file failures instead of aborting.
func (s *Service) IngestDirectory(ctx context.Context, dir, sessionID string) (Summary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Summary{}, fmt.Errorf("reading directory: %w", err)
	}

	var summary Summary
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		summary.Total++
		if _, err := s.IngestFile(ctx, filepath.Join(dir, entry.Name()), sessionID); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", entry.Name(), err))
			log.Error().Err(err).Str("file", entry.Name()).Msg("Failed to ingest file")
			continue
		}
		summary.Successful++
	}
	return summary, nil
}

// Wipe removes every chunk in the session. Wiping an empty session
// succeeds silently.
func (s *Service) Wipe(ctx context.Context, sessionID string) error {
	return s.repo.DeleteBySession(ctx, sessionID)
}

// Count reports how many chunks the session holds.
func (s *Service) Count(ctx context.Context, sessionID string) (int, error) {
	return s.repo.Count(ctx, sessionID)
}

// IsEmpty reports whether the session holds no chunks.
func (s *Service) IsEmpty(ctx context.Context, sessionID string) (bool, error) {
	count, err := s.Count(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func fingerprintOf(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
