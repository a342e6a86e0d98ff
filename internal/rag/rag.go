// Package rag runs the read path: query translation, session-scoped
// search fan-out, deduplication and answer generation.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/llm"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/models"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/store"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/translate"
)

type Retriever struct {
	repo       store.Repository
	translator translate.Translator
	topK       int
}

func NewRetriever(repo store.Repository, translator translate.Translator, topK int) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{repo: repo, translator: translator, topK: topK}
}

// Retrieve translates the question, searches once per translated query
// within the session, and merges the results. If any per-query search
// fails the whole retrieval fails; a partially merged evidence set is
// never returned. Zero results is a valid outcome, not an error.
func (r *Retriever) Retrieve(ctx context.Context, question, sessionID string) ([]models.ChunkRecord, error) {
	queries, err := r.translator.Translate(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("translating question: %w", err)
	}

	var merged []models.ChunkRecord
	for _, query := range queries {
		results, err := r.repo.Search(ctx, query, sessionID, r.topK)
		if err != nil {
			return nil, fmt.Errorf("searching %q: %w", query, err)
		}
		merged = append(merged, results...)
	}

	evidence := deduplicate(merged)
	log.Debug().Int("queries", len(queries)).Int("merged", len(merged)).
		Int("unique", len(evidence)).Str("session", sessionID).
		Msg("Retrieved evidence set")
	return evidence, nil
}

// deduplicate drops records whose enriched text was already seen;
// first occurrence wins and order of first appearance is preserved.
func deduplicate(records []models.ChunkRecord) []models.ChunkRecord {
	seen := make(map[string]struct{}, len(records))
	unique := make([]models.ChunkRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.Content]; ok {
			continue
		}
		seen[rec.Content] = struct{}{}
		unique = append(unique, rec)
	}
	return unique
}

type Answerer struct {
	retriever *Retriever
	generator llm.Generator
}

func NewAnswerer(retriever *Retriever, generator llm.Generator) *Answerer {
	return &Answerer{retriever: retriever, generator: generator}
}

// Ask retrieves evidence for the question and generates an answer. An
// empty evidence set still goes to the model, which is instructed to
// say it does not know.
func (a *Answerer) Ask(ctx context.Context, question, sessionID string) (string, error) {
	if a.generator == nil {
		return "", fmt.Errorf("no chat model configured")
	}

	evidence, err := a.retriever.Retrieve(ctx, question, sessionID)
	if err != nil {
		return "", err
	}

	var contextText strings.Builder
	for i, rec := range evidence {
		if i > 0 {
			contextText.WriteString(models.ContextSeparator)
		}
		contextText.WriteString(rec.Content)
	}

	system := fmt.Sprintf(models.AnswerSystemPromptTemplate, contextText.String())
	answer, err := a.generator.GenerateWithSystem(ctx, system, question)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return answer, nil
}
