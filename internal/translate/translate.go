// Package translate expands one user question into one or more retrieval
// queries. Strategies form a closed set selected by name; anything
// unrecognized, and any model-dependent strategy without a bound model,
// falls back to the identity strategy instead of failing the request.
package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/llm"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/models"
)

type Strategy string

const (
	StrategyIdentity      Strategy = "identity"
	StrategyMultiQuery    Strategy = "multi_query"
	StrategyHyDE          Strategy = "hyde"
	StrategyDecomposition Strategy = "decomposition"
	StrategyStepBack      Strategy = "step_back"
)

// Translator turns a question into an ordered set of retrieval queries.
type Translator interface {
	Translate(ctx context.Context, query string) ([]string, error)
}

// ForStrategy selects a translator by name.
func ForStrategy(name string, generator llm.Generator) Translator {
	strategy := Strategy(strings.ToLower(name))
	if strategy == StrategyIdentity || generator == nil {
		if strategy != StrategyIdentity && generator == nil {
			log.Debug().Str("strategy", string(strategy)).Msg("No model bound, falling back to identity translation")
		}
		return identityTranslator{}
	}
	switch strategy {
	case StrategyMultiQuery:
		return &multiQueryTranslator{generator: generator}
	case StrategyHyDE:
		return &hydeTranslator{generator: generator}
	case StrategyDecomposition:
		return &decompositionTranslator{generator: generator}
	case StrategyStepBack:
		return &stepBackTranslator{generator: generator}
	default:
		return identityTranslator{}
	}
}

type identityTranslator struct{}

func (identityTranslator) Translate(_ context.Context, query string) ([]string, error) {
	return []string{query}, nil
}

type multiQueryTranslator struct {
	generator llm.Generator
}

func (t *multiQueryTranslator) Translate(ctx context.Context, query string) ([]string, error) {
	resp, err := t.generator.Generate(ctx, fmt.Sprintf(models.MultiQueryPromptTemplate, query))
	if err != nil {
		log.Warn().Err(err).Msg("Multi-query translation degraded to identity")
		return []string{query}, nil
	}
	queries := mergeUnique(query, splitList(resp))
	log.Debug().Strs("queries", queries).Msg("Generated query variations")
	return queries, nil
}

type decompositionTranslator struct {
	generator llm.Generator
}

func (t *decompositionTranslator) Translate(ctx context.Context, query string) ([]string, error) {
	resp, err := t.generator.Generate(ctx, fmt.Sprintf(models.DecompositionPromptTemplate, query))
	if err != nil {
		log.Warn().Err(err).Msg("Decomposition translation degraded to identity")
		return []string{query}, nil
	}
	queries := mergeUnique(query, splitList(resp))
	log.Debug().Strs("queries", queries).Msg("Decomposed query")
	return queries, nil
}

type hydeTranslator struct {
	generator llm.Generator
}

// The fabricated passage is a retrieval probe only; it is never shown to
// the user.
func (t *hydeTranslator) Translate(ctx context.Context, query string) ([]string, error) {
	resp, err := t.generator.Generate(ctx, fmt.Sprintf(models.HyDEPromptTemplate, query))
	if err != nil {
		log.Warn().Err(err).Msg("HyDE translation degraded to identity")
		return []string{query}, nil
	}
	passage := strings.TrimSpace(resp)
	if passage == "" {
		return []string{query}, nil
	}
	log.Debug().Str("passage", truncate(passage, 50)).Msg("Generated hypothetical passage")
	return []string{query, passage}, nil
}

type stepBackTranslator struct {
	generator llm.Generator
}

func (t *stepBackTranslator) Translate(ctx context.Context, query string) ([]string, error) {
	resp, err := t.generator.Generate(ctx, fmt.Sprintf(models.StepBackPromptTemplate, query))
	if err != nil {
		log.Warn().Err(err).Msg("Step-back translation degraded to identity")
		return []string{query}, nil
	}
	broader := strings.TrimSpace(resp)
	if broader == "" {
		return []string{query}, nil
	}
	log.Debug().Str("step_back", broader).Msg("Generated step-back query")
	return []string{query, broader}, nil
}

// splitList parses a comma-separated model response.
func splitList(resp string) []string {
	parts := strings.Split(resp, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// mergeUnique keeps the original query first, then derived queries in
// order of first appearance.
func mergeUnique(original string, derived []string) []string {
	seen := map[string]struct{}{original: {}}
	merged := []string{original}
	for _, q := range derived {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		merged = append(merged, q)
	}
	return merged
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
