package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/models"
	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/translate"
)

// searchRepo serves canned results per query and can fail on demand.
type searchRepo struct {
	results map[string][]models.ChunkRecord
	failOn  string

	queries []string
}

func (s *searchRepo) Add(_ context.Context, _ []models.ChunkRecord) error { return nil }

func (s *searchRepo) Search(_ context.Context, query, sessionID string, _ int) ([]models.ChunkRecord, error) {
	s.queries = append(s.queries, query)
	if query == s.failOn {
		return nil, errors.New("index unavailable")
	}
	var out []models.ChunkRecord
	for _, r := range s.results[query] {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *searchRepo) Fingerprint(_ context.Context, _, _ string) (string, error) { return "", nil }
func (s *searchRepo) DeleteByCandidate(_ context.Context, _, _ string) error     { return nil }
func (s *searchRepo) DeleteBySession(_ context.Context, _ string) error          { return nil }
func (s *searchRepo) Count(_ context.Context, _ string) (int, error)             { return 0, nil }

// multiTranslator fans one question out into fixed queries.
type multiTranslator struct {
	queries []string
}

func (m multiTranslator) Translate(_ context.Context, _ string) ([]string, error) {
	return m.queries, nil
}

func rec(session, content string) models.ChunkRecord {
	return models.ChunkRecord{SessionID: session, Content: content}
}

func TestRetrieveMergesAndDeduplicates(t *testing.T) {
	repo := &searchRepo{results: map[string][]models.ChunkRecord{
		"q1": {rec("s1", "alpha"), rec("s1", "beta")},
		"q2": {rec("s1", "beta"), rec("s1", "gamma")},
	}}
	r := NewRetriever(repo, multiTranslator{queries: []string{"q1", "q2"}}, 5)

	evidence, err := r.Retrieve(context.Background(), "who knows Go?", "s1")
	require.NoError(t, err)

	contents := make([]string, 0, len(evidence))
	for _, e := range evidence {
		contents = append(contents, e.Content)
	}
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, contents)
	assert.Equal(t, []string{"q1", "q2"}, repo.queries)
}

func TestRetrieveSessionIsolation(t *testing.T) {
	repo := &searchRepo{results: map[string][]models.ChunkRecord{
		"q": {rec("s1", "mine"), rec("s2", "theirs")},
	}}
	r := NewRetriever(repo, multiTranslator{queries: []string{"q"}}, 5)

	evidence, err := r.Retrieve(context.Background(), "q", "s1")
	require.NoError(t, err)
	require.Len(t, evidence, 1)
	assert.Equal(t, "mine", evidence[0].Content)
}

func TestRetrieveFailsFast(t *testing.T) {
	repo := &searchRepo{
		results: map[string][]models.ChunkRecord{"q1": {rec("s1", "alpha")}},
		failOn:  "q2",
	}
	r := NewRetriever(repo, multiTranslator{queries: []string{"q1", "q2", "q3"}}, 5)

	evidence, err := r.Retrieve(context.Background(), "q", "s1")
	require.Error(t, err)
	assert.Nil(t, evidence)
	// q3 is never searched once q2 fails.
	assert.Equal(t, []string{"q1", "q2"}, repo.queries)
}

func TestRetrieveEmptyResult(t *testing.T) {
	repo := &searchRepo{results: map[string][]models.ChunkRecord{}}
	r := NewRetriever(repo, translate.ForStrategy("identity", nil), 5)

	evidence, err := r.Retrieve(context.Background(), "anything", "s1")
	require.NoError(t, err)
	assert.Empty(t, evidence)
}

// captureGenerator records the system prompt it was handed.
type captureGenerator struct {
	system string
	user   string
	answer string
	err    error
}

func (c *captureGenerator) Generate(_ context.Context, prompt string) (string, error) {
	c.user = prompt
	return c.answer, c.err
}

func (c *captureGenerator) GenerateWithSystem(_ context.Context, system, prompt string) (string, error) {
	c.system = system
	c.user = prompt
	return c.answer, c.err
}

func TestAskBuildsContextFromEvidence(t *testing.T) {
	repo := &searchRepo{results: map[string][]models.ChunkRecord{
		"who knows Go?": {rec("s1", "chunk one"), rec("s1", "chunk two")},
	}}
	gen := &captureGenerator{answer: "Jane does."}
	a := NewAnswerer(NewRetriever(repo, translate.ForStrategy("identity", nil), 5), gen)

	answer, err := a.Ask(context.Background(), "who knows Go?", "s1")
	require.NoError(t, err)
	assert.Equal(t, "Jane does.", answer)
	assert.Equal(t, "who knows Go?", gen.user)
	assert.Contains(t, gen.system, "chunk one"+models.ContextSeparator+"chunk two")
}

func TestAskWithNoEvidenceStillAsksModel(t *testing.T) {
	repo := &searchRepo{results: map[string][]models.ChunkRecord{}}
	gen := &captureGenerator{answer: "I don't know."}
	a := NewAnswerer(NewRetriever(repo, translate.ForStrategy("identity", nil), 5), gen)

	answer, err := a.Ask(context.Background(), "anything", "s1")
	require.NoError(t, err)
	assert.Equal(t, "I don't know.", answer)
	assert.NotEmpty(t, gen.system)
}

func TestAskWithoutGenerator(t *testing.T) {
	repo := &searchRepo{results: map[string][]models.ChunkRecord{}}
	a := NewAnswerer(NewRetriever(repo, translate.ForStrategy("identity", nil), 5), nil)

	_, err := a.Ask(context.Background(), "anything", "s1")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no chat model"))
}

func TestAskPropagatesRetrievalError(t *testing.T) {
	repo := &searchRepo{failOn: "anything"}
	gen := &captureGenerator{answer: "unused"}
	a := NewAnswerer(NewRetriever(repo, translate.ForStrategy("identity", nil), 5), gen)

	_, err := a.Ask(context.Background(), "anything", "s1")
	require.Error(t, err)
	assert.Empty(t, gen.system)
}
