package chromemstore

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ishtiaqasif/ai-recruiter-backend/internal/models"
)

// stubEmbedder derives deterministic pseudo-embeddings from the text, so
// identical text always lands on the same vector.
type stubEmbedder struct{}

func (stubEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, 8)
	for i := range vec {
		vec[i] = float32(sum[i])/255 + 0.01
	}
	return vec, nil
}

func (s stubEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.EmbedQuery(ctx, t)
		if err != nil {
			return nil, err
		}
		vecs[i] = v
	}
	return vecs, nil
}

func record(id, content, sessionID, email, fingerprint string) models.ChunkRecord {
	return models.ChunkRecord{
		ID:                 id,
		Content:            content,
		SessionID:          sessionID,
		Email:              email,
		Name:               "Jane Doe",
		Role:               "Engineer",
		Source:             "cv.txt",
		ContentFingerprint: fingerprint,
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New("", "cv_chunks", true, stubEmbedder{})
	require.NoError(t, err)
	return s
}

func TestAddAndCount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.Add(ctx, []models.ChunkRecord{
		record("1", "golang experience", "s1", "a@x.com", "fp1"),
		record("2", "kubernetes experience", "s1", "a@x.com", "fp1"),
	})
	require.NoError(t, err)

	n, err := s.Count(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.Count(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestAddEmptyIsNoop(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Add(context.Background(), nil))
}

func TestSearchSessionIsolation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Add(ctx, []models.ChunkRecord{
		record("1", "python developer with django", "s1", "a@x.com", "fp1"),
		record("2", "python developer with flask", "s2", "b@y.com", "fp2"),
	}))

	results, err := s.Search(ctx, "python developer", "s1", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "s1", results[0].SessionID)
	assert.Equal(t, "a@x.com", results[0].Email)
}

func TestSearchEmptyStore(t *testing.T) {
	s := newTestStore(t)
	results, err := s.Search(context.Background(), "anything", "s1", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFingerprintLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	fp, err := s.Fingerprint(ctx, "s1", "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, fp)

	require.NoError(t, s.Add(ctx, []models.ChunkRecord{
		record("1", "chunk one", "s1", "a@x.com", "fp1"),
	}))

	fp, err = s.Fingerprint(ctx, "s1", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "fp1", fp)

	require.NoError(t, s.DeleteByCandidate(ctx, "s1", "a@x.com"))
	fp, err = s.Fingerprint(ctx, "s1", "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, fp)
}

func TestDeleteByCandidateLeavesOthers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Add(ctx, []models.ChunkRecord{
		record("1", "first candidate chunk", "s1", "a@x.com", "fp1"),
		record("2", "second candidate chunk", "s1", "b@y.com", "fp2"),
	}))
	require.NoError(t, s.DeleteByCandidate(ctx, "s1", "a@x.com"))

	n, err := s.Count(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	results, err := s.Search(ctx, "candidate chunk", "s1", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b@y.com", results[0].Email)
}

func TestDeleteBySession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Add(ctx, []models.ChunkRecord{
		record("1", "a chunk", "s1", "a@x.com", "fp1"),
		record("2", "b chunk", "s2", "b@y.com", "fp2"),
	}))
	require.NoError(t, s.DeleteBySession(ctx, "s1"))

	n, err := s.Count(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = s.Count(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDeleteBySessionEmptyIsSilent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.DeleteBySession(context.Background(), "never-seen"))
}

func TestPersistentStateSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := New(dir, "cv_chunks", false, stubEmbedder{})
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, []models.ChunkRecord{
		record("1", "persisted chunk", "s1", "a@x.com", "fp1"),
	}))

	reopened, err := New(dir, "cv_chunks", false, stubEmbedder{})
	require.NoError(t, err)

	fp, err := reopened.Fingerprint(ctx, "s1", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "fp1", fp)

	n, err := reopened.Count(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
