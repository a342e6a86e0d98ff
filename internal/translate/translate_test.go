package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator returns a canned response, or an error when set.
type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeGenerator) GenerateWithSystem(ctx context.Context, _, prompt string) (string, error) {
	return f.Generate(ctx, prompt)
}

func TestIdentityPassthrough(t *testing.T) {
	tr := ForStrategy("identity", nil)
	queries, err := tr.Translate(context.Background(), "who knows Go?")
	require.NoError(t, err)
	assert.Equal(t, []string{"who knows Go?"}, queries)
}

func TestUnknownStrategyFallsBackToIdentity(t *testing.T) {
	tr := ForStrategy("does-not-exist", &fakeGenerator{response: "unused"})
	queries, err := tr.Translate(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"q"}, queries)
}

func TestModelDependentStrategyWithoutModelFallsBack(t *testing.T) {
	for _, name := range []string{"multi_query", "hyde", "decomposition", "step_back"} {
		tr := ForStrategy(name, nil)
		queries, err := tr.Translate(context.Background(), "q")
		require.NoError(t, err, name)
		assert.Equal(t, []string{"q"}, queries, name)
	}
}

func TestStrategyNameIsCaseInsensitive(t *testing.T) {
	gen := &fakeGenerator{response: "a, b, c"}
	queries, err := ForStrategy("MULTI_QUERY", gen).Translate(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"q", "a", "b", "c"}, queries)
}

func TestMultiQueryMergesAndDeduplicates(t *testing.T) {
	gen := &fakeGenerator{response: "golang dev, q, golang dev, backend engineer"}
	queries, err := ForStrategy("multi_query", gen).Translate(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"q", "golang dev", "backend engineer"}, queries)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "q")
}

func TestDecompositionMergesSubQuestions(t *testing.T) {
	gen := &fakeGenerator{response: "what skills?, which city?"}
	queries, err := ForStrategy("decomposition", gen).Translate(context.Background(), "skills and city?")
	require.NoError(t, err)
	assert.Equal(t, []string{"skills and city?", "what skills?", "which city?"}, queries)
}

func TestHyDEReturnsQuestionAndPassage(t *testing.T) {
	gen := &fakeGenerator{response: "  Experienced Go engineer with 5 years...  "}
	queries, err := ForStrategy("hyde", gen).Translate(context.Background(), "who knows Go?")
	require.NoError(t, err)
	assert.Equal(t, []string{"who knows Go?", "Experienced Go engineer with 5 years..."}, queries)
}

func TestStepBackReturnsQuestionAndBroader(t *testing.T) {
	gen := &fakeGenerator{response: "Which candidates have backend experience?"}
	queries, err := ForStrategy("step_back", gen).Translate(context.Background(), "who used Gin?")
	require.NoError(t, err)
	assert.Equal(t, []string{"who used Gin?", "Which candidates have backend experience?"}, queries)
}

func TestGeneratorFailureDegradesToIdentity(t *testing.T) {
	for _, name := range []string{"multi_query", "hyde", "decomposition", "step_back"} {
		gen := &fakeGenerator{err: errors.New("model unreachable")}
		queries, err := ForStrategy(name, gen).Translate(context.Background(), "q")
		require.NoError(t, err, name)
		assert.Equal(t, []string{"q"}, queries, name)
	}
}

func TestEmptyModelResponse(t *testing.T) {
	gen := &fakeGenerator{response: "   "}
	queries, err := ForStrategy("hyde", gen).Translate(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"q"}, queries)
}
