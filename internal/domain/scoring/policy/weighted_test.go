package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/entities"
	scoringerrors "github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/errors"
)

func TestAggregate_SingleArticle(t *testing.T) {
	p, err := NewWeightedPolicy(DefaultWeights)
	require.NoError(t, err)

	agg, err := p.Aggregate([]entities.ArticleScore{
		{ArticleID: 7, HealthScore: 80, EcoScore: 60, EconScore: 40, Confidence: 0.9, Reasoning: "smog alert"},
	})
	require.NoError(t, err)

	// 0.40*80 + 0.35*60 + 0.25*40 = 63
	assert.Equal(t, 63, agg.Score)
	assert.Equal(t, 80, agg.HealthScore)
	assert.Equal(t, 60, agg.EcoScore)
	assert.Equal(t, 40, agg.EconScore)
	assert.Equal(t, "smog alert", agg.Reasoning)
	assert.Equal(t, map[uint]int{7: 63}, agg.Severities)
}

func TestAggregate_WeightsByConfidence(t *testing.T) {
	p, err := NewWeightedPolicy(Weights{Health: 1})
	require.NoError(t, err)

	agg, err := p.Aggregate([]entities.ArticleScore{
		{ArticleID: 1, HealthScore: 100, Confidence: 0.75, Reasoning: "confident"},
		{ArticleID: 2, HealthScore: 0, Confidence: 0.25, Reasoning: "unsure"},
	})
	require.NoError(t, err)

	assert.Equal(t, 75, agg.Score)
	assert.Equal(t, "confident", agg.Reasoning)
}

func TestAggregate_ZeroConfidenceFallsBackToPlainMean(t *testing.T) {
	p, err := NewWeightedPolicy(Weights{Health: 1})
	require.NoError(t, err)

	agg, err := p.Aggregate([]entities.ArticleScore{
		{ArticleID: 1, HealthScore: 90},
		{ArticleID: 2, HealthScore: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 50, agg.Score)
}

func TestAggregate_NoResults(t *testing.T) {
	p, err := NewWeightedPolicy(DefaultWeights)
	require.NoError(t, err)

	_, err = p.Aggregate(nil)
	assert.ErrorIs(t, err, scoringerrors.ErrNoResults)
}

func TestNewWeightedPolicy_RejectsInvalidWeights(t *testing.T) {
	_, err := NewWeightedPolicy(Weights{})
	assert.ErrorIs(t, err, scoringerrors.ErrInvalidWeights)

	_, err = NewWeightedPolicy(Weights{Health: -1, Eco: 2})
	assert.ErrorIs(t, err, scoringerrors.ErrInvalidWeights)
}

func TestLoadWeights(t *testing.T) {
	w, err := LoadWeights("")
	require.NoError(t, err)
	assert.Equal(t, DefaultWeights, w)

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weights:\n  health: 0.5\n  eco: 0.3\n  econ: 0.2\n"), 0o600))

	w, err = LoadWeights(path)
	require.NoError(t, err)
	assert.Equal(t, Weights{Health: 0.5, Eco: 0.3, Econ: 0.2}, w)

	require.NoError(t, os.WriteFile(path, []byte("weights:\n  health: 0\n"), 0o600))
	_, err = LoadWeights(path)
	assert.ErrorIs(t, err, scoringerrors.ErrInvalidWeights)

	_, err = LoadWeights(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
