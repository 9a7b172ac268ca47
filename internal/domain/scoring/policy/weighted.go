package policy

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/entities"
	scoringerrors "github.com/sidtheone/ecoticker-sub001/internal/domain/scoring/errors"
)

// Weights are the dimension weights of the overall score
type Weights struct {
	Health float64 `yaml:"health"`
	Eco    float64 `yaml:"eco"`
	Econ   float64 `yaml:"econ"`
}

// DefaultWeights favour health over ecological and economic impact
var DefaultWeights = Weights{Health: 0.40, Eco: 0.35, Econ: 0.25}

func (w Weights) validate() error {
	if w.Health < 0 || w.Eco < 0 || w.Econ < 0 || w.Health+w.Eco+w.Econ == 0 {
		return scoringerrors.ErrInvalidWeights
	}
	return nil
}

// combine returns the weighted overall score of three sub-scores
func (w Weights) combine(health, eco, econ float64) float64 {
	return (w.Health*health + w.Eco*eco + w.Econ*econ) / (w.Health + w.Eco + w.Econ)
}

type policyFile struct {
	Weights Weights `yaml:"weights"`
}

// LoadWeights reads weights from a YAML policy file:
//
//	weights:
//	  health: 0.5
//	  eco: 0.3
//	  econ: 0.2
//
// An empty path yields DefaultWeights.
func LoadWeights(path string) (Weights, error) {
	if path == "" {
		return DefaultWeights, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, fmt.Errorf("failed to read aggregation policy: %w", err)
	}

	var file policyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Weights{}, fmt.Errorf("failed to parse aggregation policy: %w", err)
	}
	if err := file.Weights.validate(); err != nil {
		return Weights{}, err
	}
	return file.Weights, nil
}

// WeightedPolicy averages each dimension weighted by classifier confidence
// and combines the dimensions with fixed weights
type WeightedPolicy struct {
	weights Weights
}

// NewWeightedPolicy creates a policy with the given dimension weights
func NewWeightedPolicy(weights Weights) (*WeightedPolicy, error) {
	if err := weights.validate(); err != nil {
		return nil, err
	}
	return &WeightedPolicy{weights: weights}, nil
}

// Aggregate computes the topic score. The reasoning of the most confident
// article becomes the topic's reasoning.
func (p *WeightedPolicy) Aggregate(results []entities.ArticleScore) (entities.Aggregate, error) {
	if len(results) == 0 {
		return entities.Aggregate{}, scoringerrors.ErrNoResults
	}

	health := make([]float64, len(results))
	eco := make([]float64, len(results))
	econ := make([]float64, len(results))
	confidence := make([]float64, len(results))

	agg := entities.Aggregate{Severities: make(map[uint]int, len(results))}
	best := -1.0
	for i, r := range results {
		health[i] = float64(r.HealthScore)
		eco[i] = float64(r.EcoScore)
		econ[i] = float64(r.EconScore)
		confidence[i] = r.Confidence

		agg.Severities[r.ArticleID] = clamp(p.weights.combine(health[i], eco[i], econ[i]))
		if r.Confidence > best {
			best = r.Confidence
			agg.Reasoning = r.Reasoning
		}
	}

	// all-zero confidence would make every weighted mean NaN
	weights := confidence
	if floats.Sum(confidence) == 0 {
		weights = nil
	}

	h := stat.Mean(health, weights)
	e := stat.Mean(eco, weights)
	c := stat.Mean(econ, weights)

	agg.HealthScore = clamp(h)
	agg.EcoScore = clamp(e)
	agg.EconScore = clamp(c)
	agg.Score = clamp(p.weights.combine(h, e, c))

	return agg, nil
}

func clamp(v float64) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}
