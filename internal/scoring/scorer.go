package scoring

import "github.com/bifrostlabs/bifrost-eval/internal/models"

// Scorer grades scenario scores with an injected strategy. The strategy is
// chosen at construction; the runner never branches on grading policy.
type Scorer struct {
	strategy GradingStrategy
}

// NewScorer builds a scorer. A nil strategy falls back to a WeightedGrader
// with the default pass threshold.
func NewScorer(strategy GradingStrategy) *Scorer {
	if strategy == nil {
		// Default config is always valid.
		strategy, _ = NewWeightedGrader(DefaultMinPassScore)
	}
	return &Scorer{strategy: strategy}
}

// Grade applies the configured strategy to one scenario's scores.
func (s *Scorer) Grade(scores []models.Score) Verdict {
	return s.strategy.Grade(scores)
}
