package scoring

import (
	"fmt"

	"github.com/bifrostlabs/bifrost-eval/internal/models"
)

// Verdict is a grading strategy's judgment of one scenario's scores.
type Verdict struct {
	Overall float64
	Passed  bool
	Grade   models.GradeLevel
}

// GradingStrategy combines a scenario's weighted scores into a verdict.
// Strategies are stateless and safe to share across concurrent executions.
type GradingStrategy interface {
	Grade(scores []models.Score) Verdict
}

// weightedAverage is Σ(value×weight)/Σ(weight), or 0 when total weight is zero.
func weightedAverage(scores []models.Score) float64 {
	var weightedSum, totalWeight float64
	for _, s := range scores {
		weightedSum += s.Value * s.Weight
		totalWeight += s.Weight
	}
	if totalWeight == 0 {
		return 0.0
	}
	return weightedSum / totalWeight
}

// WeightedGrader passes a scenario when its weighted average score reaches
// the configured minimum.
type WeightedGrader struct {
	minPassScore float64
}

// DefaultMinPassScore lines up with the acceptable grade band.
const DefaultMinPassScore = models.AcceptableBound

// NewWeightedGrader rejects pass thresholds outside [0, 1]. A zero threshold
// uses the default.
func NewWeightedGrader(minPassScore float64) (*WeightedGrader, error) {
	if minPassScore < 0 || minPassScore > 1 {
		return nil, fmt.Errorf("min pass score must be in [0, 1], got %v", minPassScore)
	}
	if minPassScore == 0 {
		minPassScore = DefaultMinPassScore
	}
	return &WeightedGrader{minPassScore: minPassScore}, nil
}

func (g *WeightedGrader) Grade(scores []models.Score) Verdict {
	overall := weightedAverage(scores)
	return Verdict{
		Overall: overall,
		Passed:  overall >= g.minPassScore,
		Grade:   models.GradeForScore(overall),
	}
}

// ThresholdGrader passes a scenario only when every metric with a configured
// threshold meets it. The overall numeric value is still the weighted average
// for reporting; the verdict is the AND of the per-metric checks.
type ThresholdGrader struct {
	thresholds map[string]float64
}

// NewThresholdGrader rejects empty or out-of-range threshold configurations.
func NewThresholdGrader(thresholds map[string]float64) (*ThresholdGrader, error) {
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("threshold grader requires at least one metric threshold")
	}
	for name, min := range thresholds {
		if min < 0 || min > 1 {
			return nil, fmt.Errorf("threshold for %q must be in [0, 1], got %v", name, min)
		}
	}
	return &ThresholdGrader{thresholds: thresholds}, nil
}

func (g *ThresholdGrader) Grade(scores []models.Score) Verdict {
	passed := true
	for _, s := range scores {
		if min, ok := g.thresholds[s.Name]; ok && s.Value < min {
			passed = false
			break
		}
	}

	overall := weightedAverage(scores)
	return Verdict{
		Overall: overall,
		Passed:  passed,
		Grade:   models.GradeForScore(overall),
	}
}
