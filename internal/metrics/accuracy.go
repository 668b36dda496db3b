package metrics

import (
	"fmt"
	"reflect"

	"github.com/bifrostlabs/bifrost-eval/internal/models"
)

// Comparator judges how well an actual output matches an expected one,
// returning a value in [0, 1]. Exact-match comparators return 0 or 1; fuzzy
// or semantic comparators may return partial credit.
type Comparator func(actual, expected any) float64

// ExactMatch is the default comparator: deep equality, all or nothing.
func ExactMatch(actual, expected any) float64 {
	if reflect.DeepEqual(actual, expected) {
		return 1.0
	}
	return 0.0
}

// accuracyMetric compares trace output against the scenario's expected output.
type accuracyMetric struct {
	weight     float64
	comparator Comparator
}

// AccuracyParams configures an accuracy metric. A nil Comparator means exact
// equality.
type AccuracyParams struct {
	Weight     float64
	Comparator Comparator
}

func NewAccuracyMetric(params AccuracyParams) (*accuracyMetric, error) {
	weight, err := normalizeWeight(params.Weight)
	if err != nil {
		return nil, fmt.Errorf("accuracy: %w", err)
	}

	cmp := params.Comparator
	if cmp == nil {
		cmp = ExactMatch
	}

	return &accuracyMetric{weight: weight, comparator: cmp}, nil
}

func (m *accuracyMetric) Name() string    { return string(KindAccuracy) }
func (m *accuracyMetric) Weight() float64 { return m.weight }

func (m *accuracyMetric) Score(scenario models.Scenario, trace *models.ExecutionTrace) models.Score {
	if scenario.ExpectedOutput == nil {
		return models.Score{
			Name:    m.Name(),
			Value:   1.0,
			Weight:  m.weight,
			Details: "no expected output; skipped",
		}
	}

	value := clamp01(m.comparator(trace.Output, scenario.ExpectedOutput))

	return models.Score{
		Name:    m.Name(),
		Value:   value,
		Weight:  m.weight,
		Details: fmt.Sprintf("expected %v, got %v (match %.2f)", scenario.ExpectedOutput, trace.Output, value),
	}
}
