package metrics

import (
	"fmt"

	"github.com/bifrostlabs/bifrost-eval/internal/models"
	"github.com/go-viper/mapstructure/v2"
)

// Kind identifies a metric variant in suite documents.
type Kind string

const (
	KindAccuracy        Kind = "accuracy"
	KindToolCorrectness Kind = "tool_correctness"
	KindLatency         Kind = "latency"
	KindCostEfficiency  Kind = "cost_efficiency"
)

// Metric scores one execution along a single dimension. Implementations must
// be pure functions of their two inputs: no shared mutable state, so the
// runner can invoke them concurrently and in any order. Missing trace data is
// recovered into a zero score with an explanation, never an error.
type Metric interface {
	// Name returns the metric identifier used in Score records.
	Name() string

	// Weight returns the configured weight for this metric's scores.
	Weight() float64

	// Score judges the trace against the scenario's expectations.
	Score(scenario models.Scenario, trace *models.ExecutionTrace) models.Score
}

// Create builds a metric from a suite document's metric entry. Parameters are
// decoded with mapstructure, mirroring how grader configs are handled.
func Create(kind Kind, weight float64, params map[string]any) (Metric, error) {
	switch kind {
	case KindAccuracy:
		return NewAccuracyMetric(AccuracyParams{Weight: weight})
	case KindToolCorrectness:
		return NewToolCorrectnessMetric(ToolCorrectnessParams{Weight: weight})
	case KindLatency:
		var v struct {
			TargetMs float64 `mapstructure:"target_ms"`
		}
		if err := mapstructure.Decode(params, &v); err != nil {
			return nil, err
		}
		return NewLatencyMetric(LatencyParams{Weight: weight, TargetMs: v.TargetMs})
	case KindCostEfficiency:
		var v struct {
			BudgetUSD float64 `mapstructure:"budget_usd"`
		}
		if err := mapstructure.Decode(params, &v); err != nil {
			return nil, err
		}
		return NewCostEfficiencyMetric(CostEfficiencyParams{Weight: weight, BudgetUSD: v.BudgetUSD})
	default:
		return nil, fmt.Errorf("'%s' is not a valid metric kind", kind)
	}
}

// normalizeWeight applies the default weight and rejects negatives.
func normalizeWeight(weight float64) (float64, error) {
	if weight < 0 {
		return 0, fmt.Errorf("metric weight must not be negative, got %v", weight)
	}
	if weight == 0 {
		return 1.0, nil
	}
	return weight, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0.0
	}
	if v > 1 {
		return 1.0
	}
	return v
}
