package metrics

import (
	"fmt"

	"github.com/bifrostlabs/bifrost-eval/internal/models"
)

// latencyMetric scores 1.0 at or below the target and decays as the inverse
// ratio target/actual past it: monotonically decreasing, never negative.
type latencyMetric struct {
	weight   float64
	targetMs float64
}

// LatencyParams configures a latency metric. TargetMs is required.
type LatencyParams struct {
	Weight   float64
	TargetMs float64
}

func NewLatencyMetric(params LatencyParams) (*latencyMetric, error) {
	if params.TargetMs <= 0 {
		return nil, fmt.Errorf("latency: target_ms must be positive, got %v", params.TargetMs)
	}
	weight, err := normalizeWeight(params.Weight)
	if err != nil {
		return nil, fmt.Errorf("latency: %w", err)
	}
	return &latencyMetric{weight: weight, targetMs: params.TargetMs}, nil
}

func (m *latencyMetric) Name() string    { return string(KindLatency) }
func (m *latencyMetric) Weight() float64 { return m.weight }

func (m *latencyMetric) Score(_ models.Scenario, trace *models.ExecutionTrace) models.Score {
	actual := trace.Latency.TotalMs
	if actual <= 0 {
		return models.Score{
			Name:    m.Name(),
			Value:   0.0,
			Weight:  m.weight,
			Details: "missing data: trace has no latency",
		}
	}

	value := 1.0
	if actual > m.targetMs {
		value = m.targetMs / actual
	}

	return models.Score{
		Name:    m.Name(),
		Value:   value,
		Weight:  m.weight,
		Details: fmt.Sprintf("target %.0fms, actual %.1fms", m.targetMs, actual),
	}
}
