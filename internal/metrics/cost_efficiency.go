package metrics

import (
	"fmt"

	"github.com/bifrostlabs/bifrost-eval/internal/models"
)

// costEfficiencyMetric scores 1.0 at or below the budget and decays as the
// inverse ratio budget/actual past it, matching the latency metric's curve.
type costEfficiencyMetric struct {
	weight    float64
	budgetUSD float64
}

// CostEfficiencyParams configures a cost-efficiency metric. BudgetUSD is required.
type CostEfficiencyParams struct {
	Weight    float64
	BudgetUSD float64
}

func NewCostEfficiencyMetric(params CostEfficiencyParams) (*costEfficiencyMetric, error) {
	if params.BudgetUSD <= 0 {
		return nil, fmt.Errorf("cost_efficiency: budget_usd must be positive, got %v", params.BudgetUSD)
	}
	weight, err := normalizeWeight(params.Weight)
	if err != nil {
		return nil, fmt.Errorf("cost_efficiency: %w", err)
	}
	return &costEfficiencyMetric{weight: weight, budgetUSD: params.BudgetUSD}, nil
}

func (m *costEfficiencyMetric) Name() string    { return string(KindCostEfficiency) }
func (m *costEfficiencyMetric) Weight() float64 { return m.weight }

func (m *costEfficiencyMetric) Score(_ models.Scenario, trace *models.ExecutionTrace) models.Score {
	actual := trace.Cost.TotalUSD
	if actual <= 0 {
		return models.Score{
			Name:    m.Name(),
			Value:   0.0,
			Weight:  m.weight,
			Details: "missing data: trace has no cost",
		}
	}

	value := 1.0
	if actual > m.budgetUSD {
		value = m.budgetUSD / actual
	}

	return models.Score{
		Name:    m.Name(),
		Value:   value,
		Weight:  m.weight,
		Details: fmt.Sprintf("budget $%.4f, actual $%.4f", m.budgetUSD, actual),
	}
}
