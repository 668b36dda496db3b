package metrics

import (
	"fmt"

	"github.com/bifrostlabs/bifrost-eval/internal/models"
)

// Blend weights for the three tool-correctness sub-signals. They sum to 1 so
// a perfect trace scores exactly 1.0.
const (
	presenceShare = 0.5
	orderShare    = 0.3
	extrasShare   = 0.2
)

// toolCorrectnessMetric compares the tools a pipeline actually called against
// the scenario's expected sequence. Three sub-signals feed a fixed blend:
//
//   - presence: fraction of expected tools called at least once
//   - order: LCS ratio, so extra calls in between do not break order credit
//   - extras: 1/(1+n) over the count of calls outside the expected set, so
//     every added extra lowers the signal
//
// An empty expected list scores presence and order as perfect; only extra
// calls can then pull the score down.
type toolCorrectnessMetric struct {
	weight float64
}

// ToolCorrectnessParams configures a tool-correctness metric.
type ToolCorrectnessParams struct {
	Weight float64
}

func NewToolCorrectnessMetric(params ToolCorrectnessParams) (*toolCorrectnessMetric, error) {
	weight, err := normalizeWeight(params.Weight)
	if err != nil {
		return nil, fmt.Errorf("tool_correctness: %w", err)
	}
	return &toolCorrectnessMetric{weight: weight}, nil
}

func (m *toolCorrectnessMetric) Name() string    { return string(KindToolCorrectness) }
func (m *toolCorrectnessMetric) Weight() float64 { return m.weight }

func (m *toolCorrectnessMetric) Score(scenario models.Scenario, trace *models.ExecutionTrace) models.Score {
	expected := scenario.ExpectedToolCalls
	actual := trace.ToolCallNames()

	presence := presenceScore(expected, actual)
	order := orderScore(expected, actual)
	extras := countExtras(expected, actual)

	extrasSignal := 1.0 / (1.0 + float64(extras))

	value := clamp01(presenceShare*presence + orderShare*order + extrasShare*extrasSignal)

	return models.Score{
		Name:   m.Name(),
		Value:  value,
		Weight: m.weight,
		Details: fmt.Sprintf("presence %.2f, order %.2f, extras %d; expected %v, actual %v",
			presence, order, extras, expected, actual),
	}
}

// presenceScore is the fraction of expected tools called at least once.
// Vacuously perfect when nothing is expected.
func presenceScore(expected, actual []string) float64 {
	if len(expected) == 0 {
		return 1.0
	}

	called := make(map[string]bool, len(actual))
	for _, a := range actual {
		called[a] = true
	}

	expectedSet := make(map[string]bool, len(expected))
	hits := 0
	for _, e := range expected {
		if expectedSet[e] {
			continue
		}
		expectedSet[e] = true
		if called[e] {
			hits++
		}
	}
	return float64(hits) / float64(len(expectedSet))
}

// orderScore is the longest-common-subsequence length over the expected
// length: a subsequence check, not a positional one.
func orderScore(expected, actual []string) float64 {
	if len(expected) == 0 {
		return 1.0
	}
	if len(actual) == 0 {
		return 0.0
	}

	m, n := len(expected), len(actual)
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if expected[i-1] == actual[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}
	return float64(dp[m][n]) / float64(m)
}

// countExtras counts actual calls whose tool is not in the expected set.
func countExtras(expected, actual []string) int {
	expectedSet := make(map[string]bool, len(expected))
	for _, e := range expected {
		expectedSet[e] = true
	}

	extras := 0
	for _, a := range actual {
		if !expectedSet[a] {
			extras++
		}
	}
	return extras
}
