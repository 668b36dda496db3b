package models

import "time"

// Score is one metric's judgment of a single execution: a value in [0, 1],
// the weight the metric was configured with, and a human-readable explanation.
// A score only has meaning next to the scenario and trace that produced it.
type Score struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Weight  float64 `json:"weight"`
	Details string  `json:"details,omitempty"`
}

// ScenarioResult is the scored outcome of one scenario execution. Trace keeps
// the raw execution record for traceability.
type ScenarioResult struct {
	ScenarioName string          `json:"scenario_name"`
	Passed       bool            `json:"passed"`
	Scores       []Score         `json:"scores,omitempty"`
	Trace        *ExecutionTrace `json:"trace,omitempty"`
	Error        string          `json:"error,omitempty"`
	Grade        GradeLevel      `json:"grade"`
}

// WeightedScore is the weighted average across all score dimensions,
// or 0 when there are no scores or all weights are zero.
func (r *ScenarioResult) WeightedScore() float64 {
	var weightedSum, totalWeight float64
	for _, s := range r.Scores {
		weightedSum += s.Value * s.Weight
		totalWeight += s.Weight
	}
	if totalWeight == 0 {
		return 0.0
	}
	return weightedSum / totalWeight
}

// SuiteResult aggregates one full run of a suite against one executor.
// Created once by the runner after every scenario settles; read-only after.
// ScenarioResults is ordered by suite declaration order, never completion order.
type SuiteResult struct {
	SuiteName       string           `json:"suite_name"`
	ScenarioResults []ScenarioResult `json:"scenario_results"`
	TotalCost       CostBreakdown    `json:"total_cost"`
	TotalLatency    LatencyBreakdown `json:"total_latency"`
	RunAt           time.Time        `json:"run_at"`
}

// PassRate is the fraction of scenarios that passed.
func (r *SuiteResult) PassRate() float64 {
	if len(r.ScenarioResults) == 0 {
		return 0.0
	}
	return float64(r.PassedCount()) / float64(len(r.ScenarioResults))
}

// MeanScore is the mean weighted score across all scenario results.
func (r *SuiteResult) MeanScore() float64 {
	if len(r.ScenarioResults) == 0 {
		return 0.0
	}
	var sum float64
	for i := range r.ScenarioResults {
		sum += r.ScenarioResults[i].WeightedScore()
	}
	return sum / float64(len(r.ScenarioResults))
}

// Grade is the suite-level grade band for the mean score.
func (r *SuiteResult) Grade() GradeLevel {
	return GradeForScore(r.MeanScore())
}

func (r *SuiteResult) PassedCount() int {
	passed := 0
	for i := range r.ScenarioResults {
		if r.ScenarioResults[i].Passed {
			passed++
		}
	}
	return passed
}

func (r *SuiteResult) FailedCount() int {
	return len(r.ScenarioResults) - r.PassedCount()
}

// ExecutorSummary is the per-executor digest embedded in a comparison report.
type ExecutorSummary struct {
	MeanScore      float64    `json:"mean_score"`
	PassRate       float64    `json:"pass_rate"`
	TotalCostUSD   float64    `json:"total_cost_usd"`
	TotalLatencyMs float64    `json:"total_latency_ms"`
	Grade          GradeLevel `json:"grade"`
	ScoreCILower   float64    `json:"score_ci_lower,omitempty"`
	ScoreCIUpper   float64    `json:"score_ci_upper,omitempty"`
}

// ComparisonResult captures one suite run against several named executors.
// Winner is empty when Tie is set; Failed holds executors whose whole run was
// lost to an infrastructure error and therefore excluded from ranking.
type ComparisonResult struct {
	SuiteName string                     `json:"suite_name"`
	Results   map[string]*SuiteResult    `json:"results"`
	Summary   map[string]ExecutorSummary `json:"summary,omitempty"`
	Winner    string                     `json:"winner,omitempty"`
	Criterion string                     `json:"criterion,omitempty"`
	Tie       bool                       `json:"tie,omitempty"`
	TiedWith  []string                   `json:"tied_with,omitempty"`
	Failed    map[string]string          `json:"failed,omitempty"`
}
