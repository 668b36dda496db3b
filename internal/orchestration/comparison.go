package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/bifrostlabs/bifrost-eval/internal/execution"
	"github.com/bifrostlabs/bifrost-eval/internal/metrics"
	"github.com/bifrostlabs/bifrost-eval/internal/models"
	"github.com/bifrostlabs/bifrost-eval/internal/scoring"
	"github.com/bifrostlabs/bifrost-eval/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Winner selection criteria recorded in the comparison result.
const (
	CriterionMeanScore = "mean_score"
	CriterionPassRate  = "pass_rate"
	CriterionTotalCost = "total_cost"
	CriterionTie       = "tie"
)

// bootstrapSeed keeps comparison confidence intervals reproducible across
// identical runs.
const bootstrapSeed = 42

// ComparisonRunner evaluates the same suite against several named executors
// and ranks them. All executors see byte-identical scenarios; the per-executor
// suite runs share no mutable state and may proceed concurrently, each bounded
// by the runner's own concurrency limit.
type ComparisonRunner struct {
	metrics        []metrics.Metric
	scorer         *scoring.Scorer
	maxConcurrency int
}

// ComparisonOption customizes a ComparisonRunner.
type ComparisonOption func(*ComparisonRunner)

// WithComparisonScorer overrides the default weighted grading for every run.
func WithComparisonScorer(s *scoring.Scorer) ComparisonOption {
	return func(c *ComparisonRunner) { c.scorer = s }
}

// WithRunConcurrency bounds each per-executor run's in-flight scenarios.
func WithRunConcurrency(n int) ComparisonOption {
	return func(c *ComparisonRunner) { c.maxConcurrency = n }
}

// NewComparisonRunner creates a comparison runner sharing one metric set and
// grading strategy across every executor's run.
func NewComparisonRunner(ms []metrics.Metric, opts ...ComparisonOption) *ComparisonRunner {
	c := &ComparisonRunner{
		metrics: ms,
		scorer:  scoring.NewScorer(nil),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compare runs the suite once per executor and declares a winner by mean
// weighted score, breaking ties by pass rate, then total cost, then reporting
// an explicit tie. Executors whose whole run fails are flagged in Failed and
// excluded from ranking rather than silently dropped.
func (c *ComparisonRunner) Compare(
	ctx context.Context,
	suite *models.EvalSuite,
	executors map[string]execution.PipelineExecutor,
) (*models.ComparisonResult, error) {
	if len(executors) == 0 {
		return nil, fmt.Errorf("compare requires at least one executor")
	}

	// Sorted order keeps iteration, ranking, and tie reporting deterministic.
	ids := make([]string, 0, len(executors))
	for id := range executors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	comparison := &models.ComparisonResult{
		SuiteName: suite.Name,
		Results:   make(map[string]*models.SuiteResult, len(ids)),
		Summary:   make(map[string]models.ExecutorSummary, len(ids)),
		Failed:    map[string]string{},
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, id := range ids {
		g.Go(func() error {
			runner := NewEvalRunner(executors[id], c.metrics,
				WithScorer(c.scorer),
				WithMaxConcurrency(c.maxConcurrency),
			)
			result, err := runner.RunSuite(gctx, suite)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("executor run failed, excluding from comparison", "executor", id, "error", err)
				comparison.Failed[id] = err.Error()
				return nil
			}
			comparison.Results[id] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for id, result := range comparison.Results {
		comparison.Summary[id] = summarize(result)
	}

	c.pickWinner(comparison, ids)
	return comparison, nil
}

// summarize digests one executor's suite result, including a bootstrap
// confidence interval over its per-scenario weighted scores.
func summarize(result *models.SuiteResult) models.ExecutorSummary {
	scores := make([]float64, 0, len(result.ScenarioResults))
	for i := range result.ScenarioResults {
		scores = append(scores, result.ScenarioResults[i].WeightedScore())
	}
	ci := statistics.BootstrapCIWithSeed(scores, 0.95, bootstrapSeed)

	return models.ExecutorSummary{
		MeanScore:      result.MeanScore(),
		PassRate:       result.PassRate(),
		TotalCostUSD:   result.TotalCost.TotalUSD,
		TotalLatencyMs: result.TotalLatency.TotalMs,
		Grade:          result.Grade(),
		ScoreCILower:   ci.Lower,
		ScoreCIUpper:   ci.Upper,
	}
}

// pickWinner applies the ranking rules over the executors that completed.
// Candidates are narrowed stage by stage; if more than one survives all
// stages the comparison reports an explicit tie, never an arbitrary pick.
func (c *ComparisonRunner) pickWinner(comparison *models.ComparisonResult, ids []string) {
	candidates := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := comparison.Results[id]; ok {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return
	}
	if len(candidates) == 1 {
		comparison.Winner = candidates[0]
		comparison.Criterion = CriterionMeanScore
		return
	}

	stages := []struct {
		criterion string
		value     func(id string) float64
		better    func(a, b float64) bool
	}{
		{CriterionMeanScore, func(id string) float64 { return comparison.Summary[id].MeanScore }, func(a, b float64) bool { return a > b }},
		{CriterionPassRate, func(id string) float64 { return comparison.Summary[id].PassRate }, func(a, b float64) bool { return a > b }},
		{CriterionTotalCost, func(id string) float64 { return comparison.Summary[id].TotalCostUSD }, func(a, b float64) bool { return a < b }},
	}

	for _, stage := range stages {
		best := []string{candidates[0]}
		for _, id := range candidates[1:] {
			switch {
			case stage.better(stage.value(id), stage.value(best[0])):
				best = []string{id}
			case stage.value(id) == stage.value(best[0]):
				best = append(best, id)
			}
		}
		if len(best) == 1 {
			comparison.Winner = best[0]
			comparison.Criterion = stage.criterion
			return
		}
		candidates = best
	}

	comparison.Tie = true
	comparison.TiedWith = candidates
	comparison.Criterion = CriterionTie
}
