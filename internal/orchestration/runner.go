package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bifrostlabs/bifrost-eval/internal/execution"
	"github.com/bifrostlabs/bifrost-eval/internal/metrics"
	"github.com/bifrostlabs/bifrost-eval/internal/models"
	"github.com/bifrostlabs/bifrost-eval/internal/scoring"
	"github.com/bifrostlabs/bifrost-eval/internal/statistics"
)

// EvalRunner executes every scenario of a suite against one executor,
// scoring each resulting trace with the configured metrics and grading
// strategy. Metrics and scorer are stateless and shared across the
// concurrent scenario executions.
type EvalRunner struct {
	executor       execution.PipelineExecutor
	metrics        []metrics.Metric
	scorer         *scoring.Scorer
	maxConcurrency int
}

// RunnerOption customizes an EvalRunner.
type RunnerOption func(*EvalRunner)

// WithMaxConcurrency bounds the number of in-flight scenario executions.
// Zero or negative means unbounded (one goroutine per scenario).
func WithMaxConcurrency(n int) RunnerOption {
	return func(r *EvalRunner) { r.maxConcurrency = n }
}

// WithScorer overrides the default weighted grading.
func WithScorer(s *scoring.Scorer) RunnerOption {
	return func(r *EvalRunner) { r.scorer = s }
}

// NewEvalRunner creates a runner for one executor and metric set.
func NewEvalRunner(executor execution.PipelineExecutor, ms []metrics.Metric, opts ...RunnerOption) *EvalRunner {
	r := &EvalRunner{
		executor: executor,
		metrics:  ms,
		scorer:   scoring.NewScorer(nil),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// scenarioSettled carries one finished scenario back to the collector along
// with the runner-measured wall time for suite-level latency stats.
type scenarioSettled struct {
	index     int
	result    models.ScenarioResult
	elapsedMs float64
}

// RunSuite runs every scenario, bounded by the configured concurrency, and
// assembles results in suite declaration order regardless of completion
// order. Scenario-local failures and timeouts are recovered into failed
// results; the only error returned is cancellation of the parent context,
// which callers treat as a whole-run infrastructure failure.
func (r *EvalRunner) RunSuite(ctx context.Context, suite *models.EvalSuite) (*models.SuiteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runAt := time.Now()
	scenarios := suite.Scenarios

	workers := r.maxConcurrency
	if workers <= 0 || workers > len(scenarios) {
		workers = len(scenarios)
	}
	if workers == 0 {
		workers = 1
	}

	settledChan := make(chan scenarioSettled, len(scenarios))
	semaphore := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i := range scenarios {
		wg.Add(1)
		go func(idx int, scenario models.Scenario) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			start := time.Now()
			result := r.runScenario(ctx, scenario)
			settledChan <- scenarioSettled{
				index:     idx,
				result:    result,
				elapsedMs: float64(time.Since(start).Milliseconds()),
			}
		}(i, scenarios[i])
	}

	go func() {
		wg.Wait()
		close(settledChan)
	}()

	// Reassemble by original index so output order matches suite order.
	results := make([]models.ScenarioResult, len(scenarios))
	elapsed := make([]float64, len(scenarios))
	for s := range settledChan {
		results[s.index] = s.result
		elapsed[s.index] = s.elapsedMs
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &models.SuiteResult{
		SuiteName:       suite.Name,
		ScenarioResults: results,
		TotalCost:       aggregateCosts(results),
		TotalLatency:    aggregateLatencies(results, elapsed),
		RunAt:           runAt,
	}, nil
}

// runScenario executes one scenario under its own timeout and scores the
// trace. Every failure mode local to this scenario is recovered into a failed
// result so sibling scenarios are never affected.
func (r *EvalRunner) runScenario(ctx context.Context, scenario models.Scenario) models.ScenarioResult {
	sctx, cancel := context.WithTimeout(ctx, scenario.Timeout)
	defer cancel()

	type executed struct {
		trace *models.ExecutionTrace
		err   error
	}

	start := time.Now()
	done := make(chan executed, 1)
	go func() {
		trace, err := r.executor.Execute(sctx, scenario)
		done <- executed{trace: trace, err: err}
	}()

	var trace *models.ExecutionTrace
	select {
	case <-sctx.Done():
		elapsed := time.Since(start).Milliseconds()
		slog.Debug("scenario timed out", "scenario", scenario.Name, "elapsed_ms", elapsed)
		return models.ScenarioResult{
			ScenarioName: scenario.Name,
			Passed:       false,
			Scores:       r.zeroScores("scenario timed out"),
			Error:        fmt.Sprintf("timeout after %dms (limit: %s)", elapsed, scenario.Timeout),
			Grade:        models.GradeFail,
		}
	case ex := <-done:
		if ex.err != nil {
			slog.Debug("executor failed", "scenario", scenario.Name, "error", ex.err)
			return models.ScenarioResult{
				ScenarioName: scenario.Name,
				Passed:       false,
				Scores:       r.zeroScores("executor failed"),
				Error:        ex.err.Error(),
				Grade:        models.GradeFail,
			}
		}
		trace = ex.trace
	}

	scores := make([]models.Score, 0, len(r.metrics))
	for _, m := range r.metrics {
		scores = append(scores, m.Score(scenario, trace))
	}

	verdict := r.scorer.Grade(scores)

	return models.ScenarioResult{
		ScenarioName: scenario.Name,
		Passed:       verdict.Passed,
		Scores:       scores,
		Trace:        trace,
		Error:        trace.Error,
		Grade:        verdict.Grade,
	}
}

// zeroScores produces a 0.0 score per configured metric, used when no trace
// exists to judge.
func (r *EvalRunner) zeroScores(reason string) []models.Score {
	scores := make([]models.Score, 0, len(r.metrics))
	for _, m := range r.metrics {
		scores = append(scores, models.Score{
			Name:    m.Name(),
			Value:   0.0,
			Weight:  m.Weight(),
			Details: reason,
		})
	}
	return scores
}

func aggregateCosts(results []models.ScenarioResult) models.CostBreakdown {
	var total models.CostBreakdown
	for i := range results {
		if results[i].Trace != nil {
			total.Add(results[i].Trace.Cost)
		}
	}
	return total
}

// aggregateLatencies sums runner-measured wall times and computes suite-level
// percentiles over them; per-agent and per-tool attributions come from the
// traces that reported them.
func aggregateLatencies(results []models.ScenarioResult, elapsedMs []float64) models.LatencyBreakdown {
	var total models.LatencyBreakdown
	for i := range results {
		total.TotalMs += elapsedMs[i]
		if results[i].Trace != nil {
			trace := results[i].Trace
			for agent, ms := range trace.Latency.PerAgent {
				if total.PerAgent == nil {
					total.PerAgent = make(map[string]float64)
				}
				total.PerAgent[agent] += ms
			}
			for tool, ms := range trace.Latency.PerTool {
				if total.PerTool == nil {
					total.PerTool = make(map[string]float64)
				}
				total.PerTool[tool] += ms
			}
		}
	}

	total.P50Ms = statistics.Percentile(elapsedMs, 50)
	total.P95Ms = statistics.Percentile(elapsedMs, 95)
	total.P99Ms = statistics.Percentile(elapsedMs, 99)
	return total
}
