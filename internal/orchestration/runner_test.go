package orchestration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bifrostlabs/bifrost-eval/internal/execution"
	"github.com/bifrostlabs/bifrost-eval/internal/metrics"
	"github.com/bifrostlabs/bifrost-eval/internal/models"
	"github.com/bifrostlabs/bifrost-eval/internal/scoring"
	"github.com/stretchr/testify/require"
)

func defaultMetrics(t *testing.T) []metrics.Metric {
	t.Helper()
	accuracy, err := metrics.NewAccuracyMetric(metrics.AccuracyParams{Weight: 1.0})
	require.NoError(t, err)
	tools, err := metrics.NewToolCorrectnessMetric(metrics.ToolCorrectnessParams{Weight: 1.0})
	require.NoError(t, err)
	return []metrics.Metric{accuracy, tools}
}

func mustSuite(t *testing.T, name string, scenarios []models.Scenario) *models.EvalSuite {
	t.Helper()
	suite, err := models.NewEvalSuite(name, scenarios)
	require.NoError(t, err)
	return suite
}

func TestRunSuite_PerfectScenario(t *testing.T) {
	mock := execution.NewMockExecutor()
	mock.Traces["add"] = &models.ExecutionTrace{
		Output:  "4",
		Success: true,
		ToolCalls: []models.ToolCallRecord{
			{ToolName: "calculator", Success: true},
		},
	}

	suite := mustSuite(t, "math", []models.Scenario{{
		Name:              "add",
		InputData:         map[string]any{"prompt": "What is 2 + 2?"},
		ExpectedOutput:    "4",
		ExpectedToolCalls: []string{"calculator"},
	}})

	runner := NewEvalRunner(mock, defaultMetrics(t))
	result, err := runner.RunSuite(context.Background(), suite)
	require.NoError(t, err)

	require.Len(t, result.ScenarioResults, 1)
	sr := result.ScenarioResults[0]
	require.True(t, sr.Passed)
	require.Equal(t, models.GradeExcellent, sr.Grade)

	for _, s := range sr.Scores {
		require.Equal(t, 1.0, s.Value, "metric %s", s.Name)
	}
	require.Equal(t, 1.0, result.PassRate())
	require.Equal(t, 1.0, result.MeanScore())
	require.Equal(t, models.GradeExcellent, result.Grade())
}

func TestRunSuite_ResultsFollowSuiteOrder(t *testing.T) {
	mock := execution.NewMockExecutor()
	// Reverse the completion order so the first scenario settles last.
	mock.Delays["first"] = 60 * time.Millisecond
	mock.Delays["second"] = 30 * time.Millisecond

	suite := mustSuite(t, "ordered", []models.Scenario{
		{Name: "first"},
		{Name: "second"},
		{Name: "third"},
	})

	runner := NewEvalRunner(mock, defaultMetrics(t))
	result, err := runner.RunSuite(context.Background(), suite)
	require.NoError(t, err)

	require.Len(t, result.ScenarioResults, 3)
	require.Equal(t, "first", result.ScenarioResults[0].ScenarioName)
	require.Equal(t, "second", result.ScenarioResults[1].ScenarioName)
	require.Equal(t, "third", result.ScenarioResults[2].ScenarioName)
}

func TestRunSuite_TimeoutIsolation(t *testing.T) {
	mock := execution.NewMockExecutor()
	mock.Hang["stuck"] = true

	suite := mustSuite(t, "isolation", []models.Scenario{
		{Name: "before"},
		{Name: "stuck", Timeout: 50 * time.Millisecond},
		{Name: "after"},
	})

	runner := NewEvalRunner(mock, defaultMetrics(t))
	result, err := runner.RunSuite(context.Background(), suite)
	require.NoError(t, err)
	require.Len(t, result.ScenarioResults, 3)

	stuck := result.ScenarioResults[1]
	require.False(t, stuck.Passed)
	require.Equal(t, models.GradeFail, stuck.Grade)
	require.Contains(t, stuck.Error, "timeout")
	for _, s := range stuck.Scores {
		require.Zero(t, s.Value)
	}

	// Siblings are untouched by the timeout.
	require.True(t, result.ScenarioResults[0].Passed)
	require.True(t, result.ScenarioResults[2].Passed)
}

func TestRunSuite_InfrastructureErrorIsScenarioLocal(t *testing.T) {
	mock := execution.NewMockExecutor()
	mock.Errors["flaky"] = errors.New("connection refused")

	suite := mustSuite(t, "infra", []models.Scenario{
		{Name: "flaky"},
		{Name: "healthy"},
	})

	runner := NewEvalRunner(mock, defaultMetrics(t))
	result, err := runner.RunSuite(context.Background(), suite)
	require.NoError(t, err)

	flaky := result.ScenarioResults[0]
	require.False(t, flaky.Passed)
	require.Contains(t, flaky.Error, "connection refused")
	require.Nil(t, flaky.Trace)
	for _, s := range flaky.Scores {
		require.Zero(t, s.Value)
	}

	require.True(t, result.ScenarioResults[1].Passed)
	require.InDelta(t, 0.5, result.PassRate(), 1e-12)
}

func TestRunSuite_CancelledContextReturnsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	suite := mustSuite(t, "cancelled", []models.Scenario{{Name: "a"}})
	runner := NewEvalRunner(execution.NewMockExecutor(), defaultMetrics(t))

	_, err := runner.RunSuite(ctx, suite)
	require.ErrorIs(t, err, context.Canceled)
}

// countingExecutor tracks the peak number of concurrent executions.
type countingExecutor struct {
	mu      sync.Mutex
	current int
	peak    int
	calls   atomic.Int64
}

func (c *countingExecutor) Execute(ctx context.Context, scenario models.Scenario) (*models.ExecutionTrace, error) {
	c.mu.Lock()
	c.current++
	if c.current > c.peak {
		c.peak = c.current
	}
	c.mu.Unlock()

	time.Sleep(20 * time.Millisecond)
	c.calls.Add(1)

	c.mu.Lock()
	c.current--
	c.mu.Unlock()

	return &models.ExecutionTrace{Output: scenario.Name, Success: true}, nil
}

func TestRunSuite_ConcurrencyBound(t *testing.T) {
	counting := &countingExecutor{}

	scenarios := make([]models.Scenario, 8)
	for i := range scenarios {
		scenarios[i] = models.Scenario{Name: string(rune('a' + i))}
	}
	suite := mustSuite(t, "bounded", scenarios)

	runner := NewEvalRunner(counting, defaultMetrics(t), WithMaxConcurrency(2))
	_, err := runner.RunSuite(context.Background(), suite)
	require.NoError(t, err)

	require.Equal(t, int64(8), counting.calls.Load())
	require.LessOrEqual(t, counting.peak, 2)
}

func TestRunSuite_AggregatesCostAndLatency(t *testing.T) {
	mock := execution.NewMockExecutor()
	mock.Traces["a"] = &models.ExecutionTrace{
		Success: true,
		Cost:    models.CostBreakdown{TotalUSD: 0.01, PerAgent: map[string]float64{"planner": 0.01}},
		Latency: models.LatencyBreakdown{TotalMs: 10, PerAgent: map[string]float64{"planner": 10}},
	}
	mock.Traces["b"] = &models.ExecutionTrace{
		Success: true,
		Cost:    models.CostBreakdown{TotalUSD: 0.02, PerAgent: map[string]float64{"planner": 0.02}},
		Latency: models.LatencyBreakdown{TotalMs: 20, PerTool: map[string]float64{"search": 20}},
	}

	suite := mustSuite(t, "agg", []models.Scenario{{Name: "a"}, {Name: "b"}})

	runner := NewEvalRunner(mock, defaultMetrics(t))
	result, err := runner.RunSuite(context.Background(), suite)
	require.NoError(t, err)

	require.InDelta(t, 0.03, result.TotalCost.TotalUSD, models.CostTolerance)
	require.InDelta(t, 0.03, result.TotalCost.PerAgent["planner"], models.CostTolerance)
	require.NoError(t, result.TotalCost.Validate())

	// Suite latency comes from runner-measured wall time, not the traces,
	// which stay untouched.
	require.GreaterOrEqual(t, result.TotalLatency.TotalMs, 0.0)
	require.Equal(t, 10.0, mock.Traces["a"].Latency.TotalMs)
	require.Equal(t, 10.0, result.TotalLatency.PerAgent["planner"])
	require.Equal(t, 20.0, result.TotalLatency.PerTool["search"])
}

func TestRunSuite_CustomScorer(t *testing.T) {
	mock := execution.NewMockExecutor()
	mock.Traces["strict"] = &models.ExecutionTrace{
		Output:  "right",
		Success: true,
		ToolCalls: []models.ToolCallRecord{
			{ToolName: "unexpected", Success: true},
		},
	}

	suite := mustSuite(t, "strict", []models.Scenario{{
		Name:           "strict",
		ExpectedOutput: "right",
	}})

	grader, err := scoring.NewThresholdGrader(map[string]float64{"tool_correctness": 0.95})
	require.NoError(t, err)

	runner := NewEvalRunner(mock, defaultMetrics(t), WithScorer(scoring.NewScorer(grader)))
	result, err := runner.RunSuite(context.Background(), suite)
	require.NoError(t, err)

	// Accuracy is perfect but the unexpected tool call misses the threshold.
	require.False(t, result.ScenarioResults[0].Passed)
}

func TestRunSuite_EmptySuite(t *testing.T) {
	suite := mustSuite(t, "empty", nil)
	runner := NewEvalRunner(execution.NewMockExecutor(), defaultMetrics(t))

	result, err := runner.RunSuite(context.Background(), suite)
	require.NoError(t, err)
	require.Empty(t, result.ScenarioResults)
	require.Zero(t, result.PassRate())
}
