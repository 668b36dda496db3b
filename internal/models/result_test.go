package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScenarioResultWeightedScore(t *testing.T) {
	t.Run("weights skew the average", func(t *testing.T) {
		r := ScenarioResult{Scores: []Score{
			{Name: "accuracy", Value: 1.0, Weight: 3.0},
			{Name: "latency", Value: 0.0, Weight: 1.0},
		}}
		require.InDelta(t, 0.75, r.WeightedScore(), 1e-12)
	})

	t.Run("equal weights reduce to plain average", func(t *testing.T) {
		r := ScenarioResult{Scores: []Score{
			{Name: "a", Value: 0.4, Weight: 1.0},
			{Name: "b", Value: 0.8, Weight: 1.0},
		}}
		require.InDelta(t, 0.6, r.WeightedScore(), 1e-12)
	})

	t.Run("no scores means zero", func(t *testing.T) {
		require.Zero(t, (&ScenarioResult{}).WeightedScore())
	})

	t.Run("all-zero weights mean zero", func(t *testing.T) {
		r := ScenarioResult{Scores: []Score{{Name: "a", Value: 1.0, Weight: 0}}}
		require.Zero(t, r.WeightedScore())
	})
}

func TestSuiteResultAggregates(t *testing.T) {
	result := &SuiteResult{
		SuiteName: "math",
		ScenarioResults: []ScenarioResult{
			{ScenarioName: "a", Passed: true, Scores: []Score{{Value: 1.0, Weight: 1}}},
			{ScenarioName: "b", Passed: true, Scores: []Score{{Value: 0.8, Weight: 1}}},
			{ScenarioName: "c", Passed: false, Scores: []Score{{Value: 0.3, Weight: 1}}},
			{ScenarioName: "d", Passed: false, Scores: []Score{{Value: 0.5, Weight: 1}}},
		},
	}

	require.Equal(t, 2, result.PassedCount())
	require.Equal(t, 2, result.FailedCount())
	require.InDelta(t, 0.5, result.PassRate(), 1e-12)
	require.InDelta(t, 0.65, result.MeanScore(), 1e-12)
	require.Equal(t, GradeAcceptable, result.Grade())
}

func TestSuiteResultEmpty(t *testing.T) {
	result := &SuiteResult{SuiteName: "empty"}
	require.Zero(t, result.PassRate())
	require.Zero(t, result.MeanScore())
	require.Equal(t, GradeFail, result.Grade())
}
