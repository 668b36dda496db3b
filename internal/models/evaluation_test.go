package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGradeForScore(t *testing.T) {
	cases := []struct {
		score float64
		want  GradeLevel
	}{
		{1.0, GradeExcellent},
		{0.90, GradeExcellent},
		{0.899, GradeGood},
		{0.75, GradeGood},
		{0.749, GradeAcceptable},
		{0.60, GradeAcceptable},
		{0.599, GradePoor},
		{0.40, GradePoor},
		{0.399, GradeFail},
		{0.0, GradeFail},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, GradeForScore(tc.score), "score %v", tc.score)
	}
}

func TestNewEvalSuite(t *testing.T) {
	t.Run("valid suite succeeds", func(t *testing.T) {
		suite, err := NewEvalSuite("basic", []Scenario{
			{Name: "a"},
			{Name: "b"},
		})
		require.NoError(t, err)
		require.Equal(t, "basic", suite.Name)
		require.Len(t, suite.Scenarios, 2)
	})

	t.Run("empty name returns error", func(t *testing.T) {
		_, err := NewEvalSuite("", []Scenario{{Name: "a"}})
		require.Error(t, err)
	})

	t.Run("unnamed scenario returns error", func(t *testing.T) {
		_, err := NewEvalSuite("basic", []Scenario{{Name: ""}})
		require.Error(t, err)
	})

	t.Run("duplicate scenario names return error", func(t *testing.T) {
		_, err := NewEvalSuite("basic", []Scenario{
			{Name: "same"},
			{Name: "same"},
		})
		require.ErrorIs(t, err, ErrDuplicateScenario)
	})

	t.Run("missing timeout gets default", func(t *testing.T) {
		suite, err := NewEvalSuite("basic", []Scenario{{Name: "a"}})
		require.NoError(t, err)
		require.Equal(t, DefaultScenarioTimeout, suite.Scenarios[0].Timeout)
	})

	t.Run("explicit timeout is kept", func(t *testing.T) {
		suite, err := NewEvalSuite("basic", []Scenario{
			{Name: "a", Timeout: 5 * time.Second},
		})
		require.NoError(t, err)
		require.Equal(t, 5*time.Second, suite.Scenarios[0].Timeout)
	})

	t.Run("empty suite is allowed", func(t *testing.T) {
		suite, err := NewEvalSuite("empty", nil)
		require.NoError(t, err)
		require.Empty(t, suite.Scenarios)
	})
}
