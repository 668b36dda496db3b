package metrics

import (
	"testing"

	"github.com/bifrostlabs/bifrost-eval/internal/models"
	"github.com/stretchr/testify/require"
)

func TestAccuracyMetric_Constructor(t *testing.T) {
	t.Run("negative weight returns error", func(t *testing.T) {
		_, err := NewAccuracyMetric(AccuracyParams{Weight: -1})
		require.Error(t, err)
	})

	t.Run("zero weight defaults to 1", func(t *testing.T) {
		m, err := NewAccuracyMetric(AccuracyParams{})
		require.NoError(t, err)
		require.Equal(t, 1.0, m.Weight())
	})

	t.Run("explicit weight is kept", func(t *testing.T) {
		m, err := NewAccuracyMetric(AccuracyParams{Weight: 2.5})
		require.NoError(t, err)
		require.Equal(t, 2.5, m.Weight())
	})
}

func TestAccuracyMetric_Score(t *testing.T) {
	m, err := NewAccuracyMetric(AccuracyParams{Weight: 1.0})
	require.NoError(t, err)

	t.Run("exact match scores 1", func(t *testing.T) {
		s := m.Score(
			models.Scenario{Name: "add", ExpectedOutput: "4"},
			&models.ExecutionTrace{Output: "4", Success: true},
		)
		require.Equal(t, 1.0, s.Value)
	})

	t.Run("mismatch scores 0", func(t *testing.T) {
		s := m.Score(
			models.Scenario{Name: "add", ExpectedOutput: "4"},
			&models.ExecutionTrace{Output: "5", Success: true},
		)
		require.Equal(t, 0.0, s.Value)
	})

	t.Run("deep equality covers structured output", func(t *testing.T) {
		expected := map[string]any{"answer": 4, "steps": []string{"2+2"}}
		s := m.Score(
			models.Scenario{Name: "add", ExpectedOutput: expected},
			&models.ExecutionTrace{Output: map[string]any{"answer": 4, "steps": []string{"2+2"}}},
		)
		require.Equal(t, 1.0, s.Value)
	})

	t.Run("nil expected output is skipped as perfect", func(t *testing.T) {
		s := m.Score(
			models.Scenario{Name: "open-ended"},
			&models.ExecutionTrace{Output: "whatever"},
		)
		require.Equal(t, 1.0, s.Value)
		require.Contains(t, s.Details, "skipped")
	})
}

func TestAccuracyMetric_CustomComparator(t *testing.T) {
	partial := func(actual, expected any) float64 { return 0.5 }

	m, err := NewAccuracyMetric(AccuracyParams{Weight: 1.0, Comparator: partial})
	require.NoError(t, err)

	s := m.Score(
		models.Scenario{Name: "fuzzy", ExpectedOutput: "close enough"},
		&models.ExecutionTrace{Output: "close"},
	)
	require.Equal(t, 0.5, s.Value)
}

func TestAccuracyMetric_ComparatorClamped(t *testing.T) {
	overshoot := func(actual, expected any) float64 { return 1.5 }

	m, err := NewAccuracyMetric(AccuracyParams{Weight: 1.0, Comparator: overshoot})
	require.NoError(t, err)

	s := m.Score(
		models.Scenario{Name: "x", ExpectedOutput: "y"},
		&models.ExecutionTrace{Output: "z"},
	)
	require.Equal(t, 1.0, s.Value)
}
