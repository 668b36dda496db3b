package execution

import (
	"testing"

	"github.com/bifrostlabs/bifrost-eval/internal/models"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

func TestPromptFromScenario(t *testing.T) {
	t.Run("prompt field wins", func(t *testing.T) {
		got := promptFromScenario(models.Scenario{
			InputData: map[string]any{"prompt": "What is 2 + 2?", "extra": 1},
		})
		require.Equal(t, "What is 2 + 2?", got)
	})

	t.Run("non-string prompt falls back to JSON", func(t *testing.T) {
		got := promptFromScenario(models.Scenario{
			InputData: map[string]any{"prompt": 42},
		})
		require.JSONEq(t, `{"prompt": 42}`, got)
	})

	t.Run("no prompt field serializes the whole input", func(t *testing.T) {
		got := promptFromScenario(models.Scenario{
			InputData: map[string]any{"query": "weather", "city": "Oslo"},
		})
		require.JSONEq(t, `{"query": "weather", "city": "Oslo"}`, got)
	})
}

func TestCostFromUsage(t *testing.T) {
	e := NewOpenAIExecutor("key", "test-model", WithTokenPricing(0.5, 1.5))

	cost := e.costFromUsage(openai.Usage{PromptTokens: 2000, CompletionTokens: 1000})

	require.InDelta(t, 1.0, cost.InputCostUSD, 1e-9)
	require.InDelta(t, 1.5, cost.OutputCostUSD, 1e-9)
	require.InDelta(t, 2.5, cost.TotalUSD, 1e-9)
	require.Equal(t, 2000, cost.InputTokens)
	require.Equal(t, 1000, cost.OutputTokens)
	require.InDelta(t, 2.5, cost.PerAgent["test-model"], 1e-9)
	require.NoError(t, cost.Validate())
}

func TestCostFromUsage_NoPricing(t *testing.T) {
	e := NewOpenAIExecutor("key", "test-model")

	cost := e.costFromUsage(openai.Usage{PromptTokens: 2000, CompletionTokens: 1000})

	require.Zero(t, cost.TotalUSD)
	require.Empty(t, cost.PerAgent)
	require.Equal(t, 2000, cost.InputTokens)
}
