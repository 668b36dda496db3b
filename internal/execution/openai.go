package execution

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bifrostlabs/bifrost-eval/internal/models"
	"github.com/sashabaranov/go-openai"
)

// OpenAIExecutor adapts an OpenAI-compatible chat endpoint to the
// PipelineExecutor contract, so single-model pipelines can be evaluated
// without a bespoke adapter. The scenario's "prompt" input field becomes the
// user message; other input shapes are serialized as JSON.
type OpenAIExecutor struct {
	client          *openai.Client
	model           string
	systemMessage   string
	temperature     float32
	inputCostPer1K  float64
	outputCostPer1K float64
}

// OpenAIOption customizes an OpenAIExecutor.
type OpenAIOption func(*OpenAIExecutor)

// WithBaseURL points the executor at an OpenAI-compatible endpoint
// (local inference servers, proxies).
func WithBaseURL(baseURL string) OpenAIOption {
	return func(e *OpenAIExecutor) {
		config := openai.DefaultConfig("not-needed")
		config.BaseURL = baseURL
		e.client = openai.NewClientWithConfig(config)
	}
}

// WithSystemMessage sets a system prompt sent before every scenario input.
func WithSystemMessage(msg string) OpenAIOption {
	return func(e *OpenAIExecutor) { e.systemMessage = msg }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) OpenAIOption {
	return func(e *OpenAIExecutor) { e.temperature = t }
}

// WithTokenPricing sets USD prices per 1K input and output tokens, used to
// populate the trace's cost breakdown from API usage counts.
func WithTokenPricing(inputPer1K, outputPer1K float64) OpenAIOption {
	return func(e *OpenAIExecutor) {
		e.inputCostPer1K = inputPer1K
		e.outputCostPer1K = outputPer1K
	}
}

// NewOpenAIExecutor creates an executor for the given model.
func NewOpenAIExecutor(apiKey, model string, opts ...OpenAIOption) *OpenAIExecutor {
	e := &OpenAIExecutor{
		client: openai.NewClient(apiKey),
		model:  model,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *OpenAIExecutor) Execute(ctx context.Context, scenario models.Scenario) (*models.ExecutionTrace, error) {
	var messages []openai.ChatCompletionMessage
	if e.systemMessage != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: e.systemMessage,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: promptFromScenario(scenario),
	})

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Messages:    messages,
		Temperature: e.temperature,
	})
	elapsed := float64(time.Since(start).Milliseconds())

	if err != nil {
		return nil, &InfrastructureError{Executor: e.model, Err: err}
	}

	trace := &models.ExecutionTrace{
		Success: true,
		Latency: models.LatencyBreakdown{
			TotalMs:  elapsed,
			PerAgent: map[string]float64{e.model: elapsed},
		},
		Cost: e.costFromUsage(resp.Usage),
	}

	if len(resp.Choices) == 0 {
		trace.Success = false
		trace.Error = "no choices returned"
		return trace, nil
	}

	choice := resp.Choices[0]
	trace.Output = choice.Message.Content

	for _, tc := range choice.Message.ToolCalls {
		record := models.ToolCallRecord{
			ToolName: tc.Function.Name,
			Success:  true,
		}
		var args map[string]any
		if json.Unmarshal([]byte(tc.Function.Arguments), &args) == nil {
			record.Arguments = args
		}
		trace.ToolCalls = append(trace.ToolCalls, record)
	}

	return trace, nil
}

func (e *OpenAIExecutor) costFromUsage(usage openai.Usage) models.CostBreakdown {
	inputCost := float64(usage.PromptTokens) / 1000.0 * e.inputCostPer1K
	outputCost := float64(usage.CompletionTokens) / 1000.0 * e.outputCostPer1K
	total := inputCost + outputCost

	cost := models.CostBreakdown{
		TotalUSD:      total,
		InputTokens:   usage.PromptTokens,
		OutputTokens:  usage.CompletionTokens,
		InputCostUSD:  inputCost,
		OutputCostUSD: outputCost,
	}
	if total > 0 {
		cost.PerAgent = map[string]float64{e.model: total}
	}
	return cost
}

// promptFromScenario extracts the user message: a string "prompt" field when
// present, otherwise the whole input serialized as JSON.
func promptFromScenario(scenario models.Scenario) string {
	if p, ok := scenario.InputData["prompt"].(string); ok && p != "" {
		return p
	}
	data, err := json.Marshal(scenario.InputData)
	if err != nil {
		return ""
	}
	return string(data)
}
