package models

import (
	"fmt"
	"math"
)

// CostTolerance is the float slack allowed when checking that a breakdown's
// total matches the sum of its per-agent or per-tool entries.
const CostTolerance = 1e-9

// ToolCallRecord is one tool/MCP invocation observed during an execution.
type ToolCallRecord struct {
	ToolName   string         `json:"tool_name"`
	Arguments  map[string]any `json:"arguments,omitempty"`
	Result     any            `json:"result,omitempty"`
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
	DurationMs float64        `json:"duration_ms"`
	TokenCount int            `json:"token_count,omitempty"`
	CostUSD    float64        `json:"cost_usd,omitempty"`
}

// CostBreakdown attributes USD spend to agents and tools. When both views are
// populated they describe the same dollars from two angles; TotalUSD must
// match each populated view's sum within CostTolerance.
type CostBreakdown struct {
	TotalUSD      float64            `json:"total_usd"`
	InputTokens   int                `json:"input_tokens,omitempty"`
	OutputTokens  int                `json:"output_tokens,omitempty"`
	InputCostUSD  float64            `json:"input_cost_usd,omitempty"`
	OutputCostUSD float64            `json:"output_cost_usd,omitempty"`
	PerAgent      map[string]float64 `json:"per_agent,omitempty"`
	PerTool       map[string]float64 `json:"per_tool,omitempty"`
}

// NewCostBreakdown derives the total from the per-agent view (or the per-tool
// view when no agents are recorded) and rejects views that disagree.
func NewCostBreakdown(perAgent, perTool map[string]float64) (CostBreakdown, error) {
	agentSum := sumValues(perAgent)
	toolSum := sumValues(perTool)

	total := agentSum
	if len(perAgent) == 0 {
		total = toolSum
	}

	if len(perAgent) > 0 && len(perTool) > 0 && math.Abs(agentSum-toolSum) > CostTolerance {
		return CostBreakdown{}, fmt.Errorf(
			"cost views disagree: per-agent sum %.12f, per-tool sum %.12f", agentSum, toolSum)
	}

	return CostBreakdown{
		TotalUSD: total,
		PerAgent: perAgent,
		PerTool:  perTool,
	}, nil
}

// Validate checks the total-equals-sum invariant for each populated view.
func (c CostBreakdown) Validate() error {
	if len(c.PerAgent) > 0 {
		if sum := sumValues(c.PerAgent); math.Abs(sum-c.TotalUSD) > CostTolerance {
			return fmt.Errorf("total %.12f does not match per-agent sum %.12f", c.TotalUSD, sum)
		}
	}
	if len(c.PerTool) > 0 {
		if sum := sumValues(c.PerTool); math.Abs(sum-c.TotalUSD) > CostTolerance {
			return fmt.Errorf("total %.12f does not match per-tool sum %.12f", c.TotalUSD, sum)
		}
	}
	return nil
}

// Add accumulates another breakdown into this one. Used by the runner when
// rolling scenario costs up into a suite total.
func (c *CostBreakdown) Add(other CostBreakdown) {
	c.TotalUSD += other.TotalUSD
	c.InputTokens += other.InputTokens
	c.OutputTokens += other.OutputTokens
	c.InputCostUSD += other.InputCostUSD
	c.OutputCostUSD += other.OutputCostUSD

	for agent, usd := range other.PerAgent {
		if c.PerAgent == nil {
			c.PerAgent = make(map[string]float64)
		}
		c.PerAgent[agent] += usd
	}
	for tool, usd := range other.PerTool {
		if c.PerTool == nil {
			c.PerTool = make(map[string]float64)
		}
		c.PerTool[tool] += usd
	}
}

// LatencyBreakdown attributes wall-clock time to agents and tools. The
// percentile fields are only populated on suite-level aggregates.
type LatencyBreakdown struct {
	TotalMs  float64            `json:"total_ms"`
	PerAgent map[string]float64 `json:"per_agent,omitempty"`
	PerTool  map[string]float64 `json:"per_tool,omitempty"`
	P50Ms    float64            `json:"p50_ms,omitempty"`
	P95Ms    float64            `json:"p95_ms,omitempty"`
	P99Ms    float64            `json:"p99_ms,omitempty"`
}

// Add accumulates another breakdown's totals and attributions.
func (l *LatencyBreakdown) Add(other LatencyBreakdown) {
	l.TotalMs += other.TotalMs
	for agent, ms := range other.PerAgent {
		if l.PerAgent == nil {
			l.PerAgent = make(map[string]float64)
		}
		l.PerAgent[agent] += ms
	}
	for tool, ms := range other.PerTool {
		if l.PerTool == nil {
			l.PerTool = make(map[string]float64)
		}
		l.PerTool[tool] += ms
	}
}

// ExecutionTrace is the complete record of one pipeline execution. Produced
// exactly once per (scenario, executor) pair and never mutated after return.
// Pipeline-level failure is Success=false plus Error; it is not a Go error.
type ExecutionTrace struct {
	Output    any              `json:"output,omitempty"`
	Success   bool             `json:"success"`
	ToolCalls []ToolCallRecord `json:"tool_calls,omitempty"`
	Cost      CostBreakdown    `json:"cost"`
	Latency   LatencyBreakdown `json:"latency"`
	Error     string           `json:"error,omitempty"`
}

// ToolCallNames returns the names of all tool calls in trace order.
func (t *ExecutionTrace) ToolCallNames() []string {
	names := make([]string, 0, len(t.ToolCalls))
	for _, tc := range t.ToolCalls {
		names = append(names, tc.ToolName)
	}
	return names
}

func sumValues(m map[string]float64) float64 {
	var sum float64
	for _, v := range m {
		sum += v
	}
	return sum
}
