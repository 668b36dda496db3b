package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/bifrostlabs/bifrost-eval/internal/models"
)

// MockExecutor is a scripted executor for tests and smoke runs. Scenarios can
// be mapped to canned traces, infrastructure errors, or artificial delays;
// anything unscripted gets a generic successful trace.
type MockExecutor struct {
	// Traces maps scenario name to the trace to return.
	Traces map[string]*models.ExecutionTrace

	// Errors maps scenario name to an infrastructure error to return.
	Errors map[string]error

	// Delays maps scenario name to an artificial delay before responding.
	// The delay honors context cancellation.
	Delays map[string]time.Duration

	// Hang lists scenarios whose execution never returns until the context
	// is cancelled. Useful for exercising timeout isolation.
	Hang map[string]bool
}

// NewMockExecutor creates an empty mock; script it by filling in the maps.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Traces: map[string]*models.ExecutionTrace{},
		Errors: map[string]error{},
		Delays: map[string]time.Duration{},
		Hang:   map[string]bool{},
	}
}

func (m *MockExecutor) Execute(ctx context.Context, scenario models.Scenario) (*models.ExecutionTrace, error) {
	if m.Hang[scenario.Name] {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	if delay, ok := m.Delays[scenario.Name]; ok {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err, ok := m.Errors[scenario.Name]; ok {
		return nil, &InfrastructureError{Executor: "mock", Err: err}
	}

	if trace, ok := m.Traces[scenario.Name]; ok {
		return trace, nil
	}

	return &models.ExecutionTrace{
		Output:  fmt.Sprintf("mock response for %s", scenario.Name),
		Success: true,
	}, nil
}
