package execution

import (
	"context"
	"fmt"

	"github.com/bifrostlabs/bifrost-eval/internal/models"
)

// PipelineExecutor is the single capability a pipeline under test must
// expose. Any adapter wrapping an agent framework qualifies by implementing
// this one method; the evaluator never inspects how a trace is produced.
//
// Ordinary pipeline failures belong inside the trace (Success=false plus
// Error). A returned Go error means the executor itself was unusable: an
// infrastructure failure, which the runner records as a failed scenario
// rather than aborting the suite.
type PipelineExecutor interface {
	Execute(ctx context.Context, scenario models.Scenario) (*models.ExecutionTrace, error)
}

// InfrastructureError marks an executor as unusable, as opposed to a
// pipeline producing a failing trace.
type InfrastructureError struct {
	Executor string
	Err      error
}

func (e *InfrastructureError) Error() string {
	if e.Executor == "" {
		return fmt.Sprintf("executor infrastructure failure: %v", e.Err)
	}
	return fmt.Sprintf("executor %q infrastructure failure: %v", e.Executor, e.Err)
}

func (e *InfrastructureError) Unwrap() error { return e.Err }
