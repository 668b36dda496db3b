package execution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bifrostlabs/bifrost-eval/internal/models"
	"github.com/stretchr/testify/require"
)

func TestMockExecutor(t *testing.T) {
	ctx := context.Background()

	t.Run("unscripted scenario gets a generic trace", func(t *testing.T) {
		m := NewMockExecutor()
		trace, err := m.Execute(ctx, models.Scenario{Name: "anything"})
		require.NoError(t, err)
		require.True(t, trace.Success)
		require.Contains(t, trace.Output, "anything")
	})

	t.Run("scripted trace is returned verbatim", func(t *testing.T) {
		m := NewMockExecutor()
		want := &models.ExecutionTrace{Output: "4", Success: true}
		m.Traces["add"] = want

		trace, err := m.Execute(ctx, models.Scenario{Name: "add"})
		require.NoError(t, err)
		require.Same(t, want, trace)
	})

	t.Run("scripted error is wrapped as infrastructure error", func(t *testing.T) {
		m := NewMockExecutor()
		cause := errors.New("connection refused")
		m.Errors["flaky"] = cause

		_, err := m.Execute(ctx, models.Scenario{Name: "flaky"})
		require.Error(t, err)

		var infraErr *InfrastructureError
		require.ErrorAs(t, err, &infraErr)
		require.ErrorIs(t, err, cause)
	})

	t.Run("hang honors context cancellation", func(t *testing.T) {
		m := NewMockExecutor()
		m.Hang["stuck"] = true

		hctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, err := m.Execute(hctx, models.Scenario{Name: "stuck"})
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("delay honors context cancellation", func(t *testing.T) {
		m := NewMockExecutor()
		m.Delays["slow"] = time.Minute

		dctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, err := m.Execute(dctx, models.Scenario{Name: "slow"})
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestInfrastructureError(t *testing.T) {
	cause := errors.New("dns failure")
	err := &InfrastructureError{Executor: "openai", Err: cause}

	require.Contains(t, err.Error(), "openai")
	require.Contains(t, err.Error(), "dns failure")
	require.ErrorIs(t, err, cause)
}
