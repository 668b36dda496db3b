package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScenarioFailureError(t *testing.T) {
	var err error = &ScenarioFailureError{Message: "2 of 5 failed"}
	require.Equal(t, "2 of 5 failed", err.Error())

	var failureErr *ScenarioFailureError
	require.True(t, errors.As(err, &failureErr))
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	cmd := newRootCommand()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"run", "compare", "validate", "new"} {
		require.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestRootCommand_UnknownSubcommand(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"frobnicate"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	require.Error(t, cmd.Execute())
}
