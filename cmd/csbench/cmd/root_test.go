package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_ShowsHelpWithoutArgs(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "csbench")
	assert.Contains(t, out, "run")
	assert.Contains(t, out, "describe")
	assert.Contains(t, out, "history")
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	_, err := execute(t, "frobnicate")
	require.Error(t, err)
}

func TestRootCmd_HasExpectedSubcommands(t *testing.T) {
	rootCmd := NewRootCmd()

	want := []string{"run", "describe", "history", "config", "version"}
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, n := range want {
		assert.True(t, names[n], "missing subcommand %s", n)
	}
}
