package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	cmd := newRootCommand()

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"compare", "serve", "models", "init"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
	assert.True(t, cmd.SilenceUsage)
}

func TestCompareCommandFlags(t *testing.T) {
	cmd := newCompareCommand()
	for _, flag := range []string{"model", "reference", "json", "verbose", "report"} {
		require.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %q", flag)
	}
}

func TestAllModelsFailedError(t *testing.T) {
	err := &AllModelsFailedError{Message: "all 3 model(s) failed"}
	assert.Equal(t, "all 3 model(s) failed", err.Error())
}
