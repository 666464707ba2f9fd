package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	require.Equal(t, 1, steps)

	steps, err = parseSteps([]string{" 3 "})
	require.NoError(t, err)
	require.Equal(t, 3, steps)

	_, err = parseSteps([]string{"0"})
	require.Error(t, err)
	_, err = parseSteps([]string{"x"})
	require.Error(t, err)
}

func TestParseDateFlag(t *testing.T) {
	got, err := parseDateFlag("from", "")
	require.NoError(t, err)
	require.True(t, got.IsZero())

	got, err = parseDateFlag("from", "2025-08-01")
	require.NoError(t, err)
	require.True(t, got.Equal(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)))

	_, err = parseDateFlag("to", "01/08/2025")
	require.ErrorContains(t, err, "--to")
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newCLI().rootCommand()

	names := make([]string, 0)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"serve", "migrate", "recompute", "resolve"} {
		require.Contains(t, names, want)
	}
}

func TestResolveCommand_InMemory(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("APP_LOG_LEVEL", "error")

	var out bytes.Buffer
	c := newCLI()
	c.out = &out

	err := c.execute(context.Background(), []string{
		"--env-file", "",
		"resolve",
		"--provider", "fotmob",
		"--id", "fm-7",
		"--name", "Declan Rice",
		"--team-id", "eng-ars",
	})
	require.NoError(t, err)
	require.True(t, strings.Contains(out.String(), `"is_new": true`), out.String())
}

func TestRecomputeCommand_RejectsScopeConflict(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("APP_LOG_LEVEL", "error")

	err := newCLI().execute(context.Background(), []string{
		"--env-file", "",
		"recompute", "--competition", "eng-premier-league", "--country", "GB",
	})
	require.ErrorContains(t, err, "mutually exclusive")
}
