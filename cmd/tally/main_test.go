package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and resets every flag afterwards,
// since the command tree is package state.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() { resetFlags(rootCmd) })

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestEval(t *testing.T) {
	out, err := execute(t, "", "eval", "12.5", "×", "3", "=")
	require.NoError(t, err)
	assert.Equal(t, "37.5\n", out)

	out, err = execute(t, "", "eval", "9-")
	require.NoError(t, err)
	assert.Equal(t, "9 -\n0\n", out)
}

func TestEval_JSON(t *testing.T) {
	out, err := execute(t, "", "eval", "--json", "0.1+0.2=")
	require.NoError(t, err)
	assert.JSONEq(t, `{"expression":"","value":"0.3"}`, out)
}

func TestEval_Errors(t *testing.T) {
	out, err := execute(t, "", "eval", "1÷0=")
	assert.Error(t, err)
	assert.Contains(t, out, "Error\n")

	_, err = execute(t, "", "eval", "2^3")
	assert.ErrorContains(t, err, "unknown key")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tally version "))
}

func TestKeys_Raw(t *testing.T) {
	out, err := execute(t, "", "keys", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "| `⌫` | Backspace |")
}

func TestRunAndSessionCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "6 × 7 =\n", "run", "--headless", "--store", "file", "--session-dir", dir, "-s", "calc1")
	require.NoError(t, err)
	assert.Contains(t, out, "42")

	out, err = execute(t, "", "session", "ls", "--store", "file", "--session-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "- calc1")

	out, err = execute(t, "", "session", "inspect", "calc1", "-o", "yaml", "--store", "file", "--session-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "session_id: calc1")
	assert.Contains(t, out, `entry: "42"`)

	out, err = execute(t, "", "session", "rm", "--all", "--store", "file", "--session-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed session 'calc1'")

	out, err = execute(t, "", "session", "ls", "--store", "file", "--session-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found.")
}

func TestSessionInspect_Missing(t *testing.T) {
	_, err := execute(t, "", "session", "inspect", "ghost", "--store", "file", "--session-dir", t.TempDir())
	assert.ErrorContains(t, err, "session not found")
}
