package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bird-bench/mini-dev/internal/cli/config"
	clitest "github.com/bird-bench/mini-dev/internal/cli/testutil"
	"github.com/bird-bench/mini-dev/internal/testutil"
)

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	return clitest.ExecuteCommand(t, NewRootCmd(), "", args...)
}

func TestHelpListsCommands(t *testing.T) {
	out, _, err := executeRoot(t, "--help")
	require.NoError(t, err)

	for _, name := range []string{"resolve", "normalize", "expand", "compare", "evaluate", "runs", "schema", "shell", "version", "completion"} {
		assert.Contains(t, out, name)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := executeRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "minidev v"+Version)
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := executeRoot(t, "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "minidev")
		})
	}

	_, _, err := executeRoot(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestInvalidConfigFails(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := executeRoot(t, "--dialect", "cobol", "resolve", "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cobol")
}

func TestConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.BirdDatabase(t, filepath.Join(dir, "bird"), "shop",
		"CREATE TABLE Orders (OrderID INTEGER PRIMARY KEY, Total REAL)",
	)
	testutil.WriteFile(t, dir, "minidev.yaml", "data_dir: bird\noutput: text\n")

	out, _, err := executeRoot(t, "resolve", "--db", "shop", "SELECT total FROM orders")
	require.NoError(t, err)
	assert.Equal(t, "Orders.Total", strings.TrimSpace(out))

	out, _, err = executeRoot(t, "--output", "json", "resolve", "--db", "shop", "SELECT total FROM orders")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []any{"Orders.Total"}, got["columns"])
}

func TestVerboseLogsToStderr(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	testutil.BirdDatabase(t, filepath.Join(dir, "data", "dev_databases"), "shop",
		"CREATE TABLE Orders (OrderID INTEGER PRIMARY KEY)",
	)
	input := testutil.WriteFile(t, dir, "preds.json",
		`[{"question_id": 7, "db_id": "shop", "ground_truth_sql": "SELECT OrderID FROM Orders", "column_suggestions": "orders.orderid"}]`)

	out, errOut, err := executeRoot(t, "-v", "--output", "json", "--state", filepath.Join(dir, "s.db"), "evaluate", input, "--workers", "1")
	require.NoError(t, err)
	assert.Contains(t, errOut, "suggestion matching summary")
	assert.Contains(t, out, `"matches": 1`)
}
