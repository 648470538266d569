package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelocantos/rush/internal/audit"
)

// writeConfig points the audit log into a temp dir and returns the config
// path and log path.
func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	logPath := filepath.Join(dir, "audit.jsonl")
	cfgPath := filepath.Join(dir, "config.yaml")
	data := "prompt:\n  color: false\naudit:\n  enabled: true\n  path: " + logPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(data), 0o600))
	return cfgPath, logPath
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand("1.2.3")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rush 1.2.3\n", out)
}

func TestCommandFlagStatus(t *testing.T) {
	cfg, logPath := writeConfig(t)

	_, _, err := execute(t, "--config", cfg, "-c", "true")
	assert.NoError(t, err)

	_, _, err = execute(t, "--config", cfg, "-c", "true | false")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)

	_, errOut, err := execute(t, "--config", cfg, "-c", "echo |")
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
	assert.Equal(t, "rush: parse error: unexpected end of input\n", errOut)

	entries, err := audit.Tail(logPath, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "true | false", entries[1].Line)
	assert.Equal(t, []int{0, 1}, entries[1].PipeStatus)
}

func TestNoAudit(t *testing.T) {
	cfg, logPath := writeConfig(t)
	_, _, err := execute(t, "--config", cfg, "--no-audit", "-c", "true")
	require.NoError(t, err)
	_, err = os.Stat(logPath)
	assert.True(t, os.IsNotExist(err))
}

func TestAuditVerifyAndShow(t *testing.T) {
	cfg, logPath := writeConfig(t)
	for _, line := range []string{"true", "false", "true; true"} {
		_, _, _ = execute(t, "--config", cfg, "-c", line)
	}

	out, _, err := execute(t, "--config", cfg, "audit", "verify")
	require.NoError(t, err)
	assert.Equal(t, "audit log integrity verified\n", out)

	out, _, err = execute(t, "audit", "show", "-n", "1", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, `"line": "true; true"`)
	assert.NotContains(t, out, `"line": "false"`)

	out, _, err = execute(t, "audit", "tail", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, `"seq"`))

	// Break the chain.
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(logPath, bytes.Replace(data, []byte(`"false"`), []byte(`"fals3"`), 1), 0o600))
	out, _, err = execute(t, "--config", cfg, "audit", "verify")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Contains(t, out, "audit verification FAILED")
}

func TestBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history:\n  limit: -1\n"), 0o600))
	_, _, err := execute(t, "--config", path, "-c", "true")
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(&bytes.Buffer{}, err))
}

func TestExitCode(t *testing.T) {
	var w bytes.Buffer
	assert.Equal(t, 0, ExitCode(&w, nil))
	assert.Equal(t, 7, ExitCode(&w, &ExitError{Code: 7}))
	assert.Empty(t, w.String())
	assert.Equal(t, 2, ExitCode(&w, errors.New("boom")))
	assert.Equal(t, "rush: boom\n", w.String())
}
