package local

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/genops-guardian/internal/domain/analyzers"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}
}

func TestExec_CapturesStreamsAndExitCode(t *testing.T) {
	requireShell(t)

	res := Exec(context.Background(), t.TempDir(), []string{"sh", "-c", "echo out; echo err 1>&2; exit 3"}, 0)

	require.False(t, res.Failed())
	assert.Equal(t, "sh -c echo out; echo err 1>&2; exit 3", res.Command)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestExec_UsesWorkingDirectory(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("here"), 0o644))

	res := Exec(context.Background(), dir, []string{"cat", "marker.txt"}, 0)

	require.False(t, res.Failed())
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "here", res.Stdout)
}

func TestExec_MissingBinaryIsInvocationError(t *testing.T) {
	res := Exec(context.Background(), t.TempDir(), []string{"definitely-not-a-real-linter-xyz"}, 0)

	require.True(t, res.Failed())
	assert.Contains(t, res.Err.Error(), "definitely-not-a-real-linter-xyz")
	assert.Empty(t, res.Command)
}

func TestExec_EmptyCommand(t *testing.T) {
	res := Exec(context.Background(), t.TempDir(), nil, 0)

	assert.True(t, res.Failed())
}

func TestExec_TruncatesOutput(t *testing.T) {
	requireShell(t)
	script := "i=0; while [ $i -lt 2000 ]; do printf '0123456789'; i=$((i+1)); done"

	res := Exec(context.Background(), t.TempDir(), []string{"sh", "-c", script}, 0)

	require.False(t, res.Failed())
	assert.Len(t, res.Stdout, domain.MaxStdout)
	assert.True(t, strings.HasPrefix(res.Stdout, "0123456789"))
}

func TestExec_Timeout(t *testing.T) {
	requireShell(t)

	res := Exec(context.Background(), t.TempDir(), []string{"sleep", "5"}, 100*time.Millisecond)

	require.False(t, res.Failed())
	assert.NotEqual(t, 0, res.ExitCode)
	assert.Contains(t, res.Stderr, "deadline exceeded")
}

func TestRunner_Run(t *testing.T) {
	requireShell(t)

	res := NewRunner(0).Run(context.Background(), t.TempDir(), domain.Step{Tool: domain.ToolGoVet, Args: []string{"true"}})

	assert.False(t, res.Failed())
	assert.Equal(t, 0, res.ExitCode)
}
