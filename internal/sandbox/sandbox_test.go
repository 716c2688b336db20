package sandbox_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelab-lv/runner/internal/langs"
	"github.com/codelab-lv/runner/internal/sandbox"
)

// shProfile runs the submitted source as a shell script, so tests only need a
// POSIX sh on the host.
func shProfile() langs.Profile {
	return langs.Profile{
		ID:         "sh",
		SourceExt:  ".sh",
		RunCmd:     []string{"sh", "{source}"},
		TimeoutSec: 5,
	}
}

// compiledShProfile fakes a compile step by copying the source to the binary
// path, then runs the binary as a shell script.
func compiledShProfile() langs.Profile {
	return langs.Profile{
		ID:         "shc",
		SourceExt:  ".sh",
		CompileCmd: []string{"cp", "{source}", "{binary}"},
		RunCmd:     []string{"sh", "{binary}"},
		TimeoutSec: 5,
	}
}

func countWorkspaces(t *testing.T, tmpDir string) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(tmpDir, "runner-ws-*"))
	require.NoError(t, err)
	return len(matches)
}

func TestExecuteCapturesOutput(t *testing.T) {
	r := sandbox.NewRunner(nil)

	res, err := r.Execute(context.Background(), shProfile(),
		"echo out; echo err >&2", nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.Greater(t, res.Duration, time.Duration(0))
}

func TestExecutePipesStdin(t *testing.T) {
	r := sandbox.NewRunner(nil)

	stdin := "hello\n"
	res, err := r.Execute(context.Background(), shProfile(), "cat", &stdin, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", res.Stdout)
}

func TestExecuteNonZeroExitIsData(t *testing.T) {
	r := sandbox.NewRunner(nil)

	res, err := r.Execute(context.Background(), shProfile(),
		"echo broken >&2; exit 3", nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "broken\n", res.Stderr)
}

func TestExecuteRunCommandNotFound(t *testing.T) {
	r := sandbox.NewRunner(nil)

	profile := shProfile()
	profile.RunCmd = []string{"definitely-missing-binary-xyz", "{source}"}

	res, err := r.Execute(context.Background(), profile, "echo hi", nil, 0)
	require.NoError(t, err)

	assert.Equal(t, sandbox.ExitCodeNotFound, res.ExitCode)
	assert.Equal(t, "Command not found: definitely-missing-binary-xyz", res.Stderr)
	assert.Empty(t, res.Stdout)
}

func TestExecuteTimeoutKillsRun(t *testing.T) {
	r := sandbox.NewRunner(nil)

	profile := shProfile()
	profile.TimeoutSec = 1

	start := time.Now()
	res, err := r.Execute(context.Background(), profile,
		"echo partial; sleep 30", nil, 0)
	require.NoError(t, err)

	assert.Equal(t, sandbox.ExitCodeTimeout, res.ExitCode)
	assert.True(t, res.TimedOut())
	assert.Contains(t, res.Stderr, sandbox.TimeoutMarker)
	assert.Equal(t, "partial\n", res.Stdout)
	// Bounded grace period: the kill must land shortly after the deadline.
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestExecuteCallerCancellationIsAnError(t *testing.T) {
	r := sandbox.NewRunner(nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(300 * time.Millisecond)
		cancel()
	}()

	// Cancellation must not be mistaken for a failing or timed-out run.
	_, err := r.Execute(ctx, shProfile(), "sleep 30", nil, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteTimeoutOverrideWins(t *testing.T) {
	r := sandbox.NewRunner(nil)

	start := time.Now()
	res, err := r.Execute(context.Background(), shProfile(),
		"sleep 30", nil, 1*time.Second)
	require.NoError(t, err)

	assert.Equal(t, sandbox.ExitCodeTimeout, res.ExitCode)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestExecuteCompileThenRun(t *testing.T) {
	r := sandbox.NewRunner(nil)

	res, err := r.Execute(context.Background(), compiledShProfile(),
		"echo built", nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "built\n", res.Stdout)
}

func TestExecuteCompileFailureSkipsRun(t *testing.T) {
	r := sandbox.NewRunner(nil)

	marker := filepath.Join(t.TempDir(), "ran")
	profile := compiledShProfile()
	// A compiler that always rejects the source.
	profile.CompileCmd = []string{"sh", "-c", "echo 'syntax error' >&2; exit 2"}

	res, err := r.Execute(context.Background(), profile,
		"touch "+marker, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, res.ExitCode)
	assert.Equal(t, "syntax error\n", res.Stderr)
	assert.Equal(t, time.Duration(0), res.Duration)
	assert.NoFileExists(t, marker)
}

func TestExecuteCompilerNotFound(t *testing.T) {
	r := sandbox.NewRunner(nil)

	marker := filepath.Join(t.TempDir(), "ran")
	profile := compiledShProfile()
	profile.CompileCmd = []string{"missing-compiler-xyz", "{source}", "{binary}"}

	res, err := r.Execute(context.Background(), profile,
		"touch "+marker, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, sandbox.ExitCodeNotFound, res.ExitCode)
	assert.Equal(t, "Command not found: missing-compiler-xyz", res.Stderr)
	assert.Equal(t, time.Duration(0), res.Duration)
	assert.NoFileExists(t, marker)
}

func TestExecuteRemovesWorkspace(t *testing.T) {
	// Private TMPDIR so concurrent test binaries cannot skew the count.
	tmpDir := t.TempDir()
	t.Setenv("TMPDIR", tmpDir)
	r := sandbox.NewRunner(nil)

	_, err := r.Execute(context.Background(), shProfile(), "echo hi", nil, 0)
	require.NoError(t, err)

	profile := shProfile()
	profile.TimeoutSec = 1
	_, err = r.Execute(context.Background(), profile, "sleep 30", nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, countWorkspaces(t, tmpDir))
}

func TestExecuteIsIdempotentForPurePrograms(t *testing.T) {
	r := sandbox.NewRunner(nil)

	first, err := r.Execute(context.Background(), shProfile(), "echo same", nil, 0)
	require.NoError(t, err)
	second, err := r.Execute(context.Background(), shProfile(), "echo same", nil, 0)
	require.NoError(t, err)

	assert.Equal(t, first.Stdout, second.Stdout)
	assert.Equal(t, first.ExitCode, second.ExitCode)
}
