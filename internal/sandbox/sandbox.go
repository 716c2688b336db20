package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/codelab-lv/runner/internal/langs"
)

// Exit code conventions carried over from the platform's API: 127 marks a
// missing compiler/interpreter, -1 marks a timed-out run.
const (
	ExitCodeNotFound = 127
	ExitCodeTimeout  = -1
)

// TimeoutMarker is appended to stderr when a step is killed on timeout.
const TimeoutMarker = "\nExecution timed out."

// waitDelay bounds how long we wait for pipe readers after the process group
// has been killed.
const waitDelay = 5 * time.Second

// Result is the outcome of one compile+run attempt. Captured streams are raw
// and untrimmed; output normalization is the caller's concern. Duration covers
// the run step only and is zero when compilation failed before any run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// TimedOut reports whether the step was killed on timeout.
func (r Result) TimedOut() bool { return r.ExitCode == ExitCodeTimeout }

// Runner executes untrusted submissions, one exclusive workspace per call.
// Runner holds no per-call state and is safe for concurrent use; admission
// control for many simultaneous submissions belongs to the caller.
type Runner struct {
	log *slog.Logger
}

func NewRunner(log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{log: log}
}

// Execute materializes a workspace, writes the source file, optionally
// compiles, runs the submission and tears the workspace down on every exit
// path. Compile and run each get the full timeout budget independently.
//
// Misbehaving submissions (compile errors, non-zero exits, timeouts, a missing
// toolchain binary) come back as data inside Result; the error return is
// reserved for engine-level failures such as an unusable workspace.
func (r *Runner) Execute(
	ctx context.Context,
	profile langs.Profile,
	code string,
	stdin *string,
	timeoutOverride time.Duration,
) (Result, error) {
	ws, err := newWorkspace()
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := ws.Close(); err != nil {
			r.log.Warn("failed to remove workspace",
				slog.String("dir", ws.Dir()), slog.Any("error", err))
		}
	}()

	sourcePath, err := ws.WriteSource(code, profile.SourceExt)
	if err != nil {
		return Result{}, err
	}

	timeout := profile.Timeout()
	if timeoutOverride > 0 {
		timeout = timeoutOverride
	}

	if profile.Compiled() {
		argv := buildArgv(profile.CompileCmd, sourcePath, ws.BinaryPath())
		r.log.Debug("compiling submission",
			slog.String("lang", profile.ID), slog.String("cmd", argv[0]))
		compiled, err := runStep(ctx, ws.Dir(), argv, nil, timeout)
		if err != nil {
			return Result{}, err
		}
		if compiled.ExitCode != 0 {
			// Compiler diagnostics are returned as-is; the run step is
			// never attempted and no run time is reported.
			compiled.Duration = 0
			return compiled, nil
		}
	}

	argv := buildArgv(profile.RunCmd, sourcePath, ws.BinaryPath())
	r.log.Debug("running submission",
		slog.String("lang", profile.ID), slog.String("cmd", argv[0]))
	return runStep(ctx, ws.Dir(), argv, stdin, timeout)
}

// runStep runs one argv in dir under the given timeout and captures its
// observable behavior. On timeout the whole process group is killed so that
// children spawned by the submission cannot outlive the call.
func runStep(
	ctx context.Context,
	dir string,
	argv []string,
	stdin *string,
	timeout time.Duration,
) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = strings.NewReader(*stdin)
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			// Missing compiler or interpreter is a host configuration
			// defect, not a student-code failure.
			return Result{
				Stderr:   "Command not found: " + argv[0],
				ExitCode: ExitCodeNotFound,
				Duration: elapsed,
			}, nil
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{
				Stdout:   stdout.String(),
				Stderr:   stderr.String() + TimeoutMarker,
				ExitCode: ExitCodeTimeout,
				Duration: elapsed,
			}, nil
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			// The caller gave up, which says nothing about the submission.
			return Result{}, ctx.Err()
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("failed to run %s: %w", argv[0], err)
		}
	}

	return Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: elapsed,
	}, nil
}
