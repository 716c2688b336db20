package grader

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/codelab-lv/runner/internal/langs"
	"github.com/codelab-lv/runner/internal/sandbox"
)

// ErrNoTestsConfigured is returned when an exercise has an empty test list.
// An empty list is a caller error, not a grading outcome.
var ErrNoTestsConfigured = errors.New("exercise has no tests configured")

// TestCase is one grading fixture. Input, when present, is fed to the
// submission as stdin. TimeoutSec, when positive, overrides the language
// profile's default per-step timeout for this test.
type TestCase struct {
	ID         int64
	Input      *string
	Answer     string
	TimeoutSec int
	Hidden     bool
}

// TestResult is the per-test evidence backing a verdict.
type TestResult struct {
	TestID   int64
	Passed   bool
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
	Answer   string
	Input    *string
	Hidden   bool
}

// Verdict is the aggregate pass/fail decision. Results may be a strict prefix
// of the exercise's tests when iteration short-circuited on a crash; PassedAll
// is computed over the attempted tests only.
type Verdict struct {
	PassedAll bool
	Results   []TestResult
}

// Observer receives per-test progress while grading runs. All methods are
// called from the grading goroutine, in test order.
type Observer interface {
	StartTest(test TestCase)
	FinishTest(res TestResult)
}

type nopObserver struct{}

func (nopObserver) StartTest(TestCase)    {}
func (nopObserver) FinishTest(TestResult) {}

// Grader runs an exercise's tests against a submission, strictly in order and
// never in parallel: the short-circuit rule needs each exit code observed
// before deciding whether to proceed.
type Grader struct {
	runner      *sandbox.Runner
	log         *slog.Logger
	stopOnCrash bool
}

type Option func(*Grader)

// WithStopOnCrash controls the short-circuit rule. It defaults to on: a crash
// or timeout on one input is assumed to reproduce on later inputs.
func WithStopOnCrash(stop bool) Option {
	return func(g *Grader) { g.stopOnCrash = stop }
}

func New(runner *sandbox.Runner, log *slog.Logger, opts ...Option) *Grader {
	if log == nil {
		log = slog.Default()
	}
	g := &Grader{runner: runner, log: log, stopOnCrash: true}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Grade executes the submission once per test case and aggregates the
// evidence. Execution outcomes of the submitted code (mismatch, non-zero
// exit, timeout) are data inside the verdict; only engine-level failures are
// returned as errors.
func (g *Grader) Grade(
	ctx context.Context,
	tests []TestCase,
	profile langs.Profile,
	code string,
) (Verdict, error) {
	return g.GradeObserved(ctx, tests, profile, code, nopObserver{})
}

// GradeObserved is Grade with per-test progress streamed to obs.
func (g *Grader) GradeObserved(
	ctx context.Context,
	tests []TestCase,
	profile langs.Profile,
	code string,
	obs Observer,
) (Verdict, error) {
	if len(tests) == 0 {
		return Verdict{}, ErrNoTestsConfigured
	}

	verdict := Verdict{PassedAll: true}
	for _, test := range tests {
		obs.StartTest(test)

		var override time.Duration
		if test.TimeoutSec > 0 {
			override = time.Duration(test.TimeoutSec) * time.Second
		}
		exec, err := g.runner.Execute(ctx, profile, code, test.Input, override)
		if err != nil {
			return Verdict{}, err
		}

		passed := exec.ExitCode == 0 &&
			strings.TrimSpace(exec.Stdout) == strings.TrimSpace(test.Answer)
		res := TestResult{
			TestID:   test.ID,
			Passed:   passed,
			Stdout:   exec.Stdout,
			Stderr:   exec.Stderr,
			ExitCode: exec.ExitCode,
			Duration: exec.Duration,
			Answer:   test.Answer,
			Input:    test.Input,
			Hidden:   test.Hidden,
		}
		verdict.Results = append(verdict.Results, res)
		if !passed {
			verdict.PassedAll = false
		}
		obs.FinishTest(res)

		g.log.Debug("test finished",
			slog.Int64("test_id", test.ID),
			slog.Bool("passed", passed),
			slog.Int("exit_code", exec.ExitCode))

		if g.stopOnCrash && exec.ExitCode != 0 {
			break
		}
	}
	return verdict, nil
}
