// Package engine is the grading engine's facade: single-run execution and
// graded submissions, wired to a language registry, the sandbox, an exercise
// store and an optional progress recorder.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codelab-lv/runner/api"
	"github.com/codelab-lv/runner/internal/exercises"
	"github.com/codelab-lv/runner/internal/gatherer"
	"github.com/codelab-lv/runner/internal/grader"
	"github.com/codelab-lv/runner/internal/langs"
	"github.com/codelab-lv/runner/internal/progress"
	"github.com/codelab-lv/runner/internal/sandbox"
)

type Engine struct {
	registry *langs.Registry
	runner   *sandbox.Runner
	grader   *grader.Grader
	store    exercises.Store
	recorder progress.Recorder
	log      *slog.Logger
}

// New wires an engine. store and recorder may be nil when only single-run
// execution is needed.
func New(
	registry *langs.Registry,
	runner *sandbox.Runner,
	g *grader.Grader,
	store exercises.Store,
	recorder progress.Recorder,
	log *slog.Logger,
) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		registry: registry,
		runner:   runner,
		grader:   g,
		store:    store,
		recorder: recorder,
		log:      log,
	}
}

// Execute runs a single compile+run attempt. An unknown language fails before
// any workspace is created.
func (e *Engine) Execute(ctx context.Context, language, code string, stdin *string) (sandbox.Result, error) {
	profile, err := e.registry.Resolve(language)
	if err != nil {
		return sandbox.Result{}, err
	}
	return e.runner.Execute(ctx, profile, code, stdin, 0)
}

// GradeSubmission grades code against the ordered tests of an exercise and,
// when a recorder is attached, upserts the student's progress record.
func (e *Engine) GradeSubmission(ctx context.Context, studentID, exerciseID, language, code string) (grader.Verdict, error) {
	return e.gradeObserved(ctx, studentID, exerciseID, language, code, nopObserver{})
}

func (e *Engine) gradeObserved(
	ctx context.Context,
	studentID, exerciseID, language, code string,
	obs grader.Observer,
) (grader.Verdict, error) {
	profile, err := e.registry.Resolve(language)
	if err != nil {
		return grader.Verdict{}, err
	}
	if e.store == nil {
		return grader.Verdict{}, fmt.Errorf("no exercise store configured")
	}
	ex, err := e.store.Exercise(exerciseID)
	if err != nil {
		return grader.Verdict{}, err
	}

	verdict, err := e.grader.GradeObserved(ctx, ex.Tests, profile, code, obs)
	if err != nil {
		return grader.Verdict{}, err
	}

	if e.recorder != nil {
		update := progress.BuildUpdate(studentID, exerciseID, language, verdict)
		if err := e.recorder.Upsert(update); err != nil {
			// The verdict is already decided; a failing sink must not
			// turn it into a grading failure.
			e.log.Error("failed to record progress",
				slog.String("student_id", studentID),
				slog.String("exercise_id", exerciseID),
				slog.Any("error", err))
		}
	}
	return verdict, nil
}

// ExecuteJob serves one single-run request, streaming the outcome to gath.
func (e *Engine) ExecuteJob(ctx context.Context, req api.ExecRequest, gath gatherer.Gatherer) {
	gath.StartJob(req.Language)
	data, err := e.Execute(ctx, req.Language, req.Code, req.Stdin)
	if err != nil {
		e.reportError(gath, err)
		return
	}
	gath.FinishRun(data)
}

// GradeJob serves one grading request, streaming per-test progress and the
// final verdict to gath.
func (e *Engine) GradeJob(ctx context.Context, req api.GradeRequest, gath gatherer.Gatherer) {
	gath.StartJob(req.Language)
	verdict, err := e.gradeObserved(ctx, req.StudentID, req.ExerciseID, req.Language, req.Code, gath)
	if err != nil {
		e.reportError(gath, err)
		return
	}
	gath.FinishVerdict(verdict)
}

// reportError classifies a hard failure for the result stream. Misuse of the
// engine (unknown language, missing exercise, no tests) is the caller's
// fault; everything else is ours.
func (e *Engine) reportError(gath gatherer.Gatherer, err error) {
	switch {
	case errors.Is(err, langs.ErrUnsupportedLanguage),
		errors.Is(err, exercises.ErrExerciseNotFound),
		errors.Is(err, grader.ErrNoTestsConfigured):
		gath.ClientError(err.Error())
	default:
		e.log.Error("evaluation failed", slog.Any("error", err))
		gath.InternalError(err.Error())
	}
}

type nopObserver struct{}

func (nopObserver) StartTest(grader.TestCase)    {}
func (nopObserver) FinishTest(grader.TestResult) {}
