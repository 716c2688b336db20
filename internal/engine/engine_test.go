package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelab-lv/runner/api"
	"github.com/codelab-lv/runner/internal/engine"
	"github.com/codelab-lv/runner/internal/exercises"
	"github.com/codelab-lv/runner/internal/grader"
	"github.com/codelab-lv/runner/internal/langs"
	"github.com/codelab-lv/runner/internal/progress"
	"github.com/codelab-lv/runner/internal/sandbox"
)

func strPtr(s string) *string { return &s }

func newTestEngine(t *testing.T) (*engine.Engine, *progress.MemRecorder) {
	t.Helper()

	registry, err := langs.NewRegistry(langs.Profile{
		ID:         "sh",
		SourceExt:  ".sh",
		RunCmd:     []string{"sh", "{source}"},
		TimeoutSec: 5,
	})
	require.NoError(t, err)

	store := exercises.NewMemStore()
	store.Put(exercises.Exercise{
		ID: "echo-twice",
		Tests: []grader.TestCase{
			{ID: 1, Input: strPtr("a\n"), Answer: "a"},
			{ID: 2, Input: strPtr("b\n"), Answer: "b", Hidden: true},
		},
	})

	runner := sandbox.NewRunner(nil)
	recorder := progress.NewMemRecorder()
	eng := engine.New(registry, runner, grader.New(runner, nil), store, recorder, nil)
	return eng, recorder
}

func TestExecuteUnknownLanguage(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.Execute(context.Background(), "cobol", "echo hi", nil)
	assert.ErrorIs(t, err, langs.ErrUnsupportedLanguage)
}

func TestExecuteRunsCode(t *testing.T) {
	eng, _ := newTestEngine(t)

	stdin := "hello\n"
	res, err := eng.Execute(context.Background(), "sh", "cat", &stdin)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello\n", res.Stdout)
}

func TestGradeSubmissionRecordsPass(t *testing.T) {
	eng, recorder := newTestEngine(t)

	verdict, err := eng.GradeSubmission(context.Background(),
		"stu-1", "echo-twice", "sh", "cat")
	require.NoError(t, err)
	assert.True(t, verdict.PassedAll)
	assert.Len(t, verdict.Results, 2)

	update, ok := recorder.Get("stu-1", "echo-twice")
	require.True(t, ok)
	assert.Equal(t, progress.StatusPassed, update.Status)
	assert.Nil(t, update.LastError)
	assert.NotNil(t, update.CompletedAt)
	assert.Equal(t, "sh", update.Language)
}

func TestGradeSubmissionRecordsFailure(t *testing.T) {
	eng, recorder := newTestEngine(t)

	verdict, err := eng.GradeSubmission(context.Background(),
		"stu-1", "echo-twice", "sh", "echo oops >&2; exit 1")
	require.NoError(t, err)
	assert.False(t, verdict.PassedAll)
	assert.Len(t, verdict.Results, 1)

	update, ok := recorder.Get("stu-1", "echo-twice")
	require.True(t, ok)
	assert.Equal(t, progress.StatusFailed, update.Status)
	require.NotNil(t, update.LastError)
	assert.Equal(t, "oops\n", *update.LastError)
	assert.Nil(t, update.CompletedAt)
}

func TestGradeSubmissionUnknownExercise(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.GradeSubmission(context.Background(), "stu-1", "nope", "sh", "cat")
	assert.ErrorIs(t, err, exercises.ErrExerciseNotFound)
}

type captureGatherer struct {
	started     []int64
	finished    []api.TestResult
	verdict     *grader.Verdict
	runData     *sandbox.Result
	clientErr   *string
	internalErr *string
	jobLanguage string
}

func (c *captureGatherer) StartJob(language string)         { c.jobLanguage = language }
func (c *captureGatherer) StartTest(test grader.TestCase)   { c.started = append(c.started, test.ID) }
func (c *captureGatherer) FinishTest(res grader.TestResult) {}
func (c *captureGatherer) FinishRun(data sandbox.Result)    { c.runData = &data }
func (c *captureGatherer) FinishVerdict(v grader.Verdict)   { c.verdict = &v }
func (c *captureGatherer) ClientError(msg string)           { c.clientErr = &msg }
func (c *captureGatherer) InternalError(msg string)         { c.internalErr = &msg }

func TestGradeJobStreamsVerdict(t *testing.T) {
	eng, _ := newTestEngine(t)

	gath := &captureGatherer{}
	eng.GradeJob(context.Background(), api.GradeRequest{
		EvalUuid:   "eval-1",
		StudentID:  "stu-1",
		ExerciseID: "echo-twice",
		Language:   "sh",
		Code:       "cat",
	}, gath)

	assert.Equal(t, "sh", gath.jobLanguage)
	assert.Equal(t, []int64{1, 2}, gath.started)
	require.NotNil(t, gath.verdict)
	assert.True(t, gath.verdict.PassedAll)
	assert.Nil(t, gath.clientErr)
	assert.Nil(t, gath.internalErr)
}

func TestExecuteJobUnknownLanguageIsClientError(t *testing.T) {
	eng, _ := newTestEngine(t)

	gath := &captureGatherer{}
	eng.ExecuteJob(context.Background(), api.ExecRequest{
		EvalUuid: "eval-2",
		Language: "cobol",
		Code:     "echo hi",
	}, gath)

	require.NotNil(t, gath.clientErr)
	assert.Contains(t, *gath.clientErr, "unsupported language")
	assert.Nil(t, gath.runData)
}
