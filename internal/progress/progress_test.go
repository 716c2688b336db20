package progress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelab-lv/runner/internal/grader"
	"github.com/codelab-lv/runner/internal/progress"
)

func TestBuildUpdateFullPass(t *testing.T) {
	verdict := grader.Verdict{
		PassedAll: true,
		Results: []grader.TestResult{
			{TestID: 1, Passed: true, Stdout: "a\n"},
			{TestID: 2, Passed: true, Stdout: "b\n"},
		},
	}

	update := progress.BuildUpdate("stu-1", "ex-1", "python", verdict)

	assert.Equal(t, progress.StatusPassed, update.Status)
	assert.Nil(t, update.LastError)
	require.NotNil(t, update.LastOutput)
	assert.Equal(t, "b\n", *update.LastOutput)
	assert.NotNil(t, update.CompletedAt)
	assert.Equal(t, "python", update.Language)
}

func TestBuildUpdateFailure(t *testing.T) {
	verdict := grader.Verdict{
		PassedAll: false,
		Results: []grader.TestResult{
			{TestID: 1, Passed: false, Stdout: "partial\n", Stderr: "boom\n", ExitCode: 1},
		},
	}

	update := progress.BuildUpdate("stu-1", "ex-1", "c", verdict)

	assert.Equal(t, progress.StatusFailed, update.Status)
	require.NotNil(t, update.LastError)
	assert.Equal(t, "boom\n", *update.LastError)
	require.NotNil(t, update.LastOutput)
	assert.Equal(t, "partial\n", *update.LastOutput)
	assert.Nil(t, update.CompletedAt)
}

func TestMemRecorderKeepsLatest(t *testing.T) {
	rec := progress.NewMemRecorder()

	require.NoError(t, rec.Upsert(progress.Update{
		StudentID: "stu-1", ExerciseID: "ex-1", Status: progress.StatusFailed,
	}))
	require.NoError(t, rec.Upsert(progress.Update{
		StudentID: "stu-1", ExerciseID: "ex-1", Status: progress.StatusPassed,
	}))

	update, ok := rec.Get("stu-1", "ex-1")
	require.True(t, ok)
	assert.Equal(t, progress.StatusPassed, update.Status)

	_, ok = rec.Get("stu-2", "ex-1")
	assert.False(t, ok)
}
