package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestLoadStateMissingFileReturnsEmpty(t *testing.T) {
	s, err := LoadState(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, s.Stages)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	now := time.Now()
	s := &State{Stages: map[string]StageState{
		"normalize": {Status: StatusCompleted, StartTime: &now, EndTime: &now},
	}}
	require.NoError(t, s.Save(path))

	loaded, err := LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, loaded.Stages["normalize"].Status)
}

func TestLoadStateCorruptedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid yaml"), 0o644))
	_, err := LoadState(path)
	assert.Error(t, err)
}

func TestRunExecutesStagesInOrderAndPersistsState(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.yaml")
	out := filepath.Join(dir, "out.txt")

	var ran []string
	stages := []Stage{
		{
			Name:    "first",
			Outputs: []string{out},
			Run: func(ctx context.Context) error {
				ran = append(ran, "first")
				return os.WriteFile(out, []byte("done"), 0o644)
			},
		},
		{
			Name:    "second",
			Inputs:  []string{out},
			Run: func(ctx context.Context) error {
				ran = append(ran, "second")
				return nil
			},
		},
	}

	m := New(stages, statePath, zap.NewNop())
	require.NoError(t, m.Run(context.Background(), RunOptions{}))
	assert.Equal(t, []string{"first", "second"}, ran)

	status, err := m.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, status["first"].Status)
	assert.Equal(t, StatusCompleted, status["second"].Status)
}

func TestRunSkipsCompletedStageWithFreshOutputs(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.yaml")
	out := filepath.Join(dir, "out.txt")
	touch(t, out)

	calls := 0
	stages := []Stage{{
		Name:    "build",
		Outputs: []string{out},
		Run: func(ctx context.Context) error {
			calls++
			return nil
		},
	}}

	m := New(stages, statePath, zap.NewNop())
	require.NoError(t, m.Run(context.Background(), RunOptions{}))
	require.NoError(t, m.Run(context.Background(), RunOptions{}))
	assert.Equal(t, 1, calls)
}

func TestRunForceRerunsEveryStage(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.yaml")
	out := filepath.Join(dir, "out.txt")
	touch(t, out)

	calls := 0
	stages := []Stage{{
		Name:    "build",
		Outputs: []string{out},
		Run: func(ctx context.Context) error {
			calls++
			return nil
		},
	}}

	m := New(stages, statePath, zap.NewNop())
	require.NoError(t, m.Run(context.Background(), RunOptions{}))
	require.NoError(t, m.Run(context.Background(), RunOptions{Force: true}))
	assert.Equal(t, 2, calls)
}

func TestRunFromStageForcesThatStageAndDescendants(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.yaml")
	out1 := filepath.Join(dir, "out1.txt")
	out2 := filepath.Join(dir, "out2.txt")
	touch(t, out1)
	touch(t, out2)

	var calls []string
	stages := []Stage{
		{Name: "a", Outputs: []string{out1}, Run: func(ctx context.Context) error {
			calls = append(calls, "a")
			return nil
		}},
		{Name: "b", Inputs: []string{out1}, Outputs: []string{out2}, Run: func(ctx context.Context) error {
			calls = append(calls, "b")
			return nil
		}},
	}

	m := New(stages, statePath, zap.NewNop())
	require.NoError(t, m.Run(context.Background(), RunOptions{}))
	calls = nil
	require.NoError(t, m.Run(context.Background(), RunOptions{FromStage: "b"}))
	assert.Equal(t, []string{"b"}, calls)
}

func TestRunAbortsOnStageFailureAndLeavesDownstreamPending(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.yaml")

	var secondRan bool
	stages := []Stage{
		{Name: "broken", Run: func(ctx context.Context) error {
			return assertErr
		}},
		{Name: "never", Run: func(ctx context.Context) error {
			secondRan = true
			return nil
		}},
	}

	m := New(stages, statePath, zap.NewNop())
	err := m.Run(context.Background(), RunOptions{})
	assert.Error(t, err)
	assert.False(t, secondRan)

	status, err := m.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, status["broken"].Status)
	assert.Equal(t, StatusPending, status["never"].Status)
}

func TestRunSkipsStageWithMissingInputsWithoutFailing(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.yaml")

	stages := []Stage{{
		Name:   "needs-input",
		Inputs: []string{filepath.Join(dir, "absent.txt")},
		Run: func(ctx context.Context) error {
			return assertErr
		},
	}}

	m := New(stages, statePath, zap.NewNop())
	require.NoError(t, m.Run(context.Background(), RunOptions{}))

	status, err := m.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, status["needs-input"].Status)
}

var assertErr = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
