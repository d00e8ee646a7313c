package debate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
	"github.com/hugo-lorenzo-mato/agora/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeProblems() []core.Problem {
	return []core.Problem{
		{ID: 1, Question: "What is 2+2?", GroundTruth: "4"},
		{ID: 2, Question: "What is 3*3?", GroundTruth: "9"},
		{ID: 3, Question: "What is 10-6?", GroundTruth: "4"},
	}
}

func TestRunner_Run_AllProblems(t *testing.T) {
	backend := &stubBackend{respond: happyResponder("A", "B")}
	coord := newTestCoordinator(backend, fourPersonas())
	store := &memStore{}
	runner := NewRunner(coord, &memProblems{list: threeProblems()}, store, logging.NewNop())

	summary, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 3, summary.Correct)
	assert.InDelta(t, 1.0, summary.Accuracy(), 0.001)

	// The result list is rewritten after each problem.
	require.Len(t, store.saves, 3)
	assert.Len(t, store.saves[0], 1)
	assert.Len(t, store.saves[1], 2)
	assert.Len(t, store.saves[2], 3)

	final, err := store.Load(context.Background())
	require.NoError(t, err)
	for i, result := range final {
		require.NotNil(t, result.Record)
		assert.Equal(t, i+1, result.ProblemID())
	}
}

func TestRunner_Run_FailedProblemGetsMarkerAndBatchContinues(t *testing.T) {
	happy := happyResponder("A", "B")
	backend := &stubBackend{}
	backend.respond = func(req core.CompletionRequest) (string, error) {
		// Grading for problem 2 never produces usable output.
		if req.Schema == core.KindEvaluation && strings.Contains(req.Prompt, "What is 3*3?") {
			return "", core.ErrBackendCall("upstream unavailable")
		}
		return happy(req)
	}
	coord := newTestCoordinator(backend, fourPersonas())
	store := &memStore{}
	runner := NewRunner(coord, &memProblems{list: threeProblems()}, store, logging.NewNop())

	summary, err := runner.Run(context.Background(), nil)
	require.NoError(t, err, "a single problem's failure never fails the batch")

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2, summary.Correct)
	assert.InDelta(t, 1.0, summary.Accuracy(), 0.001,
		"failed problems are excluded from the accuracy denominator")

	final, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, final, 3)

	assert.False(t, final[0].Failed())
	require.True(t, final[1].Failed())
	assert.Equal(t, 2, final[1].Marker.ProblemID)
	assert.Equal(t, core.StageGrade, final[1].Marker.Stage)
	assert.NotEmpty(t, final[1].Marker.Error)
	assert.False(t, final[2].Failed(), "the run continues past the failure")
}

func TestRunner_Run_StageDeadlineGetsMarkerAndBatchContinues(t *testing.T) {
	happy := happyResponder("A", "B")
	backend := &stubBackend{}
	backend.respond = func(req core.CompletionRequest) (string, error) {
		// Problem 2's solvers stall until their call deadline expires.
		if req.Schema == core.KindSolution && strings.Contains(req.Prompt, "What is 3*3?") {
			return "", fmt.Errorf("generation stalled: %w", context.DeadlineExceeded)
		}
		return happy(req)
	}
	coord := newTestCoordinator(backend, fourPersonas())
	store := &memStore{}
	runner := NewRunner(coord, &memProblems{list: threeProblems()}, store, logging.NewNop())

	summary, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total, "a stage deadline must not end the batch")
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)

	final, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, final, 3)

	require.True(t, final[1].Failed(), "the timed-out problem gets an error marker")
	assert.Equal(t, core.StageSolve, final[1].Marker.Stage)
	assert.False(t, final[2].Failed(), "the run continues to the next problem")
}

func TestRunner_Run_SingleProblemSelector(t *testing.T) {
	backend := &stubBackend{respond: happyResponder("A", "B")}
	coord := newTestCoordinator(backend, fourPersonas())
	store := &memStore{}
	runner := NewRunner(coord, &memProblems{list: threeProblems()}, store, logging.NewNop())

	only := 2
	summary, err := runner.Run(context.Background(), &only)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	final, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, final, 1)
	assert.Equal(t, 2, final[0].ProblemID())
}

func TestRunner_Run_UnknownProblemID(t *testing.T) {
	backend := &stubBackend{
		respond: func(core.CompletionRequest) (string, error) {
			t.Error("no backend call may happen for an unknown problem id")
			return "", nil
		},
	}
	coord := newTestCoordinator(backend, fourPersonas())
	store := &memStore{}
	runner := NewRunner(coord, &memProblems{list: threeProblems()}, store, logging.NewNop())

	only := 99
	_, err := runner.Run(context.Background(), &only)
	require.Error(t, err)

	var domainErr *core.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, core.CodeProblemNotFound, domainErr.Code)
	assert.Empty(t, store.saves, "no work is performed")
}

func TestRunner_Run_InterruptPreservesPriorResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	happy := happyResponder("A", "B")
	backend := &stubBackend{}
	backend.respond = func(req core.CompletionRequest) (string, error) {
		// Cancel mid-way through problem 2.
		if req.Schema == core.KindSolution && strings.Contains(req.Prompt, "What is 3*3?") {
			cancel()
			return "", context.Canceled
		}
		return happy(req)
	}
	coord := newTestCoordinator(backend, fourPersonas())
	store := &memStore{}
	runner := NewRunner(coord, &memProblems{list: threeProblems()}, store, logging.NewNop())

	summary, err := runner.Run(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total, "only the problem finished before the interrupt counts")

	final, loadErr := store.Load(context.Background())
	require.NoError(t, loadErr)
	require.Len(t, final, 1, "the interrupted problem is not persisted")
	assert.Equal(t, 1, final[0].ProblemID())
}
