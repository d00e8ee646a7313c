package debate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
	"github.com/hugo-lorenzo-mato/agora/internal/logging"
)

// Runner executes debates over a problem set, persisting the result list
// after every problem. A single problem's failure never stops the batch;
// the failed problem is recorded with an error marker and the run moves on.
type Runner struct {
	coord    *Coordinator
	problems core.ProblemSource
	store    core.ResultStore
	log      *logging.Logger
	now      func() time.Time
}

// NewRunner creates a runner.
func NewRunner(coord *Coordinator, problems core.ProblemSource, store core.ResultStore, log *logging.Logger) *Runner {
	if log == nil {
		log = logging.NewNop()
	}
	return &Runner{
		coord:    coord,
		problems: problems,
		store:    store,
		log:      log,
		now:      time.Now,
	}
}

// Summary aggregates one batch run. Accuracy counts only problems that
// completed the full debate; failed problems are excluded from the
// denominator.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Correct   int
}

// Accuracy returns the fraction of successful problems graded correct,
// or 0 when nothing succeeded.
func (s Summary) Accuracy() float64 {
	if s.Succeeded == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Succeeded)
}

// Run loads the problem set and debates each problem in order. When only is
// non-nil, the run is restricted to that problem id; an id absent from the
// set is an error and no work is performed. The stored result list is fully
// rewritten after each problem so an interrupt never corrupts prior results.
func (r *Runner) Run(ctx context.Context, only *int) (Summary, error) {
	problems, err := r.problems.Load(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("loading problems: %w", err)
	}

	if only != nil {
		problems = selectProblem(problems, *only)
		if problems == nil {
			return Summary{}, core.ErrValidation(core.CodeProblemNotFound,
				fmt.Sprintf("problem %d is not in the loaded set", *only))
		}
	}

	r.log.Info("run started", "problems", len(problems))

	var summary Summary
	results := make([]core.RunResult, 0, len(problems))

	for _, problem := range problems {
		if ctx.Err() != nil {
			r.log.Warn("run interrupted", "completed", summary.Total, "remaining", len(problems)-summary.Total)
			break
		}

		record, err := r.coord.Run(ctx, problem)
		if err != nil {
			// Only the runner's own context ends the batch. A deadline hit
			// inside a stage is an ordinary failure and gets a marker.
			if ctx.Err() != nil {
				r.log.Warn("run interrupted", "problem_id", problem.ID)
				break
			}

			var stageFail *StageError
			marker := &core.ErrorMarker{
				ProblemID: problem.ID,
				Error:     err.Error(),
				Timestamp: r.now().UTC(),
			}
			if errors.As(err, &stageFail) {
				marker.Stage = stageFail.Stage
			}

			r.log.Error("problem failed",
				"problem_id", problem.ID,
				"stage", string(marker.Stage),
				"error", err)

			results = append(results, core.RunResult{Marker: marker})
			summary.Total++
			summary.Failed++
		} else {
			results = append(results, core.RunResult{Record: record})
			summary.Total++
			summary.Succeeded++
			if record.Evaluation.IsCorrect {
				summary.Correct++
			}
		}

		if err := r.store.Save(ctx, results); err != nil {
			return summary, fmt.Errorf("saving results after problem %d: %w", problem.ID, err)
		}
	}

	r.log.Info("run complete",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"correct", summary.Correct,
		"accuracy", fmt.Sprintf("%d/%d (%.1f%%)", summary.Correct, summary.Succeeded, summary.Accuracy()*100))

	return summary, nil
}

func selectProblem(problems []core.Problem, id int) []core.Problem {
	for _, p := range problems {
		if p.ID == id {
			return []core.Problem{p}
		}
	}
	return nil
}
