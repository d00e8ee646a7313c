package debate

import (
	"context"
	"fmt"
	"slices"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
	"github.com/hugo-lorenzo-mato/agora/internal/logging"
	"github.com/hugo-lorenzo-mato/agora/internal/service"
)

// judge builds a consolidated view of the whole debate, per solver in
// solver order, and asks the assigned judge for a verdict under the
// impartiality instruction override. The judge never sees other agents'
// role preferences. A verdict naming a solver outside the solver set is a
// malformed response and goes back through the gateway's retry budget.
func (c *Coordinator) judge(ctx context.Context, question, judgeID string, solverIDs []string, solutions map[string]core.Solution, reviews map[string][]core.PeerReview, refined map[string]core.RefinedSolution, log *logging.Logger) (core.JudgeVerdict, error) {
	stageLog := log.WithStage(string(core.StageJudge))

	sections := make([]service.JudgeSolverSection, 0, len(solverIDs))
	for _, id := range solverIDs {
		sections = append(sections, service.JudgeSolverSection{
			SolverID: id,
			Initial:  solutions[id],
			Reviews:  reviews[id],
			Refined:  refined[id],
		})
	}

	prompt, err := c.prompts.RenderJudge(service.JudgeParams{
		Question: question,
		Solvers:  sections,
	})
	if err != nil {
		return core.JudgeVerdict{}, err
	}

	var verdict core.JudgeVerdict
	err = c.gw.Invoke(ctx, judgeID, prompt, &verdict,
		WithInstruction(service.JudgeSystemPrompt),
		WithExtraValidation(func() error {
			if !slices.Contains(solverIDs, verdict.BestSolverID) {
				return core.ErrMalformedResponse(fmt.Sprintf("best_solver_id %q is not in the solver set %v", verdict.BestSolverID, solverIDs))
			}
			return nil
		}))
	if err != nil {
		return core.JudgeVerdict{}, err
	}

	stageLog.Debug("verdict received", "judge", judgeID, "best_solver", verdict.BestSolverID)
	return verdict, nil
}
