package debate

import (
	"context"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
	"github.com/hugo-lorenzo-mato/agora/internal/logging"
	"github.com/hugo-lorenzo-mato/agora/internal/service"
)

// solveAll collects one independent solution per solver. Solvers never see
// each other's work at this stage.
func (c *Coordinator) solveAll(ctx context.Context, question string, solverIDs []string, log *logging.Logger) (map[string]core.Solution, error) {
	stageLog := log.WithStage(string(core.StageSolve))

	prompt, err := c.prompts.RenderSolve(service.SolveParams{Question: question})
	if err != nil {
		return nil, err
	}

	results := make([]core.Solution, len(solverIDs))
	err = c.forEach(ctx, len(solverIDs), func(ctx context.Context, i int) error {
		var sol core.Solution
		if err := c.gw.Invoke(ctx, solverIDs[i], prompt, &sol); err != nil {
			return err
		}
		results[i] = sol
		stageLog.Debug("solution received", "agent", solverIDs[i])
		return nil
	})
	if err != nil {
		return nil, err
	}

	solutions := make(map[string]core.Solution, len(solverIDs))
	for i, id := range solverIDs {
		solutions[id] = results[i]
	}
	return solutions, nil
}
