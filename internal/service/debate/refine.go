package debate

import (
	"context"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
	"github.com/hugo-lorenzo-mato/agora/internal/logging"
	"github.com/hugo-lorenzo-mato/agora/internal/service"
)

// refineAll asks each solver to rework its solution given exactly the
// reviews that target it, in generation order. Refinements are independent
// of each other.
func (c *Coordinator) refineAll(ctx context.Context, question string, solverIDs []string, solutions map[string]core.Solution, reviews map[string][]core.PeerReview, log *logging.Logger) (map[string]core.RefinedSolution, error) {
	stageLog := log.WithStage(string(core.StageRefine))

	results := make([]core.RefinedSolution, len(solverIDs))
	err := c.forEach(ctx, len(solverIDs), func(ctx context.Context, i int) error {
		solverID := solverIDs[i]
		prompt, err := c.prompts.RenderRefine(service.RefineParams{
			Question: question,
			Original: solutions[solverID],
			Reviews:  reviews[solverID],
		})
		if err != nil {
			return err
		}

		var refined core.RefinedSolution
		if err := c.gw.Invoke(ctx, solverID, prompt, &refined); err != nil {
			return err
		}
		results[i] = refined

		stageLog.Debug("refinement received", "agent", solverID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	refined := make(map[string]core.RefinedSolution, len(solverIDs))
	for i, id := range solverIDs {
		refined[id] = results[i]
	}
	return refined, nil
}
