package debate

import (
	"context"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
	"github.com/hugo-lorenzo-mato/agora/internal/logging"
	"github.com/hugo-lorenzo-mato/agora/internal/service"
)

type reviewPair struct {
	reviewer string
	target   string
}

// reviewPairs enumerates every ordered (reviewer, target) pair among the
// solver set, reviewers in solver order. This enumeration order is the
// canonical review generation order: reviews for a given target always
// appear in reviewer iteration order regardless of call completion order.
func reviewPairs(solverIDs []string) []reviewPair {
	pairs := make([]reviewPair, 0, len(solverIDs)*(len(solverIDs)-1))
	for _, reviewer := range solverIDs {
		for _, target := range solverIDs {
			if reviewer != target {
				pairs = append(pairs, reviewPair{reviewer: reviewer, target: target})
			}
		}
	}
	return pairs
}

// reviewAll runs the full round-robin peer review: one call per ordered
// (reviewer, target) pair. No review observes another review. Returns
// reviews keyed by target solver, each slice in generation order.
func (c *Coordinator) reviewAll(ctx context.Context, question string, solverIDs []string, solutions map[string]core.Solution, log *logging.Logger) (map[string][]core.PeerReview, error) {
	stageLog := log.WithStage(string(core.StageReview))

	pairs := reviewPairs(solverIDs)
	results := make([]core.PeerReview, len(pairs))

	err := c.forEach(ctx, len(pairs), func(ctx context.Context, i int) error {
		pair := pairs[i]
		prompt, err := c.prompts.RenderReview(service.ReviewParams{
			ReviewerID:     pair.reviewer,
			TargetSolverID: pair.target,
			Question:       question,
			Solution:       solutions[pair.target],
		})
		if err != nil {
			return err
		}

		var review core.PeerReview
		if err := c.gw.Invoke(ctx, pair.reviewer, prompt, &review); err != nil {
			return err
		}
		// Pair identity is fixed by the protocol, not the model's echo.
		review.ReviewerID = pair.reviewer
		review.TargetSolverID = pair.target
		results[i] = review

		stageLog.Debug("review received",
			"reviewer", pair.reviewer,
			"target", pair.target,
			"score", review.Score)
		return nil
	})
	if err != nil {
		return nil, err
	}

	byTarget := make(map[string][]core.PeerReview, len(solverIDs))
	for i, pair := range pairs {
		byTarget[pair.target] = append(byTarget[pair.target], results[i])
	}
	return byTarget, nil
}
