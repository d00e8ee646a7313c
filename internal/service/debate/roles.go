package debate

import (
	"context"
	"math/rand"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
	"github.com/hugo-lorenzo-mato/agora/internal/logging"
	"github.com/hugo-lorenzo-mato/agora/internal/service"
)

// collectPreferences asks every registered agent for its role preference.
// Preferences come back in roster iteration order.
func (c *Coordinator) collectPreferences(ctx context.Context, question string, log *logging.Logger) ([]core.RolePreference, error) {
	stageLog := log.WithStage(string(core.StageRoles))

	ids := c.gw.Registry().IDs()
	prefs := make([]core.RolePreference, len(ids))

	err := c.forEach(ctx, len(ids), func(ctx context.Context, i int) error {
		agentID := ids[i]
		prompt, err := c.prompts.RenderRolePreference(service.RolePreferenceParams{
			AgentID:  agentID,
			Question: question,
		})
		if err != nil {
			return err
		}

		var pref core.RolePreference
		if err := c.gw.Invoke(ctx, agentID, prompt, &pref); err != nil {
			return err
		}
		// The caller's identity is authoritative over whatever the model
		// echoed back.
		pref.AgentID = agentID
		prefs[i] = pref

		stageLog.Debug("preference collected",
			"agent", agentID,
			"role", string(pref.Role),
			"confidence", pref.Confidence)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return prefs, nil
}

// NegotiateRoles assigns exactly one judge and returns the remaining agents
// as solvers in their original input order. When one or more agents request
// the Judge role, the judge is drawn from those candidates by weighted
// random sampling over their confidence values; if every candidate reports
// zero confidence the draw falls back to uniform. When no agent requests
// Judge, the judge is drawn uniformly from the full preference list.
func NegotiateRoles(prefs []core.RolePreference, rng *rand.Rand) (string, []string, error) {
	if len(prefs) < 2 {
		return "", nil, core.ErrInsufficientAgents(len(prefs), 2)
	}

	var candidates []core.RolePreference
	for _, p := range prefs {
		if p.Role == core.RoleJudge {
			candidates = append(candidates, p)
		}
	}

	var judgeID string
	if len(candidates) > 0 {
		judgeID = weightedPick(candidates, rng)
	} else {
		judgeID = prefs[rng.Intn(len(prefs))].AgentID
	}

	solverIDs := make([]string, 0, len(prefs)-1)
	for _, p := range prefs {
		if p.AgentID != judgeID {
			solverIDs = append(solverIDs, p.AgentID)
		}
	}

	return judgeID, solverIDs, nil
}

// weightedPick draws one preference with probability proportional to
// confidence. Zero-weight entries are never drawn while any positive weight
// exists; all-zero weights degenerate to a uniform draw.
func weightedPick(pool []core.RolePreference, rng *rand.Rand) string {
	total := 0.0
	for _, p := range pool {
		total += p.Confidence
	}
	if total <= 0 {
		return pool[rng.Intn(len(pool))].AgentID
	}

	r := rng.Float64() * total
	cum := 0.0
	last := ""
	for _, p := range pool {
		if p.Confidence <= 0 {
			continue
		}
		cum += p.Confidence
		last = p.AgentID
		if r < cum {
			return p.AgentID
		}
	}
	return last
}
