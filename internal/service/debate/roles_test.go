package debate

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prefList(entries ...core.RolePreference) []core.RolePreference {
	return entries
}

func TestNegotiateRoles_SoleJudgeCandidate(t *testing.T) {
	prefs := prefList(
		core.RolePreference{AgentID: "A", Role: core.RoleJudge, Confidence: 0.9},
		core.RolePreference{AgentID: "B", Role: core.RoleSolver, Confidence: 0.8},
		core.RolePreference{AgentID: "C", Role: core.RoleSolver, Confidence: 0.7},
		core.RolePreference{AgentID: "D", Role: core.RoleSolver, Confidence: 0.6},
	)

	judgeID, solverIDs, err := NegotiateRoles(prefs, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, "A", judgeID)
	assert.Equal(t, []string{"B", "C", "D"}, solverIDs, "solvers keep original input order")
}

func TestNegotiateRoles_ExactlyOneJudge(t *testing.T) {
	prefs := prefList(
		core.RolePreference{AgentID: "A", Role: core.RoleJudge, Confidence: 0.5},
		core.RolePreference{AgentID: "B", Role: core.RoleJudge, Confidence: 0.5},
		core.RolePreference{AgentID: "C", Role: core.RoleSolver, Confidence: 0.9},
	)

	for seed := int64(0); seed < 50; seed++ {
		judgeID, solverIDs, err := NegotiateRoles(prefs, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)

		assert.Contains(t, []string{"A", "B"}, judgeID,
			"judge must come from the candidate set when candidates exist")
		assert.Len(t, solverIDs, len(prefs)-1)
		assert.NotContains(t, solverIDs, judgeID)
	}
}

func TestNegotiateRoles_NoCandidates_UniformOverAll(t *testing.T) {
	prefs := prefList(
		core.RolePreference{AgentID: "A", Role: core.RoleSolver, Confidence: 0.9},
		core.RolePreference{AgentID: "B", Role: core.RoleSolver, Confidence: 0.1},
		core.RolePreference{AgentID: "C", Role: core.RoleSolver, Confidence: 0.5},
	)

	seen := map[string]bool{}
	for seed := int64(0); seed < 100; seed++ {
		judgeID, _, err := NegotiateRoles(prefs, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		seen[judgeID] = true
	}

	// With no judge candidates, any agent can be drawn.
	assert.Len(t, seen, 3)
}

func TestNegotiateRoles_AllZeroConfidence_UniformFallback(t *testing.T) {
	prefs := prefList(
		core.RolePreference{AgentID: "A", Role: core.RoleJudge, Confidence: 0},
		core.RolePreference{AgentID: "B", Role: core.RoleJudge, Confidence: 0},
		core.RolePreference{AgentID: "C", Role: core.RoleSolver, Confidence: 0.9},
	)

	seen := map[string]bool{}
	for seed := int64(0); seed < 100; seed++ {
		judgeID, _, err := NegotiateRoles(prefs, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		seen[judgeID] = true
		assert.NotEqual(t, "C", judgeID, "uniform fallback stays within the candidate set")
	}
	assert.Len(t, seen, 2, "both zero-confidence candidates remain selectable")
}

func TestNegotiateRoles_ZeroConfidenceCandidateAmongWeighted(t *testing.T) {
	prefs := prefList(
		core.RolePreference{AgentID: "A", Role: core.RoleJudge, Confidence: 0},
		core.RolePreference{AgentID: "B", Role: core.RoleJudge, Confidence: 0.8},
		core.RolePreference{AgentID: "C", Role: core.RoleSolver, Confidence: 0.9},
	)

	for seed := int64(0); seed < 100; seed++ {
		judgeID, _, err := NegotiateRoles(prefs, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		assert.Equal(t, "B", judgeID,
			"a zero-weight candidate is never drawn while positive weights exist")
	}
}

// zeroSource pins rand at its lowest output so Float64 returns exactly 0.
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

func TestWeightedPick_ZeroDrawSkipsZeroWeightHead(t *testing.T) {
	pool := prefList(
		core.RolePreference{AgentID: "A", Role: core.RoleJudge, Confidence: 0},
		core.RolePreference{AgentID: "B", Role: core.RoleJudge, Confidence: 0.8},
	)

	judgeID := weightedPick(pool, rand.New(zeroSource{}))
	assert.Equal(t, "B", judgeID, "a draw of exactly zero lands on the first positive weight")
}

func TestNegotiateRoles_TooFewAgents(t *testing.T) {
	prefs := prefList(
		core.RolePreference{AgentID: "A", Role: core.RoleJudge, Confidence: 0.9},
	)

	_, _, err := NegotiateRoles(prefs, rand.New(rand.NewSource(1)))
	require.Error(t, err)

	var domainErr *core.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, core.CodeInsufficientAgents, domainErr.Code)
}

func TestReviewPairs(t *testing.T) {
	pairs := reviewPairs([]string{"B", "C", "D"})

	require.Len(t, pairs, 6)
	for _, p := range pairs {
		assert.NotEqual(t, p.reviewer, p.target)
	}

	// Reviewer-major enumeration order.
	assert.Equal(t, reviewPair{reviewer: "B", target: "C"}, pairs[0])
	assert.Equal(t, reviewPair{reviewer: "B", target: "D"}, pairs[1])
	assert.Equal(t, reviewPair{reviewer: "C", target: "B"}, pairs[2])
	assert.Equal(t, reviewPair{reviewer: "C", target: "D"}, pairs[3])
	assert.Equal(t, reviewPair{reviewer: "D", target: "B"}, pairs[4])
	assert.Equal(t, reviewPair{reviewer: "D", target: "C"}, pairs[5])
}
