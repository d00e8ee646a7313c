package debate

import (
	"context"
	"fmt"
	"sync"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
	"github.com/hugo-lorenzo-mato/agora/internal/logging"
	"github.com/hugo-lorenzo-mato/agora/internal/service"
)

// stubBackend is a scripted backend. respond is called with each request;
// all requests are recorded for inspection.
type stubBackend struct {
	mu      sync.Mutex
	calls   []core.CompletionRequest
	respond func(req core.CompletionRequest) (string, error)
}

func (s *stubBackend) Name() string  { return "stub" }
func (s *stubBackend) Model() string { return "stub-model" }

func (s *stubBackend) Complete(_ context.Context, req core.CompletionRequest) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()
	return s.respond(req)
}

func (s *stubBackend) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubBackend) callsFor(kind core.ResultKind) []core.CompletionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.CompletionRequest
	for _, c := range s.calls {
		if c.Schema == kind {
			out = append(out, c)
		}
	}
	return out
}

// happyResponder scripts a clean four-stage debate: judgeRequester asks for
// the Judge role with high confidence, everyone else solves, all answers
// are "4", the verdict picks bestSolver, and grading marks it correct.
func happyResponder(judgeRequester, bestSolver string) func(core.CompletionRequest) (string, error) {
	return func(req core.CompletionRequest) (string, error) {
		switch req.Schema {
		case core.KindRolePreference:
			role := "Solver"
			confidence := 0.8
			if req.AgentID == judgeRequester {
				role = "Judge"
				confidence = 0.9
			}
			return fmt.Sprintf(`{"agent_id":%q,"role_priority":%q,"confidence":%g,"reasoning":"fits my strengths"}`,
				req.AgentID, role, confidence), nil
		case core.KindSolution:
			return `{"solution_text":"Add the two terms.","final_answer":"4"}`, nil
		case core.KindPeerReview:
			return `{"reviewer_id":"r","target_solver_id":"t","strengths":["clear"],"weaknesses":[],"errors":[],"score":8}`, nil
		case core.KindRefinedSolution:
			return `{"changes_made":"none needed","solution_text":"Add the two terms.","final_answer":"4"}`, nil
		case core.KindJudgeVerdict:
			return fmt.Sprintf(`{"best_solver_id":%q,"rationale":"cleanest reasoning","final_answer_to_user":"4"}`, bestSolver), nil
		case core.KindEvaluation:
			return `{"is_correct":true,"reasoning":"matches ground truth"}`, nil
		}
		return "", fmt.Errorf("unscripted schema %q", req.Schema)
	}
}

func fourPersonas() map[string]string {
	return map[string]string{
		"A": "You reason with rigid formal logic.",
		"B": "You explore unconventional angles first.",
		"C": "You favor simple, practical approaches.",
		"D": "You weigh and synthesize perspectives.",
	}
}

// fastRetry keeps test retries near-instant.
func fastRetry() *service.RetryPolicy {
	return service.NewRetryPolicy(
		service.WithBaseDelay(1),
		service.WithMaxDelay(2),
		service.WithJitter(0),
	)
}

func newTestCoordinator(backend core.Backend, personas map[string]string, opts ...CoordinatorOption) *Coordinator {
	registry, err := NewRegistry(personas)
	if err != nil {
		panic(err)
	}
	prompts, err := service.NewPromptRenderer()
	if err != nil {
		panic(err)
	}
	gw := NewGateway(backend, registry, fastRetry(), 0, logging.NewNop())
	return NewCoordinator(gw, prompts, "D", logging.NewNop(), opts...)
}

// memStore records every snapshot Save receives.
type memStore struct {
	mu    sync.Mutex
	saves [][]core.RunResult
}

func (s *memStore) Save(_ context.Context, results []core.RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]core.RunResult, len(results))
	copy(snapshot, results)
	s.saves = append(s.saves, snapshot)
	return nil
}

func (s *memStore) Load(_ context.Context) ([]core.RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saves) == 0 {
		return nil, nil
	}
	return s.saves[len(s.saves)-1], nil
}

// memProblems serves a fixed problem list.
type memProblems struct {
	list []core.Problem
}

func (p *memProblems) Load(context.Context) ([]core.Problem, error) {
	return p.list, nil
}
