package debate

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/hugo-lorenzo-mato/agora/internal/core"
	"github.com/hugo-lorenzo-mato/agora/internal/logging"
	"github.com/hugo-lorenzo-mato/agora/internal/service"
	"golang.org/x/sync/errgroup"
)

// Coordinator drives one problem through the fixed debate sequence:
// roles, solve, review, refine, judge, grade. Stages run strictly in order;
// within a stage, independent calls may run concurrently up to the
// configured limit. There are no retries at this level. A failure that
// survives the gateway's retries aborts the problem.
type Coordinator struct {
	gw          *Gateway
	prompts     *service.PromptRenderer
	log         *logging.Logger
	rng         *rand.Rand
	graderAgent string
	maxParallel int
	now         func() time.Time
	newID       func() string
}

// CoordinatorOption customizes a coordinator.
type CoordinatorOption func(*Coordinator)

// WithRand sets the random source used for judge selection. Intended for
// deterministic tests.
func WithRand(rng *rand.Rand) CoordinatorOption {
	return func(c *Coordinator) {
		c.rng = rng
	}
}

// WithClock sets the timestamp source. Intended for tests.
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) {
		c.now = now
	}
}

// WithMaxConcurrent bounds in-flight backend calls within a stage.
// 1 reproduces strictly sequential execution.
func WithMaxConcurrent(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n >= 1 {
			c.maxParallel = n
		}
	}
}

// NewCoordinator creates a coordinator. graderAgent names the persona used
// for the grading call; it must be registered in the gateway's roster.
func NewCoordinator(gw *Gateway, prompts *service.PromptRenderer, graderAgent string, log *logging.Logger, opts ...CoordinatorOption) *Coordinator {
	if log == nil {
		log = logging.NewNop()
	}
	c := &Coordinator{
		gw:          gw,
		prompts:     prompts,
		log:         log,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		graderAgent: graderAgent,
		maxParallel: 1,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StageError wraps a failure with the stage it occurred in.
type StageError struct {
	Stage core.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage core.Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// Run executes the full debate for one problem and returns its audit record.
// On failure the returned error carries the stage it occurred in.
func (c *Coordinator) Run(ctx context.Context, problem core.Problem) (*core.DebateRecord, error) {
	log := c.log.WithProblem(problem.ID)
	log.Info("debate started", "question", truncate(problem.Question, 120))

	record := &core.DebateRecord{
		DebateID:    c.newID(),
		ProblemID:   problem.ID,
		Category:    problem.Category,
		Difficulty:  problem.Difficulty,
		Question:    problem.Question,
		GroundTruth: problem.GroundTruth,
	}

	// Stage 1: role negotiation.
	prefs, err := c.collectPreferences(ctx, problem.Question, log)
	if err != nil {
		return nil, stageErr(core.StageRoles, err)
	}
	judgeID, solverIDs, err := NegotiateRoles(prefs, c.rng)
	if err != nil {
		return nil, stageErr(core.StageRoles, err)
	}
	if len(solverIDs) < 2 {
		return nil, stageErr(core.StageRoles, core.ErrInsufficientAgents(len(solverIDs)+1, 3))
	}
	record.RolePreferences = prefs
	record.JudgeID = judgeID
	record.SolverIDs = solverIDs
	log.Info("roles assigned", "judge", judgeID, "solvers", solverIDs)

	// Stage 2: independent solutions.
	solutions, err := c.solveAll(ctx, problem.Question, solverIDs, log)
	if err != nil {
		return nil, stageErr(core.StageSolve, err)
	}
	record.InitialSolutions = solutions

	// Stage 3: round-robin peer review.
	reviews, err := c.reviewAll(ctx, problem.Question, solverIDs, solutions, log)
	if err != nil {
		return nil, stageErr(core.StageReview, err)
	}
	record.Reviews = reviews

	// Stage 4: feedback-conditioned refinement.
	refined, err := c.refineAll(ctx, problem.Question, solverIDs, solutions, reviews, log)
	if err != nil {
		return nil, stageErr(core.StageRefine, err)
	}
	record.RefinedSolutions = refined

	// Stage 5: judge verdict.
	verdict, err := c.judge(ctx, problem.Question, judgeID, solverIDs, solutions, reviews, refined, log)
	if err != nil {
		return nil, stageErr(core.StageJudge, err)
	}
	record.Verdict = verdict
	log.Info("verdict reached", "best_solver", verdict.BestSolverID)

	// Grading pass over the judge's final answer.
	evaluation, err := c.grade(ctx, problem.Question, problem.GroundTruth, verdict.FinalAnswerToUser, log)
	if err != nil {
		return nil, stageErr(core.StageGrade, err)
	}
	record.Evaluation = evaluation
	record.Timestamp = c.now().UTC()

	log.Info("debate complete", "correct", evaluation.IsCorrect)
	return record, nil
}

// forEach runs fn once per index with bounded concurrency. Callers write
// outputs by index, so completion order never affects results.
func (c *Coordinator) forEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxParallel)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return fn(ctx, i)
		})
	}
	return g.Wait()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
