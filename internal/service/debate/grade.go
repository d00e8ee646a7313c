package debate

import (
	"context"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
	"github.com/hugo-lorenzo-mato/agora/internal/logging"
	"github.com/hugo-lorenzo-mato/agora/internal/service"
)

// grade compares the judge's final answer against ground truth under the
// designated grading persona with the fixed grader instruction override.
// Pure function of (question, ground truth, final answer); nothing else
// from the debate reaches the grader.
func (c *Coordinator) grade(ctx context.Context, question, groundTruth, finalAnswer string, log *logging.Logger) (core.EvaluationResult, error) {
	stageLog := log.WithStage(string(core.StageGrade))

	prompt, err := c.prompts.RenderGrade(service.GradeParams{
		Question:    question,
		GroundTruth: groundTruth,
		FinalAnswer: finalAnswer,
	})
	if err != nil {
		return core.EvaluationResult{}, err
	}

	var eval core.EvaluationResult
	if err := c.gw.Invoke(ctx, c.graderAgent, prompt, &eval, WithInstruction(service.GraderSystemPrompt)); err != nil {
		return core.EvaluationResult{}, err
	}

	stageLog.Debug("evaluation received", "grader", c.graderAgent, "correct", eval.IsCorrect)
	return eval, nil
}
