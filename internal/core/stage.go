package core

// Stage represents a step in the fixed debate sequence.
type Stage string

const (
	// StageRoles is the first stage where agents declare role preferences
	// and exactly one judge is assigned.
	StageRoles Stage = "roles"

	// StageSolve is the independent solution stage. Solvers never see each
	// other's work here.
	StageSolve Stage = "solve"

	// StageReview is the round-robin peer review stage. Every ordered
	// (reviewer, target) pair among solvers produces one review.
	StageReview Stage = "review"

	// StageRefine is the feedback-conditioned refinement stage.
	StageRefine Stage = "refine"

	// StageJudge is the verdict stage where the judge observes the full
	// debate and selects the best solver.
	StageJudge Stage = "judge"

	// StageGrade compares the judge's final answer against ground truth.
	StageGrade Stage = "grade"

	// StageComplete is the terminal state after grading.
	StageComplete Stage = "complete"
)

// AllStages returns the executable stages in order.
func AllStages() []Stage {
	return []Stage{StageRoles, StageSolve, StageReview, StageRefine, StageJudge, StageGrade}
}

// NextStage returns the stage following the given stage.
// Returns empty string past the end.
func NextStage(s Stage) Stage {
	switch s {
	case StageRoles:
		return StageSolve
	case StageSolve:
		return StageReview
	case StageReview:
		return StageRefine
	case StageRefine:
		return StageJudge
	case StageJudge:
		return StageGrade
	case StageGrade:
		return StageComplete
	default:
		return ""
	}
}

// IsValid reports whether s is a known stage.
func (s Stage) IsValid() bool {
	switch s {
	case StageRoles, StageSolve, StageReview, StageRefine, StageJudge, StageGrade, StageComplete:
		return true
	}
	return false
}
