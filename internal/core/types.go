package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role is a debate role an agent can hold.
type Role string

const (
	RoleSolver Role = "Solver"
	RoleJudge  Role = "Judge"
)

// Severity classifies an error found during peer review.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityCritical Severity = "critical"
)

// ResultKind names a structured-output schema expected from the backend.
// Backend adapters use it to request schema-conforming generation.
type ResultKind string

const (
	KindRolePreference  ResultKind = "role_preference"
	KindSolution        ResultKind = "solution"
	KindPeerReview      ResultKind = "peer_review"
	KindRefinedSolution ResultKind = "refined_solution"
	KindJudgeVerdict    ResultKind = "judge_verdict"
	KindEvaluation      ResultKind = "evaluation"
)

// StageResult is implemented by every structured value the backend can
// return. Kind selects the response schema; Validate enforces it after
// decoding.
type StageResult interface {
	Kind() ResultKind
	Validate() error
}

// AgentPersona binds an agent identifier to a fixed reasoning-style
// instruction. Personas are immutable once registered.
type AgentPersona struct {
	ID          string `json:"id"`
	Instruction string `json:"instruction"`
}

// RolePreference is an agent's self-reported role preference for a problem.
type RolePreference struct {
	AgentID    string  `json:"agent_id"`
	Role       Role    `json:"role_priority"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

func (RolePreference) Kind() ResultKind { return KindRolePreference }

// Validate enforces the role preference schema.
func (p RolePreference) Validate() error {
	if p.AgentID == "" {
		return ErrMalformedResponse("role preference missing agent_id")
	}
	if p.Role != RoleSolver && p.Role != RoleJudge {
		return ErrMalformedResponse(fmt.Sprintf("role preference has unknown role %q", p.Role))
	}
	if p.Confidence < 0.0 || p.Confidence > 1.0 {
		return ErrMalformedResponse(fmt.Sprintf("confidence %.3f outside [0.0, 1.0]", p.Confidence))
	}
	return nil
}

// Solution is a solver's independent answer to a problem.
type Solution struct {
	SolutionText string `json:"solution_text"`
	FinalAnswer  string `json:"final_answer"`
}

func (Solution) Kind() ResultKind { return KindSolution }

// Validate enforces the solution schema.
func (s Solution) Validate() error {
	if s.SolutionText == "" {
		return ErrMalformedResponse("solution missing solution_text")
	}
	if s.FinalAnswer == "" {
		return ErrMalformedResponse("solution missing final_answer")
	}
	return nil
}

// CritiqueError is a specific flaw identified in a solution.
type CritiqueError struct {
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// PeerReview is one solver's critique of another solver's solution.
type PeerReview struct {
	ReviewerID     string          `json:"reviewer_id"`
	TargetSolverID string          `json:"target_solver_id"`
	Strengths      []string        `json:"strengths"`
	Weaknesses     []string        `json:"weaknesses"`
	Errors         []CritiqueError `json:"errors"`
	Score          int             `json:"score"`
}

func (PeerReview) Kind() ResultKind { return KindPeerReview }

// Validate enforces the peer review schema. A reviewer never reviews itself.
func (r PeerReview) Validate() error {
	if r.ReviewerID == "" || r.TargetSolverID == "" {
		return ErrMalformedResponse("peer review missing reviewer_id or target_solver_id")
	}
	if r.ReviewerID == r.TargetSolverID {
		return ErrMalformedResponse(fmt.Sprintf("reviewer %q cannot review itself", r.ReviewerID))
	}
	if r.Score < 0 || r.Score > 10 {
		return ErrMalformedResponse(fmt.Sprintf("review score %d outside [0, 10]", r.Score))
	}
	for _, e := range r.Errors {
		if e.Severity != SeverityMinor && e.Severity != SeverityCritical {
			return ErrMalformedResponse(fmt.Sprintf("unknown critique severity %q", e.Severity))
		}
	}
	return nil
}

// RefinedSolution is a solver's reworked answer after peer feedback.
type RefinedSolution struct {
	ChangesMade  string `json:"changes_made"`
	SolutionText string `json:"solution_text"`
	FinalAnswer  string `json:"final_answer"`
}

func (RefinedSolution) Kind() ResultKind { return KindRefinedSolution }

// Validate enforces the refined solution schema.
func (s RefinedSolution) Validate() error {
	if s.SolutionText == "" {
		return ErrMalformedResponse("refined solution missing solution_text")
	}
	if s.FinalAnswer == "" {
		return ErrMalformedResponse("refined solution missing final_answer")
	}
	return nil
}

// JudgeVerdict is the judge's final decision over the full debate.
type JudgeVerdict struct {
	BestSolverID      string `json:"best_solver_id"`
	Rationale         string `json:"rationale"`
	FinalAnswerToUser string `json:"final_answer_to_user"`
}

func (JudgeVerdict) Kind() ResultKind { return KindJudgeVerdict }

// Validate enforces the verdict schema. Membership of BestSolverID in the
// solver set is checked by the judge stage, which knows the set.
func (v JudgeVerdict) Validate() error {
	if v.BestSolverID == "" {
		return ErrMalformedResponse("verdict missing best_solver_id")
	}
	if v.FinalAnswerToUser == "" {
		return ErrMalformedResponse("verdict missing final_answer_to_user")
	}
	return nil
}

// EvaluationResult grades a final answer against ground truth.
// Binary correctness only; no partial credit.
type EvaluationResult struct {
	IsCorrect bool   `json:"is_correct"`
	Reasoning string `json:"reasoning"`
}

func (EvaluationResult) Kind() ResultKind { return KindEvaluation }

// Validate enforces the evaluation schema.
func (e EvaluationResult) Validate() error {
	if e.Reasoning == "" {
		return ErrMalformedResponse("evaluation missing reasoning")
	}
	return nil
}

// Problem is one item in the input set.
type Problem struct {
	ID          int    `json:"id" yaml:"id"`
	Question    string `json:"question" yaml:"question"`
	GroundTruth string `json:"ground_truth" yaml:"ground_truth"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	Difficulty  string `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
}

// DebateRecord is the full audit trail of one problem's debate run.
// Assembled incrementally by the coordinator, persisted once, never mutated.
type DebateRecord struct {
	DebateID         string                     `json:"debate_id"`
	ProblemID        int                        `json:"problem_id"`
	Category         string                     `json:"category,omitempty"`
	Difficulty       string                     `json:"difficulty,omitempty"`
	Question         string                     `json:"question"`
	GroundTruth      string                     `json:"ground_truth"`
	RolePreferences  []RolePreference           `json:"role_preferences"`
	JudgeID          string                     `json:"judge_id"`
	SolverIDs        []string                   `json:"solver_ids"`
	InitialSolutions map[string]Solution        `json:"initial_solutions"`
	Reviews          map[string][]PeerReview    `json:"reviews"`
	RefinedSolutions map[string]RefinedSolution `json:"refined_solutions"`
	Verdict          JudgeVerdict               `json:"verdict"`
	Evaluation       EvaluationResult           `json:"evaluation"`
	Timestamp        time.Time                  `json:"timestamp"`
}

// RunResult is one entry in the results log: either a complete DebateRecord
// or an error marker for a failed problem.
type RunResult struct {
	Record *DebateRecord
	Marker *ErrorMarker
}

// ErrorMarker records a problem whose run aborted.
type ErrorMarker struct {
	ProblemID int       `json:"problem_id"`
	Stage     Stage     `json:"stage,omitempty"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// ProblemID returns the problem the entry belongs to.
func (r RunResult) ProblemID() int {
	if r.Record != nil {
		return r.Record.ProblemID
	}
	if r.Marker != nil {
		return r.Marker.ProblemID
	}
	return 0
}

// Failed reports whether the entry is an error marker.
func (r RunResult) Failed() bool {
	return r.Marker != nil
}

// MarshalJSON flattens the entry: a record serializes as the record itself,
// a failure serializes as its marker.
func (r RunResult) MarshalJSON() ([]byte, error) {
	if r.Record != nil {
		return json.Marshal(r.Record)
	}
	if r.Marker != nil {
		return json.Marshal(r.Marker)
	}
	return nil, fmt.Errorf("empty run result")
}

// UnmarshalJSON restores the entry, detecting markers by the error field.
func (r *RunResult) UnmarshalJSON(data []byte) error {
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Error != "" {
		var m ErrorMarker
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		r.Marker = &m
		r.Record = nil
		return nil
	}
	var rec DebateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	r.Record = &rec
	r.Marker = nil
	return nil
}
