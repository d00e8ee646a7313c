package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestRolePreference_Validate(t *testing.T) {
	valid := RolePreference{AgentID: "A", Role: RoleJudge, Confidence: 0.9, Reasoning: "r"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid preference rejected: %v", err)
	}

	cases := []RolePreference{
		{Role: RoleJudge, Confidence: 0.5},               // missing agent id
		{AgentID: "A", Role: "Referee", Confidence: 0.5}, // unknown role
		{AgentID: "A", Role: RoleSolver, Confidence: 1.2},
		{AgentID: "A", Role: RoleSolver, Confidence: -0.1},
	}
	for i, c := range cases {
		err := c.Validate()
		if err == nil {
			t.Fatalf("case %d: expected validation failure", i)
		}
		if !errors.Is(err, &DomainError{Category: ErrCatResponse, Code: CodeMalformedResponse}) {
			t.Fatalf("case %d: expected malformed-response error, got %v", i, err)
		}
	}
}

func TestPeerReview_Validate(t *testing.T) {
	valid := PeerReview{
		ReviewerID:     "B",
		TargetSolverID: "C",
		Strengths:      []string{"clear"},
		Errors:         []CritiqueError{{Location: "Step 2", Description: "off by one", Severity: SeverityMinor}},
		Score:          7,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid review rejected: %v", err)
	}

	selfReview := valid
	selfReview.TargetSolverID = "B"
	if selfReview.Validate() == nil {
		t.Fatalf("self-review must be rejected")
	}

	badScore := valid
	badScore.Score = 11
	if badScore.Validate() == nil {
		t.Fatalf("score above 10 must be rejected")
	}

	badSeverity := valid
	badSeverity.Errors = []CritiqueError{{Location: "x", Description: "y", Severity: "fatal"}}
	if badSeverity.Validate() == nil {
		t.Fatalf("unknown severity must be rejected")
	}
}

func TestStageSequence(t *testing.T) {
	want := []Stage{StageRoles, StageSolve, StageReview, StageRefine, StageJudge, StageGrade}
	got := AllStages()
	if len(got) != len(want) {
		t.Fatalf("AllStages() length = %d, want %d", len(got), len(want))
	}
	for i, s := range want {
		if got[i] != s {
			t.Fatalf("stage %d = %s, want %s", i, got[i], s)
		}
	}
	cur := StageRoles
	for range want {
		next := NextStage(cur)
		if next == "" {
			t.Fatalf("unexpected end of sequence after %s", cur)
		}
		cur = next
	}
	if cur != StageComplete {
		t.Fatalf("sequence ends at %s, want %s", cur, StageComplete)
	}
}

func TestRunResult_JSONRoundTrip(t *testing.T) {
	rec := &DebateRecord{
		DebateID:         "d-1",
		ProblemID:        7,
		Question:         "What is 2+2?",
		GroundTruth:      "4",
		JudgeID:          "A",
		SolverIDs:        []string{"B", "C", "D"},
		InitialSolutions: map[string]Solution{"B": {SolutionText: "t", FinalAnswer: "4"}},
		Reviews:          map[string][]PeerReview{},
		RefinedSolutions: map[string]RefinedSolution{},
		Verdict:          JudgeVerdict{BestSolverID: "B", Rationale: "r", FinalAnswerToUser: "4"},
		Evaluation:       EvaluationResult{IsCorrect: true, Reasoning: "matches"},
		Timestamp:        time.Now().UTC(),
	}
	marker := &ErrorMarker{ProblemID: 8, Stage: StageGrade, Error: "backend down", Timestamp: time.Now().UTC()}

	data, err := json.Marshal([]RunResult{{Record: rec}, {Marker: marker}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var restored []RunResult
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(restored) != 2 {
		t.Fatalf("restored %d entries, want 2", len(restored))
	}
	if restored[0].Failed() || restored[0].Record == nil || restored[0].ProblemID() != 7 {
		t.Fatalf("first entry should be a record for problem 7")
	}
	if !restored[1].Failed() || restored[1].Marker.Error != "backend down" {
		t.Fatalf("second entry should be an error marker")
	}
}
