package backend

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
)

// schemaFor maps a result kind to the response schema the backend must
// conform to. Field names and enums mirror the core types exactly.
func schemaFor(kind core.ResultKind) (*genai.Schema, error) {
	switch kind {
	case core.KindRolePreference:
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"agent_id":      {Type: genai.TypeString},
				"role_priority": {Type: genai.TypeString, Enum: []string{"Solver", "Judge"}},
				"confidence":    {Type: genai.TypeNumber},
				"reasoning":     {Type: genai.TypeString},
			},
			Required: []string{"agent_id", "role_priority", "confidence", "reasoning"},
		}, nil

	case core.KindSolution:
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"solution_text": {Type: genai.TypeString},
				"final_answer":  {Type: genai.TypeString},
			},
			Required: []string{"solution_text", "final_answer"},
		}, nil

	case core.KindPeerReview:
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"reviewer_id":      {Type: genai.TypeString},
				"target_solver_id": {Type: genai.TypeString},
				"strengths":        {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"weaknesses":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"errors": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"location":    {Type: genai.TypeString},
							"description": {Type: genai.TypeString},
							"severity":    {Type: genai.TypeString, Enum: []string{"minor", "critical"}},
						},
						Required: []string{"location", "description", "severity"},
					},
				},
				"score": {Type: genai.TypeInteger},
			},
			Required: []string{"reviewer_id", "target_solver_id", "strengths", "weaknesses", "errors", "score"},
		}, nil

	case core.KindRefinedSolution:
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"changes_made":  {Type: genai.TypeString},
				"solution_text": {Type: genai.TypeString},
				"final_answer":  {Type: genai.TypeString},
			},
			Required: []string{"changes_made", "solution_text", "final_answer"},
		}, nil

	case core.KindJudgeVerdict:
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"best_solver_id":       {Type: genai.TypeString},
				"rationale":            {Type: genai.TypeString},
				"final_answer_to_user": {Type: genai.TypeString},
			},
			Required: []string{"best_solver_id", "rationale", "final_answer_to_user"},
		}, nil

	case core.KindEvaluation:
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"is_correct": {Type: genai.TypeBoolean},
				"reasoning":  {Type: genai.TypeString},
			},
			Required: []string{"is_correct", "reasoning"},
		}, nil
	}

	return nil, core.ErrValidation("UNSUPPORTED_SCHEMA",
		fmt.Sprintf("no response schema for result kind %q", kind))
}
