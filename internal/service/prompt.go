package service

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"text/template"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
)

//go:embed prompts/*.md.tmpl
var promptsFS embed.FS

// PromptRenderer renders stage prompts from templates.
type PromptRenderer struct {
	templates map[string]*template.Template
	mu        sync.RWMutex
}

// NewPromptRenderer creates a new prompt renderer.
func NewPromptRenderer() (*PromptRenderer, error) {
	r := &PromptRenderer{
		templates: make(map[string]*template.Template),
	}

	if err := r.loadTemplates(); err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	return r, nil
}

// loadTemplates loads all templates from the embedded filesystem.
func (r *PromptRenderer) loadTemplates() error {
	return fs.WalkDir(promptsFS, "prompts", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, ".md.tmpl") {
			return nil
		}

		content, err := promptsFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		name := strings.TrimPrefix(path, "prompts/")
		name = strings.TrimSuffix(name, ".md.tmpl")

		tmpl, err := template.New(name).Funcs(templateFuncs()).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}

		r.templates[name] = tmpl
		return nil
	})
}

// templateFuncs returns custom template functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"join":      strings.Join,
		"trimSpace": strings.TrimSpace,
		"add":       func(a, b int) int { return a + b },
		"joinOr": func(items []string, fallback string) string {
			if len(items) == 0 {
				return fallback
			}
			return strings.Join(items, ", ")
		},
	}
}

// render executes a named template.
func (r *PromptRenderer) render(name string, params any) (string, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("unknown prompt template: %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}

	return buf.String(), nil
}

// RolePreferenceParams parameterizes the role-preference prompt.
type RolePreferenceParams struct {
	AgentID  string
	Question string
}

// RenderRolePreference renders the role-preference prompt.
func (r *PromptRenderer) RenderRolePreference(params RolePreferenceParams) (string, error) {
	return r.render("role-preference", params)
}

// SolveParams parameterizes the independent-solution prompt.
type SolveParams struct {
	Question string
}

// RenderSolve renders the solution prompt.
func (r *PromptRenderer) RenderSolve(params SolveParams) (string, error) {
	return r.render("solve", params)
}

// ReviewParams parameterizes the peer-review prompt.
type ReviewParams struct {
	ReviewerID     string
	TargetSolverID string
	Question       string
	Solution       core.Solution
}

// RenderReview renders the peer-review prompt.
func (r *PromptRenderer) RenderReview(params ReviewParams) (string, error) {
	return r.render("review", params)
}

// RefineParams parameterizes the refinement prompt.
type RefineParams struct {
	Question string
	Original core.Solution
	Reviews  []core.PeerReview
}

// RenderRefine renders the refinement prompt.
func (r *PromptRenderer) RenderRefine(params RefineParams) (string, error) {
	return r.render("refine", params)
}

// JudgeSolverSection is one solver's full history for the judge prompt.
type JudgeSolverSection struct {
	SolverID string
	Initial  core.Solution
	Reviews  []core.PeerReview
	Refined  core.RefinedSolution
}

// JudgeParams parameterizes the verdict prompt.
type JudgeParams struct {
	Question string
	Solvers  []JudgeSolverSection
}

// RenderJudge renders the verdict prompt.
func (r *PromptRenderer) RenderJudge(params JudgeParams) (string, error) {
	return r.render("judge", params)
}

// GradeParams parameterizes the grading prompt.
type GradeParams struct {
	Question    string
	GroundTruth string
	FinalAnswer string
}

// RenderGrade renders the grading prompt.
func (r *PromptRenderer) RenderGrade(params GradeParams) (string, error) {
	return r.render("grade", params)
}
