package backend

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/hugo-lorenzo-mato/agora/internal/core"
)

// Gemini implements core.Backend over the Google GenAI API with
// schema-constrained JSON output.
type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
}

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float64
}

// NewGemini creates a Gemini backend.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, core.ErrValidation("BACKEND_CONFIG", "gemini API key is empty")
	}
	if cfg.Model == "" {
		return nil, core.ErrValidation("BACKEND_CONFIG", "gemini model name is empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, core.ErrBackendCall("creating gemini client").WithCause(err)
	}

	return &Gemini{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
	}, nil
}

// Name returns the backend identifier.
func (g *Gemini) Name() string { return "gemini" }

// Model returns the target model name.
func (g *Gemini) Model() string { return g.model }

// Complete performs one schema-constrained generation call.
func (g *Gemini) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	schema, err := schemaFor(req.Schema)
	if err != nil {
		return "", err
	}

	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
		Temperature:      genai.Ptr(g.temperature),
	}
	if req.Instruction != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.Instruction, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)},
		genCfg)
	if err != nil {
		return "", core.ErrBackendCall("generation request failed").WithCause(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", core.ErrMalformedResponse("backend returned an empty response")
	}

	return stripFences(text), nil
}

// stripFences removes a markdown code fence if the model wrapped its JSON
// in one despite the response MIME type.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
