package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/etnz/papertrade"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Gemini is a papertrade.Advisor calling a Gemini model.
type Gemini struct {
	client      *genai.Client
	Model       string
	Temperature float32
	MaxTokens   int32 // 0 lets the model decide
}

var _ papertrade.Advisor = (*Gemini)(nil)

// NewGemini returns an advisor using the Gemini API with apiKey.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing Gemini API key, set GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing Gemini's client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{client: client, Model: model}, nil
}

// Decide implements papertrade.Advisor.
func (g *Gemini) Decide(ctx context.Context, c papertrade.AdvisorContext) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.Temperature),
		MaxOutputTokens: g.MaxTokens,
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.Model, genai.Text(Prompt(c)), config)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from %s", g.Model)
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}
