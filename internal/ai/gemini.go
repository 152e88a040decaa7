package ai

import (
	"context"
	"fmt"

	"github.com/Dan9191/aurora/internal/config"
	"google.golang.org/genai"
)

// Gemini calls the Gemini API through the genai SDK.
type Gemini struct {
	apiKey string
	model  string
}

// NewGemini creates a Gemini provider from configuration.
func NewGemini(cfg *config.Config) *Gemini {
	return &Gemini{apiKey: cfg.GeminiAPIKey, model: cfg.GeminiModel}
}

func (p *Gemini) Name() string { return config.ProviderGemini }

// Complete implements Provider.
func (p *Gemini) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("gemini: GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("gemini: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: userMessage}},
		},
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
	}

	resp, err := client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	return replyOrFallback(resp.Text()), nil
}
