package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Dan9191/aurora/internal/config"
)

// OpenRouter talks to an OpenAI-compatible chat completions endpoint.
type OpenRouter struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenRouter creates an OpenRouter provider from configuration.
func NewOpenRouter(cfg *config.Config) *OpenRouter {
	return &OpenRouter{
		apiKey:  cfg.OpenRouterAPIKey,
		model:   cfg.OpenRouterModel,
		baseURL: strings.TrimRight(cfg.OpenRouterURL, "/"),
		client:  newHTTPClient(),
	}
}

func (p *OpenRouter) Name() string { return config.ProviderOpenRouter }

type openRouterRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type openRouterResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete implements Provider.
func (p *OpenRouter) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("openrouter: OPENROUTER_API_KEY is not set")
	}
	req := openRouterRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	}
	headers := map[string]string{
		"Authorization": "Bearer " + p.apiKey,
		"X-Title":       "Aurora Finance",
	}

	var resp openRouterResponse
	if err := postJSON(ctx, p.client, p.baseURL+"/chat/completions", headers, req, &resp); err != nil {
		return "", fmt.Errorf("openrouter: %w", err)
	}
	if len(resp.Choices) == 0 {
		return FallbackReply, nil
	}
	return replyOrFallback(resp.Choices[0].Message.Content), nil
}
