package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Dan9191/aurora/internal/config"
)

// Ollama talks to a local Ollama server.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllama creates an Ollama provider from configuration.
func NewOllama(cfg *config.Config) *Ollama {
	return &Ollama{
		baseURL: strings.TrimRight(cfg.OllamaBaseURL, "/"),
		model:   cfg.OllamaModel,
		client:  newHTTPClient(),
	}
}

func (p *Ollama) Name() string { return config.ProviderOllama }

type ollamaRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type ollamaResponse struct {
	Message *chatMessage `json:"message"`
}

// Complete implements Provider.
func (p *Ollama) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	req := ollamaRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
	}

	var resp ollamaResponse
	if err := postJSON(ctx, p.client, p.baseURL+"/api/chat", nil, req, &resp); err != nil {
		return "", fmt.Errorf("ollama: %w (is Ollama running at %s?)", err, p.baseURL)
	}
	if resp.Message == nil {
		return FallbackReply, nil
	}
	return replyOrFallback(resp.Message.Content), nil
}
