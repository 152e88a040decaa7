// Package ai answers user questions about their finances with a language
// model, grounding every answer in a snapshot of the user's own data.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// FallbackReply is returned when a backend produces no text.
const FallbackReply = "No pude generar una respuesta."

// ErrProviderUnavailable wraps failures talking to a model backend.
var ErrProviderUnavailable = errors.New("assistant provider unavailable")

// Provider sends one system prompt and one user message to a model and
// returns the model's reply.
type Provider interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}

// postJSON sends body to url and decodes a 200 response into out. Other
// statuses become errors carrying the server's message when it sent one.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, errorMessage(raw, resp.Status))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage extracts {"error":{"message":...}} or {"error":"..."} bodies.
func errorMessage(raw []byte, status string) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &nested) == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}
	var flat struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &flat) == nil && flat.Error != "" {
		return flat.Error
	}
	return status
}

func replyOrFallback(s string) string {
	if strings.TrimSpace(s) == "" {
		return FallbackReply
	}
	return s
}
