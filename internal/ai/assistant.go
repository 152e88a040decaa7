package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/aurora/internal/config"
	"github.com/Dan9191/aurora/internal/models"
	"github.com/sirupsen/logrus"
)

// FinanceSource supplies the data an answer is grounded in.
type FinanceSource interface {
	Me(ctx context.Context, userID int64) (*models.User, error)
	Dashboard(ctx context.Context, userID int64) (*models.Dashboard, error)
}

// Assistant answers questions about a user's finances.
type Assistant struct {
	source          FinanceSource
	providers       map[string]Provider
	defaultProvider string
	currency        string
	log             *logrus.Logger
	now             func() time.Time
}

// NewProviders returns every backend the configuration can describe.
func NewProviders(cfg *config.Config) []Provider {
	return []Provider{NewOpenRouter(cfg), NewOllama(cfg), NewGemini(cfg)}
}

// NewAssistant creates an assistant over the given backends. Requests use the
// user's preferred backend, or cfg.AIProvider when the user has none.
func NewAssistant(source FinanceSource, cfg *config.Config, log *logrus.Logger, providers ...Provider) *Assistant {
	byName := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Assistant{
		source:          source,
		providers:       byName,
		defaultProvider: cfg.AIProvider,
		currency:        cfg.BaseCurrency,
		log:             log,
		now:             time.Now,
	}
}

// Chat answers message for userID.
func (a *Assistant) Chat(ctx context.Context, userID int64, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: message must not be empty", models.ErrValidation)
	}

	user, err := a.source.Me(ctx, userID)
	if err != nil {
		return "", err
	}
	provider, err := a.providerFor(user)
	if err != nil {
		return "", err
	}

	dashboard, err := a.source.Dashboard(ctx, userID)
	if err != nil {
		return "", err
	}
	prompt, err := RenderSystemPrompt(dashboard, a.currency, a.now().UTC())
	if err != nil {
		return "", err
	}

	start := time.Now()
	reply, err := provider.Complete(ctx, prompt, message)
	if err != nil {
		a.log.WithFields(logrus.Fields{"user_id": userID, "provider": provider.Name()}).
			Errorf("Assistant request failed: %v", err)
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	a.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"provider": provider.Name(),
		"duration": time.Since(start).String(),
	}).Info("Assistant replied")
	return replyOrFallback(reply), nil
}

func (a *Assistant) providerFor(user *models.User) (Provider, error) {
	name := a.defaultProvider
	if user.AIProvider != "" {
		name = user.AIProvider
	}
	p, ok := a.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: AI provider %q is not supported", ErrProviderUnavailable, name)
	}
	return p, nil
}
