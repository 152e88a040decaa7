package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/aurora/internal/config"
	"github.com/Dan9191/aurora/internal/integrations/fx"
	"github.com/Dan9191/aurora/internal/ledger"
	"github.com/Dan9191/aurora/internal/models"
	"github.com/Dan9191/aurora/internal/repository"
	"github.com/sirupsen/logrus"
)

// RateSource supplies exchange rates for net worth conversion.
type RateSource interface {
	Enabled() bool
	Rates(ctx context.Context) (*fx.Rates, error)
}

// ReminderSender delivers upcoming-billing reminders.
type ReminderSender interface {
	SendSubscriptionReminder(r *models.SubscriptionReminder) error
}

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	ledger *ledger.Ledger
	rates  RateSource
	mailer ReminderSender
	log    *logrus.Logger
	config *config.Config
	now    func() time.Time
}

// NewService initializes a new service. rates and mailer may be nil.
func NewService(repo *repository.Repository, led *ledger.Ledger, rates RateSource, mailer ReminderSender,
	log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:   repo,
		ledger: led,
		rates:  rates,
		mailer: mailer,
		log:    log,
		config: cfg,
		now:    time.Now,
	}
}

// today returns the start of the current UTC day.
func (s *Service) today() time.Time {
	t := s.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", models.ErrValidation, fmt.Sprintf(format, args...))
}

// normalizeCurrency upper-cases code and falls back to the base currency.
func (s *Service) normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return s.config.BaseCurrency, nil
	}
	if len(code) != 3 {
		return "", validationError("currency must be a three-letter code")
	}
	return code, nil
}
