package service

import (
	"context"
	"strings"

	"github.com/Dan9191/aurora/internal/models"
)

// ListSubscriptions returns the user's subscriptions by next billing date
func (s *Service) ListSubscriptions(ctx context.Context, userID int64) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptions(ctx, userID)
}

// CreateSubscription records a recurring charge
func (s *Service) CreateSubscription(ctx context.Context, userID int64, in models.SubscriptionInput) (*models.Subscription, error) {
	sub := &models.Subscription{
		UserID:   userID,
		Period:   models.PeriodMonthly,
		Currency: s.config.BaseCurrency,
		IsActive: true,
	}
	if in.Name == nil {
		return nil, validationError("name is required")
	}
	if in.Amount == nil {
		return nil, validationError("amount is required")
	}
	if in.NextBillingDate == nil || in.NextBillingDate.IsZero() {
		return nil, validationError("nextBillingDate is required")
	}
	if err := s.applySubscriptionInput(sub, in); err != nil {
		return nil, err
	}

	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	s.log.Infof("Subscription %d created for user %d", sub.ID, userID)
	return sub, nil
}

// UpdateSubscription applies a partial update to a subscription
func (s *Service) UpdateSubscription(ctx context.Context, userID, subID int64, in models.SubscriptionInput) (*models.Subscription, error) {
	sub, err := s.repo.FindSubscription(ctx, subID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.applySubscriptionInput(sub, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// DeleteSubscription removes a subscription
func (s *Service) DeleteSubscription(ctx context.Context, userID, subID int64) error {
	return s.repo.DeleteSubscription(ctx, subID, userID)
}

func (s *Service) applySubscriptionInput(sub *models.Subscription, in models.SubscriptionInput) error {
	if in.Name != nil {
		if sub.Name = strings.TrimSpace(*in.Name); sub.Name == "" {
			return validationError("name is required")
		}
	}
	if in.Amount != nil {
		if !in.Amount.IsPositive() {
			return validationError("amount must be greater than zero")
		}
		if err := models.CheckAmount("amount", *in.Amount); err != nil {
			return err
		}
		sub.Amount = *in.Amount
	}
	if in.Currency != nil {
		currency, err := s.normalizeCurrency(*in.Currency)
		if err != nil {
			return err
		}
		sub.Currency = currency
	}
	if in.Period != nil {
		if !in.Period.Valid() {
			return validationError("period must be monthly or yearly")
		}
		sub.Period = *in.Period
	}
	if in.NextBillingDate != nil && !in.NextBillingDate.IsZero() {
		sub.NextBillingDate = in.NextBillingDate.Time
	}
	if in.IsActive != nil {
		sub.IsActive = *in.IsActive
	}
	return nil
}
