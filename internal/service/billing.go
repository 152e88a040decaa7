package service

import (
	"context"

	"github.com/sirupsen/logrus"
)

// BillingReport summarizes one billing sweep.
type BillingReport struct {
	Advanced int `json:"advanced"`
	Reminded int `json:"reminded"`
	Failures int `json:"failures"`
}

// AdvanceBillingDates moves every active subscription whose billing date has
// passed forward by whole periods until the date is today or later.
func (s *Service) AdvanceBillingDates(ctx context.Context) (int, error) {
	today := s.today()
	lapsed, err := s.repo.ListLapsedSubscriptions(ctx, today)
	if err != nil {
		return 0, err
	}

	advanced := 0
	for _, sub := range lapsed {
		next := sub.NextBillingDate
		for next.Before(today) {
			next = sub.Period.Next(next)
		}
		if err := s.repo.SetNextBillingDate(ctx, sub.ID, next); err != nil {
			return advanced, err
		}
		s.log.WithFields(logrus.Fields{
			"subscription_id": sub.ID,
			"next_billing":    next.Format("2006-01-02"),
		}).Debug("Billing date advanced")
		advanced++
	}
	return advanced, nil
}

// SendBillingReminders emails the owners of subscriptions billed exactly
// ReminderDays from today. It is a no-op without a configured mailer.
func (s *Service) SendBillingReminders(ctx context.Context) (sent, failed int, err error) {
	if s.mailer == nil {
		return 0, 0, nil
	}
	from := s.today().AddDate(0, 0, s.config.ReminderDays)
	reminders, err := s.repo.ListBillingBetween(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return 0, 0, err
	}

	for _, r := range reminders {
		if err := s.mailer.SendSubscriptionReminder(r); err != nil {
			s.log.WithFields(logrus.Fields{"subscription_id": r.ID, "user_id": r.UserID}).
				Errorf("Failed to send billing reminder: %v", err)
			failed++
			continue
		}
		sent++
	}
	return sent, failed, nil
}

// RunBillingSweep advances lapsed billing dates, then sends reminders.
func (s *Service) RunBillingSweep(ctx context.Context) (*BillingReport, error) {
	report := &BillingReport{}
	advanced, err := s.AdvanceBillingDates(ctx)
	report.Advanced = advanced
	if err != nil {
		return report, err
	}
	report.Reminded, report.Failures, err = s.SendBillingReminders(ctx)
	if err != nil {
		return report, err
	}

	s.log.WithFields(logrus.Fields{
		"advanced": report.Advanced,
		"reminded": report.Reminded,
		"failures": report.Failures,
	}).Info("Billing sweep finished")
	return report, nil
}
