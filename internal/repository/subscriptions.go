package repository

import (
	"context"
	"time"

	"github.com/Dan9191/aurora/internal/models"
)

const subscriptionColumns = `s.id, s.user_id, s.name, s.amount, s.currency, s.period, s.next_billing_date, s.is_active, s.created_at`

func scanSubscription(s scanner, extra ...any) (*models.Subscription, error) {
	sub := &models.Subscription{}
	dest := append([]any{&sub.ID, &sub.UserID, &sub.Name, major(&sub.Amount), &sub.Currency, &sub.Period,
		&sub.NextBillingDate, &sub.IsActive, &sub.CreatedAt}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	return sub, nil
}

// ListSubscriptions returns the user's subscriptions by next billing date
func (r *Repository) ListSubscriptions(ctx context.Context, userID int64) ([]*models.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions s WHERE s.user_id = $1 ORDER BY s.next_billing_date, s.id`, userID)
	if err != nil {
		return nil, wrapErr(err, "list subscriptions")
	}
	defer rows.Close()

	subs := []*models.Subscription{}
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, wrapErr(err, "scan subscription")
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// FindSubscription retrieves a subscription by id and owner
func (r *Repository) FindSubscription(ctx context.Context, id, userID int64) (*models.Subscription, error) {
	sub, err := scanSubscription(r.db.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions s WHERE s.id = $1 AND s.user_id = $2`, id, userID))
	if err != nil {
		return nil, wrapErr(err, "subscription %d", id)
	}
	return sub, nil
}

// CreateSubscription creates a new subscription in the database
func (r *Repository) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	sub.CreatedAt = now()
	sub.NextBillingDate = sub.NextBillingDate.UTC()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO subscriptions (user_id, name, amount, currency, period, next_billing_date, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		sub.UserID, sub.Name, minor(sub.Amount), sub.Currency, sub.Period, sub.NextBillingDate, sub.IsActive, sub.CreatedAt).
		Scan(&sub.ID)
	return wrapErr(err, "create subscription")
}

// UpdateSubscription writes every mutable subscription field
func (r *Repository) UpdateSubscription(ctx context.Context, sub *models.Subscription) error {
	sub.NextBillingDate = sub.NextBillingDate.UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET name = $1, amount = $2, currency = $3, period = $4, next_billing_date = $5, is_active = $6
		WHERE id = $7 AND user_id = $8`,
		sub.Name, minor(sub.Amount), sub.Currency, sub.Period, sub.NextBillingDate, sub.IsActive, sub.ID, sub.UserID)
	if err != nil {
		return wrapErr(err, "update subscription %d", sub.ID)
	}
	return expectOne(res, "subscription %d", sub.ID)
}

// DeleteSubscription removes a subscription
func (r *Repository) DeleteSubscription(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapErr(err, "delete subscription %d", id)
	}
	return expectOne(res, "subscription %d", id)
}

// ListLapsedSubscriptions returns active subscriptions billed before t
func (r *Repository) ListLapsedSubscriptions(ctx context.Context, t time.Time) ([]*models.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions s
		WHERE s.is_active = $1 AND s.next_billing_date < $2
		ORDER BY s.id`, true, t.UTC())
	if err != nil {
		return nil, wrapErr(err, "list lapsed subscriptions")
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, wrapErr(err, "scan subscription")
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// SetNextBillingDate moves a subscription's next billing date
func (r *Repository) SetNextBillingDate(ctx context.Context, id int64, next time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET next_billing_date = $1 WHERE id = $2`, next.UTC(), id)
	if err != nil {
		return wrapErr(err, "set next billing date of subscription %d", id)
	}
	return expectOne(res, "subscription %d", id)
}

// ListBillingBetween returns active subscriptions billed in [from, to), with owner contact details
func (r *Repository) ListBillingBetween(ctx context.Context, from, to time.Time) ([]*models.SubscriptionReminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+subscriptionColumns+`, u.email, u.name
		FROM subscriptions s
		JOIN users u ON u.id = s.user_id
		WHERE s.is_active = $1 AND s.next_billing_date >= $2 AND s.next_billing_date < $3
		ORDER BY s.next_billing_date, s.id`, true, from.UTC(), to.UTC())
	if err != nil {
		return nil, wrapErr(err, "list upcoming subscriptions")
	}
	defer rows.Close()

	var reminders []*models.SubscriptionReminder
	for rows.Next() {
		var email, name string
		sub, err := scanSubscription(rows, &email, &name)
		if err != nil {
			return nil, wrapErr(err, "scan subscription")
		}
		reminders = append(reminders, &models.SubscriptionReminder{Subscription: *sub, Email: email, UserName: name})
	}
	return reminders, rows.Err()
}
