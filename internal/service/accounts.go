package service

import (
	"context"
	"strings"

	"github.com/Dan9191/aurora/internal/integrations/fx"
	"github.com/Dan9191/aurora/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	defaultAccountColor = "#3b82f6"
	defaultAccountIcon  = "wallet"
)

// ListAccounts returns the user's active accounts
func (s *Service) ListAccounts(ctx context.Context, userID int64) ([]*models.Account, error) {
	return s.repo.ListAccounts(ctx, userID)
}

// GetAccount returns one of the user's accounts
func (s *Service) GetAccount(ctx context.Context, userID, accountID int64) (*models.Account, error) {
	return s.repo.FindAccount(ctx, accountID, userID)
}

// CreateAccount creates a new account for the user. The supplied balance
// becomes the opening balance.
func (s *Service) CreateAccount(ctx context.Context, userID int64, in models.AccountInput) (*models.Account, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationError("name is required")
	}
	if !in.Type.Valid() {
		return nil, validationError("unknown account type %q", in.Type)
	}
	currency, err := s.normalizeCurrency(in.Currency)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		UserID:      userID,
		Name:        name,
		Type:        in.Type,
		Institution: strings.TrimSpace(in.Institution),
		Currency:    currency,
		Color:       orDefault(in.Color, defaultAccountColor),
		Icon:        orDefault(in.Icon, defaultAccountIcon),
	}
	if in.Balance != nil {
		if err := models.CheckAmount("balance", *in.Balance); err != nil {
			return nil, err
		}
		account.OpeningBalance = *in.Balance
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.log.Infof("Account %d created for user %d: %s %s", account.ID, userID, account.Type, account.Currency)
	return account, nil
}

// UpdateAccount changes an account's descriptive fields. The balance can only
// be moved by posting or deleting transactions.
func (s *Service) UpdateAccount(ctx context.Context, userID, accountID int64, in models.AccountUpdate) (*models.Account, error) {
	account, err := s.repo.FindAccount(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if account.Name = strings.TrimSpace(*in.Name); account.Name == "" {
			return nil, validationError("name is required")
		}
	}
	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, validationError("unknown account type %q", *in.Type)
		}
		account.Type = *in.Type
	}
	if in.Institution != nil {
		account.Institution = strings.TrimSpace(*in.Institution)
	}
	if in.Currency != nil {
		if account.Currency, err = s.normalizeCurrency(*in.Currency); err != nil {
			return nil, err
		}
	}
	if in.Color != nil {
		account.Color = orDefault(*in.Color, defaultAccountColor)
	}
	if in.Icon != nil {
		account.Icon = orDefault(*in.Icon, defaultAccountIcon)
	}

	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount deactivates an account. Its transactions are kept.
func (s *Service) DeleteAccount(ctx context.Context, userID, accountID int64) error {
	if err := s.repo.DeactivateAccount(ctx, accountID, userID); err != nil {
		return err
	}
	s.log.Infof("Account %d deactivated by user %d", accountID, userID)
	return nil
}

// NetWorth totals the user's active accounts in the base currency. Credit
// balances count as liabilities by absolute value.
func (s *Service) NetWorth(ctx context.Context, userID int64) (*models.NetWorth, error) {
	accounts, err := s.repo.ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	rates := s.loadRates(ctx, accounts)
	nw := &models.NetWorth{
		Assets:      decimal.Zero,
		Liabilities: decimal.Zero,
		Currency:    s.config.BaseCurrency,
	}
	for _, a := range accounts {
		balance := s.toBase(rates, a)
		if a.Type.IsLiability() {
			nw.Liabilities = nw.Liabilities.Add(balance.Abs())
		} else {
			nw.Assets = nw.Assets.Add(balance)
		}
	}
	nw.NetWorth = nw.Assets.Sub(nw.Liabilities)
	return nw, nil
}

// loadRates fetches the rate table only when some account needs conversion.
func (s *Service) loadRates(ctx context.Context, accounts []*models.Account) *fx.Rates {
	foreign := false
	for _, a := range accounts {
		if !strings.EqualFold(a.Currency, s.config.BaseCurrency) {
			foreign = true
			break
		}
	}
	if !foreign || s.rates == nil || !s.rates.Enabled() {
		return nil
	}
	rates, err := s.rates.Rates(ctx)
	if err != nil {
		s.log.Warnf("Exchange rates unavailable, using face values: %v", err)
		return nil
	}
	return rates
}

func (s *Service) toBase(rates *fx.Rates, a *models.Account) decimal.Decimal {
	if strings.EqualFold(a.Currency, s.config.BaseCurrency) {
		return a.Balance
	}
	if rates == nil {
		s.log.WithFields(logrus.Fields{"account_id": a.ID, "currency": a.Currency}).
			Warn("Counting foreign balance at face value")
		return a.Balance
	}
	converted, err := rates.Convert(a.Balance, a.Currency, s.config.BaseCurrency)
	if err != nil {
		s.log.WithFields(logrus.Fields{"account_id": a.ID, "currency": a.Currency}).
			Warnf("Counting foreign balance at face value: %v", err)
		return a.Balance
	}
	return converted.Round(2)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
