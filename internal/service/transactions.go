package service

import (
	"context"

	"github.com/Dan9191/aurora/internal/models"
)

// Listing limits for transaction pages.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// ListCategories returns every category ordered by name
func (s *Service) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.repo.ListCategories(ctx)
}

// ListTransactions returns a filtered page of the user's transactions
func (s *Service) ListTransactions(ctx context.Context, userID int64, f models.TransactionFilter) (*models.TransactionPage, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, validationError("type must be income or expense")
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return nil, validationError("endDate is before startDate")
	}
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultPageSize
	case f.Limit > MaxPageSize:
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.ListTransactions(ctx, userID, f)
}

// PostTransaction records a transaction and moves its account balance
func (s *Service) PostTransaction(ctx context.Context, userID int64, in models.TransactionInput) (*models.Transaction, error) {
	return s.ledger.Post(ctx, userID, in)
}

// DeleteTransaction removes a transaction and reverses its balance effect
func (s *Service) DeleteTransaction(ctx context.Context, userID, transactionID int64) error {
	return s.ledger.Delete(ctx, userID, transactionID)
}
