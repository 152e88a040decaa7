package service

import (
	"context"
	"errors"

	"github.com/Dan9191/aurora/internal/models"
)

// ListBudgets returns the user's budgets with spending for the current period
func (s *Service) ListBudgets(ctx context.Context, userID int64) ([]*models.Budget, error) {
	budgets, err := s.repo.ListBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, b := range budgets {
		if err := s.fillSpent(ctx, b); err != nil {
			return nil, err
		}
	}
	return budgets, nil
}

// CreateBudget creates a spending ceiling for one category
func (s *Service) CreateBudget(ctx context.Context, userID int64, in models.BudgetInput) (*models.Budget, error) {
	if !in.Amount.IsPositive() {
		return nil, validationError("amount must be greater than zero")
	}
	if err := models.CheckAmount("amount", in.Amount); err != nil {
		return nil, err
	}
	if in.Period == "" {
		in.Period = models.PeriodMonthly
	}
	if !in.Period.Valid() {
		return nil, validationError("period must be monthly or yearly")
	}
	category, err := s.repo.FindCategory(ctx, in.CategoryID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, validationError("unknown category %d", in.CategoryID)
	}
	if err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: in.CategoryID,
		Amount:     in.Amount,
		Period:     in.Period,
		Category:   category,
	}
	if err := s.repo.CreateBudget(ctx, budget); err != nil {
		return nil, err
	}
	if err := s.fillSpent(ctx, budget); err != nil {
		return nil, err
	}

	s.log.Infof("Budget %d created for user %d", budget.ID, userID)
	return budget, nil
}

// UpdateBudget changes a budget's amount or period
func (s *Service) UpdateBudget(ctx context.Context, userID, budgetID int64, in models.BudgetUpdate) (*models.Budget, error) {
	budget, err := s.repo.FindBudget(ctx, budgetID, userID)
	if err != nil {
		return nil, err
	}
	if in.Amount != nil {
		if !in.Amount.IsPositive() {
			return nil, validationError("amount must be greater than zero")
		}
		if err := models.CheckAmount("amount", *in.Amount); err != nil {
			return nil, err
		}
		budget.Amount = *in.Amount
	}
	if in.Period != nil {
		if !in.Period.Valid() {
			return nil, validationError("period must be monthly or yearly")
		}
		budget.Period = *in.Period
	}

	if err := s.repo.UpdateBudget(ctx, budget); err != nil {
		return nil, err
	}
	if err := s.fillSpent(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteBudget removes a budget
func (s *Service) DeleteBudget(ctx context.Context, userID, budgetID int64) error {
	return s.repo.DeleteBudget(ctx, budgetID, userID)
}

func (s *Service) fillSpent(ctx context.Context, b *models.Budget) error {
	from, to := b.Period.Bounds(s.now())
	spent, err := s.repo.SumCategoryExpenses(ctx, b.UserID, b.CategoryID, from, to)
	if err != nil {
		return err
	}
	b.Spent = spent
	return nil
}
