package service

import (
	"context"
	"time"

	"github.com/Dan9191/aurora/internal/models"
	"github.com/shopspring/decimal"
)

// recentTransactions is how many transactions the dashboard shows.
const recentTransactions = 10

// MonthWindow returns the half-open UTC window of a calendar month.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// MonthlySummary totals income and expenses for one calendar month
func (s *Service) MonthlySummary(ctx context.Context, userID int64, year int, month time.Month) (*models.MonthlySummary, error) {
	if month < time.January || month > time.December {
		return nil, validationError("month must be between 1 and 12")
	}
	if year < 1970 || year > 9999 {
		return nil, validationError("year is out of range")
	}
	from, to := MonthWindow(year, month)

	income, err := s.repo.SumTransactions(ctx, userID, models.TransactionIncome, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.SumTransactions(ctx, userID, models.TransactionExpense, from, to)
	if err != nil {
		return nil, err
	}

	summary := &models.MonthlySummary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Savings:       income.Sub(expenses),
	}
	if income.IsPositive() {
		summary.SavingsRate = summary.Savings.Div(income).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
	}
	return summary, nil
}

// SpendingByCategory groups the user's expenses in [from, to) by category
func (s *Service) SpendingByCategory(ctx context.Context, userID int64, from, to time.Time) ([]*models.CategorySpending, error) {
	if !to.After(from) {
		return nil, validationError("endDate must be after startDate")
	}
	return s.repo.SpendingByCategory(ctx, userID, from, to)
}

// Dashboard assembles the overview for the current month
func (s *Service) Dashboard(ctx context.Context, userID int64) (*models.Dashboard, error) {
	now := s.now().UTC()
	from, to := MonthWindow(now.Year(), now.Month())

	netWorth, err := s.NetWorth(ctx, userID)
	if err != nil {
		return nil, err
	}
	monthly, err := s.MonthlySummary(ctx, userID, now.Year(), now.Month())
	if err != nil {
		return nil, err
	}
	spending, err := s.repo.SpendingByCategory(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.ListTransactions(ctx, userID, models.TransactionFilter{Limit: recentTransactions})
	if err != nil {
		return nil, err
	}
	goals, err := s.repo.ListGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.Dashboard{
		NetWorth:           *netWorth,
		Monthly:            *monthly,
		SpendingByCategory: spending,
		RecentTransactions: recent.Transactions,
		Goals:              goals,
		GeneratedAt:        now,
	}, nil
}
