package service

import (
	"context"
	"strings"

	"github.com/Dan9191/aurora/internal/models"
	"github.com/shopspring/decimal"
)

const defaultGoalColor = "#06d6a0"

// ListGoals returns the user's goals, newest first
func (s *Service) ListGoals(ctx context.Context, userID int64) ([]*models.Goal, error) {
	return s.repo.ListGoals(ctx, userID)
}

// CreateGoal creates a savings goal
func (s *Service) CreateGoal(ctx context.Context, userID int64, in models.GoalInput) (*models.Goal, error) {
	goal := &models.Goal{
		UserID:        userID,
		CurrentAmount: decimal.Zero,
		Color:         defaultGoalColor,
	}
	if in.Name == nil {
		return nil, validationError("name is required")
	}
	if in.TargetAmount == nil {
		return nil, validationError("targetAmount is required")
	}
	if err := applyGoalInput(goal, in); err != nil {
		return nil, err
	}

	if err := s.repo.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}
	goal.ComputeProgress()
	s.log.Infof("Goal %d created for user %d", goal.ID, userID)
	return goal, nil
}

// UpdateGoal applies a partial update to a goal
func (s *Service) UpdateGoal(ctx context.Context, userID, goalID int64, in models.GoalInput) (*models.Goal, error) {
	goal, err := s.repo.FindGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}
	if err := applyGoalInput(goal, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateGoal(ctx, goal); err != nil {
		return nil, err
	}
	goal.ComputeProgress()
	return goal, nil
}

// AddGoalFunds increases a goal's saved amount
func (s *Service) AddGoalFunds(ctx context.Context, userID, goalID int64, in models.GoalContribution) (*models.Goal, error) {
	if !in.Amount.IsPositive() {
		return nil, validationError("amount must be greater than zero")
	}
	if err := models.CheckAmount("amount", in.Amount); err != nil {
		return nil, err
	}
	if err := s.repo.AddGoalFunds(ctx, goalID, userID, in.Amount); err != nil {
		return nil, err
	}
	s.log.Infof("Added %s to goal %d", in.Amount, goalID)
	return s.repo.FindGoal(ctx, goalID, userID)
}

// DeleteGoal removes a goal
func (s *Service) DeleteGoal(ctx context.Context, userID, goalID int64) error {
	return s.repo.DeleteGoal(ctx, goalID, userID)
}

func applyGoalInput(g *models.Goal, in models.GoalInput) error {
	if in.Name != nil {
		if g.Name = strings.TrimSpace(*in.Name); g.Name == "" {
			return validationError("name is required")
		}
	}
	if in.TargetAmount != nil {
		if !in.TargetAmount.IsPositive() {
			return validationError("targetAmount must be greater than zero")
		}
		if err := models.CheckAmount("targetAmount", *in.TargetAmount); err != nil {
			return err
		}
		g.TargetAmount = *in.TargetAmount
	}
	if in.CurrentAmount != nil {
		if in.CurrentAmount.IsNegative() {
			return validationError("currentAmount must not be negative")
		}
		if err := models.CheckAmount("currentAmount", *in.CurrentAmount); err != nil {
			return err
		}
		g.CurrentAmount = *in.CurrentAmount
	}
	switch {
	case in.ClearDeadline:
		g.Deadline = nil
	case in.Deadline != nil && !in.Deadline.IsZero():
		deadline := in.Deadline.Time
		g.Deadline = &deadline
	}
	if in.Color != nil {
		g.Color = orDefault(*in.Color, defaultGoalColor)
	}
	return nil
}
