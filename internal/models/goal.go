package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target. CurrentAmount moves only through explicit
// contributions and is not linked to any account.
type Goal struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"userId"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *time.Time      `json:"deadline"`
	Color         string          `json:"color"`
	Progress      float64         `json:"progress"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ComputeProgress fills Progress as a percentage of the target, capped at 100.
func (g *Goal) ComputeProgress() {
	if !g.TargetAmount.IsPositive() {
		g.Progress = 0
		return
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(1)
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		pct = decimal.NewFromInt(100)
	}
	g.Progress = pct.InexactFloat64()
}

// GoalInput is the body accepted by goal create and update. On update, nil
// fields are left untouched; ClearDeadline removes an existing deadline.
type GoalInput struct {
	Name          *string          `json:"name"`
	TargetAmount  *decimal.Decimal `json:"targetAmount"`
	CurrentAmount *decimal.Decimal `json:"currentAmount"`
	Deadline      *Date            `json:"deadline"`
	ClearDeadline bool             `json:"clearDeadline"`
	Color         *string          `json:"color"`
}

// GoalContribution is the body accepted by POST /goals/{id}/contributions.
type GoalContribution struct {
	Amount decimal.Decimal `json:"amount"`
}
