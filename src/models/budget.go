package models

import "time"

const (
	BudgetMethod503020    = "50_30_20"
	BudgetMethodZeroBased = "zero_based"
	BudgetMethodCustom    = "custom"
)

const (
	BudgetCategoryNeeds   = "needs"
	BudgetCategoryWants   = "wants"
	BudgetCategorySavings = "savings"
)

type Budget struct {
	ID            string           `json:"id"`
	UserID        int              `json:"user_id"`
	Name          string           `json:"name"`
	Method        string           `json:"method"`
	MonthlyIncome float64          `json:"monthly_income"`
	Categories    []BudgetCategory `json:"categories,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type BudgetCategory struct {
	ID        string  `json:"id"`
	BudgetID  string  `json:"budget_id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Allocated float64 `json:"allocated"`
	// Spent is derived from the current month's expense transactions at read
	// time and is never stored.
	Spent float64 `json:"spent"`
}

func ValidBudgetMethod(m string) bool {
	switch m {
	case BudgetMethod503020, BudgetMethodZeroBased, BudgetMethodCustom:
		return true
	}
	return false
}
