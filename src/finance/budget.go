package finance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
)

// Allocation is one budget line produced by an allocation method.
type Allocation struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Percent float64 `json:"percent"`
	Amount  float64 `json:"amount"`
}

// Allocate503020 splits monthly income into the classic needs/wants/savings
// buckets. Amounts are rounded to cents; the savings bucket absorbs the
// rounding remainder so the three lines always reconstruct the income.
func Allocate503020(monthlyIncome float64) ([]Allocation, error) {
	if monthlyIncome <= 0 {
		return nil, fmt.Errorf("monthly income must be positive, got %.2f", monthlyIncome)
	}
	income := decimal.NewFromFloat(monthlyIncome).Round(2)

	needs := income.Mul(decimal.NewFromInt(50)).Div(decimal.NewFromInt(100)).Round(2)
	wants := income.Mul(decimal.NewFromInt(30)).Div(decimal.NewFromInt(100)).Round(2)
	savings := income.Sub(needs).Sub(wants)

	return []Allocation{
		{Name: "Needs", Type: models.BudgetCategoryNeeds, Percent: 50, Amount: needs.InexactFloat64()},
		{Name: "Wants", Type: models.BudgetCategoryWants, Percent: 30, Amount: wants.InexactFloat64()},
		{Name: "Savings", Type: models.BudgetCategorySavings, Percent: 20, Amount: savings.InexactFloat64()},
	}, nil
}

// CustomSplit is a caller-defined budget line given as a percentage of income.
type CustomSplit struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Percent float64 `json:"percent"`
}

// AllocateCustom turns caller-provided percentage splits into amounts. The
// percentages must sum to 100 within a cent of tolerance.
func AllocateCustom(monthlyIncome float64, splits []CustomSplit) ([]Allocation, error) {
	if monthlyIncome <= 0 {
		return nil, fmt.Errorf("monthly income must be positive, got %.2f", monthlyIncome)
	}
	if len(splits) == 0 {
		return nil, fmt.Errorf("at least one split is required")
	}

	total := decimal.Zero
	for _, s := range splits {
		if s.Percent < 0 {
			return nil, fmt.Errorf("split %q has negative percent", s.Name)
		}
		total = total.Add(decimal.NewFromFloat(s.Percent))
	}
	if total.Sub(decimal.NewFromInt(100)).Abs().GreaterThan(decimal.NewFromFloat(0.01)) {
		return nil, fmt.Errorf("split percentages sum to %s, want 100", total.String())
	}

	income := decimal.NewFromFloat(monthlyIncome).Round(2)
	out := make([]Allocation, 0, len(splits))
	remaining := income
	for i, s := range splits {
		var amount decimal.Decimal
		if i == len(splits)-1 {
			// last line takes the rounding remainder
			amount = remaining
		} else {
			amount = income.Mul(decimal.NewFromFloat(s.Percent)).Div(decimal.NewFromInt(100)).Round(2)
			remaining = remaining.Sub(amount)
		}
		out = append(out, Allocation{
			Name:    s.Name,
			Type:    s.Type,
			Percent: s.Percent,
			Amount:  amount.InexactFloat64(),
		})
	}
	return out, nil
}

// ValidateZeroBased checks that explicit allocations assign every unit of
// income, the zero-based method's defining rule.
func ValidateZeroBased(monthlyIncome float64, allocations []Allocation) error {
	if monthlyIncome <= 0 {
		return fmt.Errorf("monthly income must be positive, got %.2f", monthlyIncome)
	}
	sum := decimal.Zero
	for _, a := range allocations {
		if a.Amount < 0 {
			return fmt.Errorf("allocation %q is negative", a.Name)
		}
		sum = sum.Add(decimal.NewFromFloat(a.Amount))
	}
	income := decimal.NewFromFloat(monthlyIncome)
	if sum.Sub(income).Abs().GreaterThan(decimal.NewFromFloat(0.01)) {
		return fmt.Errorf("allocations sum to %s but income is %s; zero-based budgets must assign every unit", sum.StringFixed(2), income.StringFixed(2))
	}
	return nil
}
