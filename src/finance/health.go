package finance

import (
	"math"
	"time"

	"fintrack-server/src/models"
)

// Component weights of the composite health score. They sum to 100.
const (
	weightNetWorth = 25
	weightIncome   = 20
	weightSpending = 20
	weightSavings  = 20
	weightDebt     = 15
)

// HealthScore is the weighted composite of the five sub-scores. Each
// sub-score is 0..100; Total is the weighted average rounded to the nearest
// integer.
type HealthScore struct {
	Total    int `json:"total"`
	NetWorth int `json:"net_worth"`
	Income   int `json:"income"`
	Spending int `json:"spending"`
	Savings  int `json:"savings"`
	Debt     int `json:"debt"`
}

// ComputeHealthScore derives the composite score from a user's transactions.
// Income and expenses are taken across the whole slice (the caller bounds the
// period); asset/liability lines feed the net-worth and debt components.
func ComputeHealthScore(txs []models.Transaction) HealthScore {
	income, expenses := PeriodTotals(txs, time.Time{}, time.Time{})
	netWorth := NetWorth(txs)

	var assets, liabilities float64
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionTypeAsset:
			assets += tx.Amount
		case models.TransactionTypeLiability:
			liabilities += tx.Amount
		}
	}

	s := HealthScore{
		NetWorth: NetWorthScore(netWorth, income),
		Income:   IncomeScore(income, expenses),
		Spending: SpendingScore(income, expenses),
		Savings:  SavingsScore(SavingsRate(income, expenses)),
		Debt:     DebtScore(assets, liabilities),
	}
	weighted := s.NetWorth*weightNetWorth +
		s.Income*weightIncome +
		s.Spending*weightSpending +
		s.Savings*weightSavings +
		s.Debt*weightDebt
	s.Total = int(math.Round(float64(weighted) / 100))
	return s
}

// SavingsScore maps a savings rate to points. Thresholds are fixed and the
// mapping is monotonic: a higher rate never scores lower.
func SavingsScore(rate float64) int {
	switch {
	case rate >= 0.30:
		return 100
	case rate >= 0.20:
		return 80
	case rate >= 0.10:
		return 60
	case rate >= 0.05:
		return 40
	case rate > 0:
		return 20
	}
	return 0
}

// NetWorthScore rates net worth against annual income (12x the period
// income). With no income, any positive net worth earns the middle bucket.
func NetWorthScore(netWorth, income float64) int {
	if income <= 0 {
		if netWorth > 0 {
			return 60
		}
		if netWorth == 0 {
			return 20
		}
		return 0
	}
	ratio := netWorth / (income * 12)
	switch {
	case ratio >= 2:
		return 100
	case ratio >= 1:
		return 80
	case ratio >= 0.5:
		return 60
	case ratio > 0:
		return 40
	case ratio == 0:
		return 20
	}
	return 0
}

// IncomeScore rates how comfortably income covers expenses.
func IncomeScore(income, expenses float64) int {
	if income <= 0 {
		return 0
	}
	if expenses <= 0 {
		return 100
	}
	coverage := income / expenses
	switch {
	case coverage >= 2:
		return 100
	case coverage >= 1.5:
		return 80
	case coverage >= 1.2:
		return 60
	case coverage >= 1:
		return 40
	}
	return 20
}

// SpendingScore rates the expense-to-income ratio; lower spending scores
// higher.
func SpendingScore(income, expenses float64) int {
	if income <= 0 {
		if expenses > 0 {
			return 0
		}
		return 40
	}
	ratio := expenses / income
	switch {
	case ratio <= 0.5:
		return 100
	case ratio <= 0.7:
		return 80
	case ratio <= 0.9:
		return 60
	case ratio <= 1:
		return 40
	}
	return 20
}

// DebtScore rates liabilities against assets.
func DebtScore(assets, liabilities float64) int {
	if liabilities <= 0 {
		return 100
	}
	if assets <= 0 {
		return 0
	}
	ratio := liabilities / assets
	switch {
	case ratio <= 0.3:
		return 80
	case ratio <= 0.6:
		return 60
	case ratio <= 1:
		return 40
	}
	return 20
}
