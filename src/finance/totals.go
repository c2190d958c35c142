package finance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
)

// PeriodTotals sums income and expense transactions dated within [from, to].
// Zero from/to bounds disable that side of the range.
func PeriodTotals(txs []models.Transaction, from, to time.Time) (income, expenses float64) {
	in, out := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		if !from.IsZero() && tx.Date.Before(from) {
			continue
		}
		if !to.IsZero() && tx.Date.After(to) {
			continue
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			in = in.Add(decimal.NewFromFloat(tx.Amount))
		case models.TransactionTypeExpense:
			out = out.Add(decimal.NewFromFloat(tx.Amount))
		}
	}
	return in.InexactFloat64(), out.InexactFloat64()
}

// NetWorth is total assets minus total liabilities.
func NetWorth(txs []models.Transaction) float64 {
	assets, liabilities := decimal.Zero, decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionTypeAsset:
			assets = assets.Add(decimal.NewFromFloat(tx.Amount))
		case models.TransactionTypeLiability:
			liabilities = liabilities.Add(decimal.NewFromFloat(tx.Amount))
		}
	}
	return assets.Sub(liabilities).InexactFloat64()
}

// SavingsRate is (income - expenses) / income, guarded against zero income.
// With no income the rate is 0 regardless of spending.
func SavingsRate(income, expenses float64) float64 {
	if income <= 0 {
		return 0
	}
	return decimal.NewFromFloat(income).
		Sub(decimal.NewFromFloat(expenses)).
		Div(decimal.NewFromFloat(income)).
		InexactFloat64()
}

// SpentByCategoryName resolves per-category spending to lowercase category
// names. Transactions reference rows in the user's category list while budget
// lines carry their own IDs, so name is the join key between the two.
func SpentByCategoryName(txs []models.Transaction, cats []models.Category, from, to time.Time) map[string]float64 {
	nameByID := make(map[string]string, len(cats))
	for _, c := range cats {
		nameByID[c.ID] = strings.ToLower(c.Name)
	}
	out := make(map[string]float64)
	for id, amount := range SpentByCategory(txs, from, to) {
		if name, ok := nameByID[id]; ok {
			out[name] += amount
		}
	}
	return out
}

// SpentByCategory sums expense amounts per category for transactions dated
// within [from, to]. Transactions without a category are keyed under "".
func SpentByCategory(txs []models.Transaction, from, to time.Time) map[string]float64 {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Type != models.TransactionTypeExpense {
			continue
		}
		if !from.IsZero() && tx.Date.Before(from) {
			continue
		}
		if !to.IsZero() && tx.Date.After(to) {
			continue
		}
		key := ""
		if tx.CategoryID != nil {
			key = *tx.CategoryID
		}
		sums[key] = sums[key].Add(decimal.NewFromFloat(tx.Amount))
	}
	out := make(map[string]float64, len(sums))
	for k, v := range sums {
		out[k] = v.InexactFloat64()
	}
	return out
}
