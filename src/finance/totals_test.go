package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fintrack-server/src/models"
)

func TestSpentByCategoryNameJoinsOnCategoryList(t *testing.T) {
	cats := []models.Category{
		{ID: "a3f0c1d2-0000-4000-8000-000000000001", Name: "Groceries", Type: models.TransactionTypeExpense},
		{ID: "a3f0c1d2-0000-4000-8000-000000000002", Name: "Rent", Type: models.TransactionTypeExpense},
	}
	groceries := cats[0].ID
	rent := cats[1].ID
	date := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	txs := []models.Transaction{
		{Type: models.TransactionTypeExpense, Amount: 120.50, CategoryID: &groceries, Date: date},
		{Type: models.TransactionTypeExpense, Amount: 30, CategoryID: &groceries, Date: date},
		{Type: models.TransactionTypeExpense, Amount: 1500, CategoryID: &rent, Date: date},
		// Uncategorized and income lines never land in a named bucket.
		{Type: models.TransactionTypeExpense, Amount: 99, Date: date},
		{Type: models.TransactionTypeIncome, Amount: 4000, CategoryID: &groceries, Date: date},
	}

	spent := SpentByCategoryName(txs, cats, time.Time{}, time.Time{})
	require.InDelta(t, 150.50, spent["groceries"], 0.001)
	require.InDelta(t, 1500, spent["rent"], 0.001)
	require.NotContains(t, spent, "")
}

func TestSpentByCategoryNameHonorsDateRange(t *testing.T) {
	cats := []models.Category{{ID: "c1", Name: "Dining", Type: models.TransactionTypeExpense}}
	dining := cats[0].ID

	txs := []models.Transaction{
		{Type: models.TransactionTypeExpense, Amount: 50, CategoryID: &dining, Date: time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)},
		{Type: models.TransactionTypeExpense, Amount: 25, CategoryID: &dining, Date: time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)},
	}

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	spent := SpentByCategoryName(txs, cats, from, to)
	require.InDelta(t, 25, spent["dining"], 0.001)
}
