package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fintrack-server/src/models"
)

func tx(typ string, amount float64, day int) models.Transaction {
	return models.Transaction{
		Type:   typ,
		Amount: amount,
		Date:   time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestPeriodTotals(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TransactionTypeIncome, 3000, 1),
		tx(models.TransactionTypeExpense, 1200, 5),
		tx(models.TransactionTypeExpense, 300, 28),
		tx(models.TransactionTypeAsset, 5000, 10), // ignored by totals
	}

	income, expenses := PeriodTotals(txs, time.Time{}, time.Time{})
	require.InDelta(t, 3000, income, 0.001)
	require.InDelta(t, 1500, expenses, 0.001)

	// Bounded period excludes the late expense.
	to := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	_, expenses = PeriodTotals(txs, time.Time{}, to)
	require.InDelta(t, 1200, expenses, 0.001)
}

func TestNetWorth(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TransactionTypeAsset, 15000, 1),
		tx(models.TransactionTypeAsset, 2500, 2),
		tx(models.TransactionTypeLiability, 8000, 3),
		tx(models.TransactionTypeIncome, 3000, 4), // ignored
	}
	require.InDelta(t, 9500, NetWorth(txs), 0.001)
	require.InDelta(t, 0, NetWorth(nil), 0.001)
}

func TestSavingsRate(t *testing.T) {
	require.InDelta(t, 0.25, SavingsRate(4000, 3000), 0.0001)
	require.InDelta(t, -0.5, SavingsRate(2000, 3000), 0.0001)
	// Zero income never divides.
	require.Equal(t, 0.0, SavingsRate(0, 3000))
}

func TestSavingsScoreThresholds(t *testing.T) {
	require.Equal(t, 0, SavingsScore(-0.1))
	require.Equal(t, 0, SavingsScore(0))
	require.Equal(t, 20, SavingsScore(0.02))
	require.Equal(t, 40, SavingsScore(0.05))
	require.Equal(t, 60, SavingsScore(0.10))
	require.Equal(t, 80, SavingsScore(0.20))
	require.Equal(t, 100, SavingsScore(0.30))
}

func TestSavingsScoreMonotonic(t *testing.T) {
	prev := SavingsScore(-1)
	for rate := -1.0; rate <= 1.0; rate += 0.005 {
		score := SavingsScore(rate)
		require.GreaterOrEqual(t, score, prev, "rate %.3f", rate)
		prev = score
	}
}

func TestComponentScoresMonotonic(t *testing.T) {
	// Net worth score never drops as net worth grows (fixed income).
	prev := NetWorthScore(-10000, 3000)
	for nw := -10000.0; nw <= 100000; nw += 500 {
		score := NetWorthScore(nw, 3000)
		require.GreaterOrEqual(t, score, prev, "net worth %.0f", nw)
		prev = score
	}

	// Spending score never rises as expenses grow (fixed income).
	prev = SpendingScore(3000, 0)
	for exp := 0.0; exp <= 6000; exp += 50 {
		score := SpendingScore(3000, exp)
		require.LessOrEqual(t, score, prev, "expenses %.0f", exp)
		prev = score
	}

	// Debt score never rises as liabilities grow (fixed assets).
	prev = DebtScore(10000, 0)
	for debt := 0.0; debt <= 20000; debt += 100 {
		score := DebtScore(10000, debt)
		require.LessOrEqual(t, score, prev, "debt %.0f", debt)
		prev = score
	}
}

func TestComputeHealthScore(t *testing.T) {
	txs := []models.Transaction{
		tx(models.TransactionTypeIncome, 4000, 1),
		tx(models.TransactionTypeExpense, 2000, 5),
		tx(models.TransactionTypeAsset, 50000, 10),
		tx(models.TransactionTypeLiability, 10000, 12),
	}
	s := ComputeHealthScore(txs)

	require.Equal(t, 100, s.Income)   // coverage 2x
	require.Equal(t, 100, s.Spending) // ratio 0.5
	require.Equal(t, 100, s.Savings)  // rate 0.5
	require.Equal(t, 60, s.NetWorth)  // 40000 vs 48000 annualized
	require.Equal(t, 80, s.Debt)      // ratio 0.2
	require.Equal(t, 87, s.Total)

	// No data at all floors every component.
	empty := ComputeHealthScore(nil)
	require.Equal(t, 0, empty.Income)
	require.Equal(t, 0, empty.Savings)
}

func TestSpentByCategory(t *testing.T) {
	groceries, rent := "cat-groceries", "cat-rent"
	txs := []models.Transaction{
		{Type: models.TransactionTypeExpense, Amount: 120.50, CategoryID: &groceries, Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{Type: models.TransactionTypeExpense, Amount: 79.50, CategoryID: &groceries, Date: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{Type: models.TransactionTypeExpense, Amount: 1400, CategoryID: &rent, Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Type: models.TransactionTypeIncome, Amount: 3000, CategoryID: &rent, Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Type: models.TransactionTypeExpense, Amount: 15, Date: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)},
	}

	sums := SpentByCategory(txs, time.Time{}, time.Time{})
	require.InDelta(t, 200, sums[groceries], 0.001)
	require.InDelta(t, 1400, sums[rent], 0.001)
	require.InDelta(t, 15, sums[""], 0.001)
}
