package finance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fintrack-server/src/models"
)

func TestAllocate503020SplitsIncome(t *testing.T) {
	allocs, err := Allocate503020(3000)
	require.NoError(t, err)
	require.Len(t, allocs, 3)

	require.Equal(t, models.BudgetCategoryNeeds, allocs[0].Type)
	require.InDelta(t, 1500, allocs[0].Amount, 0.001)
	require.Equal(t, models.BudgetCategoryWants, allocs[1].Type)
	require.InDelta(t, 900, allocs[1].Amount, 0.001)
	require.Equal(t, models.BudgetCategorySavings, allocs[2].Type)
	require.InDelta(t, 600, allocs[2].Amount, 0.001)
}

func TestAllocate503020ReconstructsIncome(t *testing.T) {
	// Awkward incomes whose 50/30/20 splits don't land on even cents.
	for _, income := range []float64{3333.33, 1234.56, 0.03, 999.99, 7777.77} {
		allocs, err := Allocate503020(income)
		require.NoError(t, err)

		var sum float64
		for _, a := range allocs {
			require.GreaterOrEqual(t, a.Amount, 0.0)
			sum += a.Amount
		}
		require.InDelta(t, income, sum, 0.005, "income %.2f", income)
	}
}

func TestAllocate503020RejectsNonPositiveIncome(t *testing.T) {
	_, err := Allocate503020(0)
	require.Error(t, err)
	_, err = Allocate503020(-100)
	require.Error(t, err)
}

func TestAllocateCustom(t *testing.T) {
	splits := []CustomSplit{
		{Name: "Rent", Type: models.BudgetCategoryNeeds, Percent: 40},
		{Name: "Fun", Type: models.BudgetCategoryWants, Percent: 35},
		{Name: "Emergency fund", Type: models.BudgetCategorySavings, Percent: 25},
	}
	allocs, err := AllocateCustom(2500, splits)
	require.NoError(t, err)
	require.InDelta(t, 1000, allocs[0].Amount, 0.001)
	require.InDelta(t, 875, allocs[1].Amount, 0.001)
	require.InDelta(t, 625, allocs[2].Amount, 0.001)
}

func TestAllocateCustomRejectsBadPercentages(t *testing.T) {
	_, err := AllocateCustom(1000, []CustomSplit{{Name: "a", Percent: 60}, {Name: "b", Percent: 30}})
	require.Error(t, err)

	_, err = AllocateCustom(1000, []CustomSplit{{Name: "a", Percent: 120}, {Name: "b", Percent: -20}})
	require.Error(t, err)

	_, err = AllocateCustom(1000, nil)
	require.Error(t, err)
}

func TestValidateZeroBased(t *testing.T) {
	ok := []Allocation{
		{Name: "Rent", Amount: 1200},
		{Name: "Food", Amount: 500},
		{Name: "Savings", Amount: 300},
	}
	require.NoError(t, ValidateZeroBased(2000, ok))

	short := []Allocation{{Name: "Rent", Amount: 1200}}
	require.Error(t, ValidateZeroBased(2000, short))

	negative := []Allocation{{Name: "Rent", Amount: 2100}, {Name: "Oops", Amount: -100}}
	require.Error(t, ValidateZeroBased(2000, negative))
}
