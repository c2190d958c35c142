package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"fintrack-server/src/models"
)

func TestGenerateBudget503020(t *testing.T) {
	body := `{"method":"50_30_20","monthly_income":5000}`
	req := httptest.NewRequest(http.MethodPost, "/api/budgets/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	GenerateBudget()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Categories []struct {
			Name      string  `json:"name"`
			Allocated float64 `json:"allocated"`
		} `json:"categories"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Categories, 3)

	var total float64
	for _, c := range resp.Categories {
		total += c.Allocated
	}
	require.InDelta(t, 5000, total, 0.001)
}

func TestGenerateBudgetCustomRejectsBadPercents(t *testing.T) {
	body := `{"method":"custom","monthly_income":5000,"splits":[{"name":"a","type":"needs","percent":50},{"name":"b","type":"wants","percent":30}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/budgets/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	GenerateBudget()(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateBudgetZeroBasedMustAssignAllIncome(t *testing.T) {
	body := `{"method":"zero_based","monthly_income":1000,"categories":[{"name":"rent","type":"needs","allocated":700}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/budgets/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	GenerateBudget()(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplySpentMatchesBudgetLinesByName(t *testing.T) {
	// Budget category IDs are minted on insert and never appear on
	// transactions, so spending has to land on the lines by name.
	budget := &models.Budget{
		Categories: []models.BudgetCategory{
			{ID: "b9e2f3a4-0000-4000-8000-000000000001", Name: "Groceries", Allocated: 400},
			{ID: "b9e2f3a4-0000-4000-8000-000000000002", Name: "Rent", Allocated: 1500},
			{ID: "b9e2f3a4-0000-4000-8000-000000000003", Name: "Savings", Allocated: 600},
		},
	}
	applySpent(budget, map[string]float64{
		"groceries": 312.40,
		"rent":      1500,
	})

	require.InDelta(t, 312.40, budget.Categories[0].Spent, 0.001)
	require.InDelta(t, 1500, budget.Categories[1].Spent, 0.001)
	require.Zero(t, budget.Categories[2].Spent)
}

func TestGenerateBudgetUnknownMethod(t *testing.T) {
	body := `{"method":"envelope","monthly_income":1000}`
	req := httptest.NewRequest(http.MethodPost, "/api/budgets/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	GenerateBudget()(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
