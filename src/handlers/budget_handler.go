package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/finance"
	"fintrack-server/src/models"
)

type budgetRequest struct {
	Name          string                 `json:"name"`
	Method        string                 `json:"method"`
	MonthlyIncome float64                `json:"monthly_income"`
	Splits        []finance.CustomSplit  `json:"splits,omitempty"`
	Categories    []models.BudgetCategory `json:"categories,omitempty"`
}

// buildCategories turns the request into an allocation set according to its
// method. 50/30/20 derives everything from income; custom derives amounts
// from caller percentages; zero-based takes explicit categories and checks
// they assign every unit of income.
func buildCategories(req budgetRequest) ([]models.BudgetCategory, string) {
	switch req.Method {
	case models.BudgetMethod503020:
		allocs, err := finance.Allocate503020(req.MonthlyIncome)
		if err != nil {
			return nil, err.Error()
		}
		return allocationsToCategories(allocs), ""
	case models.BudgetMethodCustom:
		allocs, err := finance.AllocateCustom(req.MonthlyIncome, req.Splits)
		if err != nil {
			return nil, err.Error()
		}
		return allocationsToCategories(allocs), ""
	case models.BudgetMethodZeroBased:
		allocs := make([]finance.Allocation, 0, len(req.Categories))
		for _, c := range req.Categories {
			allocs = append(allocs, finance.Allocation{Name: c.Name, Type: c.Type, Amount: c.Allocated})
		}
		if err := finance.ValidateZeroBased(req.MonthlyIncome, allocs); err != nil {
			return nil, err.Error()
		}
		return req.Categories, ""
	}
	return nil, "method must be one of 50_30_20, zero_based, custom"
}

func allocationsToCategories(allocs []finance.Allocation) []models.BudgetCategory {
	categories := make([]models.BudgetCategory, 0, len(allocs))
	for _, a := range allocs {
		categories = append(categories, models.BudgetCategory{
			Name:      a.Name,
			Type:      a.Type,
			Allocated: a.Amount,
		})
	}
	return categories
}

// GenerateBudget previews an allocation set without persisting anything.
func GenerateBudget() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req budgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error().Err(err).Msg("failed to decode generate budget request body")
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		categories, msg := buildCategories(req)
		if msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"method":         req.Method,
			"monthly_income": req.MonthlyIncome,
			"categories":     categories,
		})
	}
}

func CreateBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req budgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to decode create budget request body")
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		categories, msg := buildCategories(req)
		if msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		budget := &models.Budget{
			UserID:        int(userID),
			Name:          req.Name,
			Method:        req.Method,
			MonthlyIncome: req.MonthlyIncome,
			Categories:    categories,
		}
		created, err := db.CreateBudget(r.Context(), pool, budget)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to create budget")
			http.Error(w, "failed to create budget", http.StatusInternalServerError)
			return
		}
		log.Info().Str("budget_id", created.ID).Int64("user_id", userID).Str("method", created.Method).Msg("created budget")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

// fillSpent derives each category's spent figure from the current month's
// expense transactions. Transactions point at the user's category list, not
// at budget lines, so spending is matched onto budget categories by name.
func fillSpent(r *http.Request, pool *pgxpool.Pool, userID int, budget *models.Budget) error {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	txs, err := db.GetAllTransactionsForUser(r.Context(), pool, userID)
	if err != nil {
		return err
	}
	cats, err := db.GetCategoriesForUser(r.Context(), pool, userID)
	if err != nil {
		return err
	}
	applySpent(budget, finance.SpentByCategoryName(txs, cats, monthStart, now))
	return nil
}

func applySpent(budget *models.Budget, spentByName map[string]float64) {
	for i := range budget.Categories {
		budget.Categories[i].Spent = spentByName[strings.ToLower(budget.Categories[i].Name)]
	}
}

func GetBudgetByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		budgetID := chi.URLParam(r, "budget_id")
		budget, err := db.GetBudgetByID(r.Context(), pool, int(userID), budgetID)
		if err != nil {
			log.Error().Err(err).Str("budget_id", budgetID).Int64("user_id", userID).Msg("budget not found")
			http.Error(w, "budget not found", http.StatusNotFound)
			return
		}
		if err := fillSpent(r, pool, int(userID), budget); err != nil {
			log.Error().Err(err).Str("budget_id", budgetID).Msg("failed to derive spent totals")
			http.Error(w, "failed to get budget", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(budget)
	}
}

func GetAllBudgetsForUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		budgets, err := db.GetAllBudgetsForUser(r.Context(), pool, int(userID))
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get budgets")
			http.Error(w, "failed to get budgets", http.StatusInternalServerError)
			return
		}
		for i := range budgets {
			if err := fillSpent(r, pool, int(userID), &budgets[i]); err != nil {
				log.Error().Err(err).Int64("user_id", userID).Msg("failed to derive spent totals")
				http.Error(w, "failed to get budgets", http.StatusInternalServerError)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(budgets)
	}
}

func UpdateBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		budgetID := chi.URLParam(r, "budget_id")
		var req budgetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to decode update budget request body")
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		categories, msg := buildCategories(req)
		if msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		budget := &models.Budget{
			ID:            budgetID,
			UserID:        int(userID),
			Name:          req.Name,
			Method:        req.Method,
			MonthlyIncome: req.MonthlyIncome,
			Categories:    categories,
		}
		updated, err := db.UpdateBudget(r.Context(), pool, budget)
		if err != nil {
			log.Error().Err(err).Str("budget_id", budgetID).Int64("user_id", userID).Msg("failed to update budget")
			http.Error(w, "failed to update budget", http.StatusInternalServerError)
			return
		}
		log.Info().Str("budget_id", updated.ID).Int64("user_id", userID).Msg("updated budget")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		budgetID := chi.URLParam(r, "budget_id")
		if err := db.DeleteBudget(r.Context(), pool, int(userID), budgetID); err != nil {
			log.Error().Err(err).Str("budget_id", budgetID).Int64("user_id", userID).Msg("failed to delete budget")
			http.Error(w, "budget not found", http.StatusNotFound)
			return
		}
		log.Info().Str("budget_id", budgetID).Int64("user_id", userID).Msg("deleted budget")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "budget deleted"})
	}
}
