package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
)

func CreateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Name string `json:"name"`
			Type string `json:"type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to decode create category request body")
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		if req.Type != models.TransactionTypeIncome && req.Type != models.TransactionTypeExpense {
			http.Error(w, "type must be income or expense", http.StatusBadRequest)
			return
		}
		created, err := db.CreateCategory(r.Context(), pool, &models.Category{
			UserID: int(userID),
			Name:   req.Name,
			Type:   req.Type,
		})
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				http.Error(w, "category already exists", http.StatusConflict)
				return
			}
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to create category")
			http.Error(w, "failed to create category", http.StatusInternalServerError)
			return
		}
		log.Info().Str("category_id", created.ID).Int64("user_id", userID).Msg("created category")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetCategories(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		categories, err := db.GetCategoriesForUser(r.Context(), pool, int(userID))
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get categories")
			http.Error(w, "failed to get categories", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(categories)
	}
}

func DeleteCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		categoryID := chi.URLParam(r, "category_id")
		if err := db.DeleteCategory(r.Context(), pool, int(userID), categoryID); err != nil {
			log.Error().Err(err).Str("category_id", categoryID).Int64("user_id", userID).Msg("failed to delete category")
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		log.Info().Str("category_id", categoryID).Int64("user_id", userID).Msg("deleted category")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "category deleted"})
	}
}
