package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	cache "fintrack-server/src/db"
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
)

type transactionRequest struct {
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	CategoryID  *string `json:"category_id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	IsRecurring bool    `json:"is_recurring"`
}

func (req *transactionRequest) toModel(userID int) (*models.Transaction, string) {
	if !models.ValidTransactionType(req.Type) {
		return nil, "type must be one of income, expense, asset, liability"
	}
	if !util.ValidateAmount(req.Amount) {
		return nil, "amount must be a non-negative number"
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}
	if !util.ValidateCurrency(req.Currency) {
		return nil, "currency must be a 3-letter code"
	}
	date, ok := util.ParseDate(req.Date)
	if !ok {
		return nil, "date must be YYYY-MM-DD or RFC3339"
	}
	return &models.Transaction{
		UserID:      userID,
		Type:        req.Type,
		Amount:      req.Amount,
		Currency:    req.Currency,
		CategoryID:  req.CategoryID,
		Date:        date,
		Description: req.Description,
		IsRecurring: req.IsRecurring,
		CreatedBy:   userID,
	}, ""
}

func CreateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to decode create transaction request body")
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		tx, msg := req.toModel(int(userID))
		if msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		created, err := db.CreateTransaction(r.Context(), pool, tx)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to create transaction")
			http.Error(w, "failed to create transaction", http.StatusInternalServerError)
			return
		}
		cache.ClearAllTransactionCaches()
		cache.ClearAllReportCaches()
		log.Info().Str("transaction_id", created.ID).Int64("user_id", userID).Str("type", created.Type).Msg("created transaction")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		filter := models.TransactionFilter{
			Type:       r.URL.Query().Get("type"),
			CategoryID: r.URL.Query().Get("category_id"),
		}
		if filter.Type != "" && !models.ValidTransactionType(filter.Type) {
			http.Error(w, "invalid type filter", http.StatusBadRequest)
			return
		}
		if from := r.URL.Query().Get("from"); from != "" {
			t, ok := util.ParseDate(from)
			if !ok {
				http.Error(w, "invalid from date", http.StatusBadRequest)
				return
			}
			filter.From = t
		}
		if to := r.URL.Query().Get("to"); to != "" {
			t, ok := util.ParseDate(to)
			if !ok {
				http.Error(w, "invalid to date", http.StatusBadRequest)
				return
			}
			filter.To = t
		}
		if limit := r.URL.Query().Get("limit"); limit != "" {
			n, err := strconv.Atoi(limit)
			if err != nil || n < 1 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			filter.Limit = n
		}
		if offset := r.URL.Query().Get("offset"); offset != "" {
			n, err := strconv.Atoi(offset)
			if err != nil || n < 0 {
				http.Error(w, "invalid offset", http.StatusBadRequest)
				return
			}
			filter.Offset = n
		}

		cacheKey := fmt.Sprintf("transactions:%d:%s", userID, r.URL.RawQuery)
		if cached, found := cache.Cache.Get(cacheKey); found {
			if txs, ok := cached.([]models.Transaction); ok {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(txs)
				return
			}
		}

		txs, err := db.GetTransactions(r.Context(), pool, int(userID), filter)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get transactions")
			http.Error(w, "failed to get transactions", http.StatusInternalServerError)
			return
		}
		cache.SetTransactionCache(cacheKey, txs)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(txs)
	}
}

func GetTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		txID := chi.URLParam(r, "transaction_id")

		tx, err := db.GetTransactionByID(r.Context(), pool, int(userID), txID)
		if err != nil {
			log.Error().Err(err).Str("transaction_id", txID).Int64("user_id", userID).Msg("transaction not found")
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tx)
	}
}

func UpdateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		txID := chi.URLParam(r, "transaction_id")

		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to decode update transaction request body")
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		tx, msg := req.toModel(int(userID))
		if msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		tx.ID = txID

		updated, err := db.UpdateTransaction(r.Context(), pool, tx)
		if err != nil {
			log.Error().Err(err).Str("transaction_id", txID).Int64("user_id", userID).Msg("failed to update transaction")
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		cache.ClearAllTransactionCaches()
		cache.ClearAllReportCaches()
		log.Info().Str("transaction_id", updated.ID).Int64("user_id", userID).Msg("updated transaction")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		txID := chi.URLParam(r, "transaction_id")

		if err := db.DeleteTransaction(r.Context(), pool, int(userID), txID); err != nil {
			log.Error().Err(err).Str("transaction_id", txID).Int64("user_id", userID).Msg("failed to delete transaction")
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		cache.ClearAllTransactionCaches()
		cache.ClearAllReportCaches()
		log.Info().Str("transaction_id", txID).Int64("user_id", userID).Msg("deleted transaction")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "transaction deleted"})
	}
}
