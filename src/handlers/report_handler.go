package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	cache "fintrack-server/src/db"
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/finance"
)

// Reports are computed from the user's full transaction history and cached;
// any transaction write clears the whole report cache.

func GetNetWorth(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		cacheKey := fmt.Sprintf("report:networth:%d", userID)
		if cached, found := cache.Cache.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}
		txs, err := db.GetAllTransactionsForUser(r.Context(), pool, int(userID))
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to load transactions for net worth report")
			http.Error(w, "failed to compute net worth", http.StatusInternalServerError)
			return
		}
		report := map[string]float64{"net_worth": finance.NetWorth(txs)}
		cache.SetReportCache(cacheKey, report)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}

func GetSavingsRate(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		now := time.Now().UTC()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

		cacheKey := fmt.Sprintf("report:savings:%d:%s", userID, monthStart.Format("2006-01"))
		if cached, found := cache.Cache.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}
		txs, err := db.GetAllTransactionsForUser(r.Context(), pool, int(userID))
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to load transactions for savings rate report")
			http.Error(w, "failed to compute savings rate", http.StatusInternalServerError)
			return
		}
		income, expenses := finance.PeriodTotals(txs, monthStart, now)
		report := map[string]float64{
			"income":       income,
			"expenses":     expenses,
			"savings_rate": finance.SavingsRate(income, expenses),
		}
		cache.SetReportCache(cacheKey, report)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}

func GetHealthScore(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		cacheKey := fmt.Sprintf("report:health:%d", userID)
		if cached, found := cache.Cache.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}
		txs, err := db.GetAllTransactionsForUser(r.Context(), pool, int(userID))
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to load transactions for health score")
			http.Error(w, "failed to compute health score", http.StatusInternalServerError)
			return
		}
		score := finance.ComputeHealthScore(txs)
		cache.SetReportCache(cacheKey, score)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(score)
	}
}
