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
	"fintrack-server/src/util"
)

type priceAlertRequest struct {
	CoinID      string  `json:"coin_id"`
	TargetPrice float64 `json:"target_price"`
	Condition   string  `json:"condition"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (req *priceAlertRequest) validate() string {
	req.CoinID = strings.ToLower(strings.TrimSpace(req.CoinID))
	if req.CoinID == "" {
		return "coin_id is required"
	}
	if !util.ValidateAmount(req.TargetPrice) || req.TargetPrice <= 0 {
		return "target_price must be a positive number"
	}
	if req.Condition != models.AlertConditionAbove && req.Condition != models.AlertConditionBelow {
		return "condition must be above or below"
	}
	return ""
}

func CreatePriceAlert(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req priceAlertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to decode create price alert request body")
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if msg := req.validate(); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		active := true
		if req.IsActive != nil {
			active = *req.IsActive
		}
		created, err := db.CreatePriceAlert(r.Context(), pool, &models.PriceAlert{
			UserID:      int(userID),
			CoinID:      req.CoinID,
			TargetPrice: req.TargetPrice,
			Condition:   req.Condition,
			IsActive:    active,
		})
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to create price alert")
			http.Error(w, "failed to create price alert", http.StatusInternalServerError)
			return
		}
		log.Info().Str("alert_id", created.ID).Int64("user_id", userID).Str("coin_id", created.CoinID).Msg("created price alert")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetPriceAlerts(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		alerts, err := db.GetPriceAlertsForUser(r.Context(), pool, int(userID))
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to get price alerts")
			http.Error(w, "failed to get price alerts", http.StatusInternalServerError)
			return
		}
		// ?triggered=true narrows the list to fired alerts.
		if r.URL.Query().Get("triggered") == "true" {
			triggered := alerts[:0]
			for _, a := range alerts {
				if a.IsTriggered {
					triggered = append(triggered, a)
				}
			}
			alerts = triggered
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(alerts)
	}
}

func GetPriceAlert(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		alertID := chi.URLParam(r, "alert_id")

		alert, err := db.GetPriceAlertByID(r.Context(), pool, int(userID), alertID)
		if err != nil {
			log.Error().Err(err).Str("alert_id", alertID).Int64("user_id", userID).Msg("price alert not found")
			http.Error(w, "price alert not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(alert)
	}
}

func UpdatePriceAlert(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		alertID := chi.URLParam(r, "alert_id")

		var req priceAlertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("failed to decode update price alert request body")
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if msg := req.validate(); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		active := true
		if req.IsActive != nil {
			active = *req.IsActive
		}
		updated, err := db.UpdatePriceAlert(r.Context(), pool, &models.PriceAlert{
			ID:          alertID,
			UserID:      int(userID),
			CoinID:      req.CoinID,
			TargetPrice: req.TargetPrice,
			Condition:   req.Condition,
			IsActive:    active,
		})
		if err != nil {
			log.Error().Err(err).Str("alert_id", alertID).Int64("user_id", userID).Msg("failed to update price alert")
			http.Error(w, "price alert not found", http.StatusNotFound)
			return
		}
		log.Info().Str("alert_id", updated.ID).Int64("user_id", userID).Msg("updated price alert")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeletePriceAlert(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		alertID := chi.URLParam(r, "alert_id")
		if err := db.DeletePriceAlert(r.Context(), pool, int(userID), alertID); err != nil {
			log.Error().Err(err).Str("alert_id", alertID).Int64("user_id", userID).Msg("failed to delete price alert")
			http.Error(w, "price alert not found", http.StatusNotFound)
			return
		}
		log.Info().Str("alert_id", alertID).Int64("user_id", userID).Msg("deleted price alert")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "price alert deleted"})
	}
}
