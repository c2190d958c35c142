package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"fintrack-server/src/market"
)

func GetCryptoPrices(client *market.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("ids")
		if strings.TrimSpace(raw) == "" {
			http.Error(w, "ids query parameter is required", http.StatusBadRequest)
			return
		}
		var ids []string
		for _, id := range strings.Split(raw, ",") {
			id = strings.ToLower(strings.TrimSpace(id))
			if id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			http.Error(w, "ids query parameter is required", http.StatusBadRequest)
			return
		}
		prices, err := client.Prices(r.Context(), ids)
		if err != nil {
			log.Error().Err(err).Strs("ids", ids).Msg("failed to fetch crypto prices")
			http.Error(w, "failed to fetch prices", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(prices)
	}
}

func SearchCrypto(client *market.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			http.Error(w, "q query parameter is required", http.StatusBadRequest)
			return
		}
		coins, err := client.Search(r.Context(), query)
		if err != nil {
			log.Error().Err(err).Str("query", query).Msg("failed to search coins")
			http.Error(w, "failed to search coins", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(coins)
	}
}
