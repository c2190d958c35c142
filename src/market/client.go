package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"fintrack-server/src/syncutil"
)

// Client proxies the third-party market data API. Quotes are cached in Redis
// when a client is configured; concurrent identical lookups are collapsed so
// a burst of dashboard loads costs one upstream call.
type Client struct {
	httpClient *http.Client
	baseURL    string
	redis      *redis.Client
	cacheTTL   time.Duration
	prices     *syncutil.Deduplicator[map[string]float64]
	searches   *syncutil.Deduplicator[[]Coin]
}

type Coin struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// New builds a market client. redisClient may be nil; caching then relies on
// the deduplicator's TTL alone.
func New(baseURL string, redisClient *redis.Client, cacheTTL time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		redis:      redisClient,
		cacheTTL:   cacheTTL,
		prices:     syncutil.NewDeduplicator[map[string]float64](cacheTTL),
		searches:   syncutil.NewDeduplicator[[]Coin](cacheTTL),
	}
}

// Prices returns current USD prices for the given coin ids.
func (c *Client) Prices(ctx context.Context, ids []string) (map[string]float64, error) {
	if len(ids) == 0 {
		return map[string]float64{}, nil
	}
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	key := "market:prices:" + strings.Join(sorted, ",")

	if cached, ok := c.redisGet(ctx, key); ok {
		var prices map[string]float64
		if err := json.Unmarshal(cached, &prices); err == nil {
			return prices, nil
		}
	}

	return c.prices.Do(ctx, key, func() (map[string]float64, error) {
		prices, err := c.fetchPrices(ctx, sorted)
		if err != nil {
			return nil, err
		}
		c.redisSet(ctx, key, prices)
		return prices, nil
	})
}

func (c *Client) fetchPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		c.baseURL, url.QueryEscape(strings.Join(ids, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market api returned status %d", resp.StatusCode)
	}

	var raw map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode market response: %w", err)
	}

	prices := make(map[string]float64, len(raw))
	for id, quotes := range raw {
		prices[id] = quotes["usd"]
	}
	return prices, nil
}

// Search looks up coins by name or symbol.
func (c *Client) Search(ctx context.Context, query string) ([]Coin, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}

	return c.searches.Do(ctx, "market:search:"+strings.ToLower(query), func() ([]Coin, error) {
		endpoint := fmt.Sprintf("%s/search?query=%s", c.baseURL, url.QueryEscape(query))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("market api request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("market api returned status %d", resp.StatusCode)
		}

		var raw struct {
			Coins []Coin `json:"coins"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode search response: %w", err)
		}
		return raw.Coins, nil
	})
}

// redisGet and redisSet are best-effort: a Redis failure only costs the cache
// hit, never the request.

func (c *Client) redisGet(ctx context.Context, key string) ([]byte, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Client) redisSet(ctx context.Context, key string, value any) {
	if c.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}
