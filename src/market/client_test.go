package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPricesParsesQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/simple/price", r.URL.Path)
		require.Equal(t, "bitcoin,ethereum", r.URL.Query().Get("ids"))
		w.Write([]byte(`{"bitcoin":{"usd":64250.12},"ethereum":{"usd":3401.5}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil, time.Minute)
	prices, err := c.Prices(context.Background(), []string{"ethereum", "bitcoin"})
	require.NoError(t, err)
	require.InDelta(t, 64250.12, prices["bitcoin"], 0.001)
	require.InDelta(t, 3401.5, prices["ethereum"], 0.001)
}

func TestPricesDeduplicatesUpstreamCalls(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"bitcoin":{"usd":64000}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil, time.Minute)
	for i := 0; i < 5; i++ {
		_, err := c.Prices(context.Background(), []string{"bitcoin"})
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestPricesPropagatesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, nil, time.Minute)
	_, err := c.Prices(context.Background(), []string{"bitcoin"})
	require.ErrorContains(t, err, "status 502")
}

func TestPricesEmptyIDs(t *testing.T) {
	c := New("http://unused.invalid", nil, time.Minute)
	prices, err := c.Prices(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, prices)
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "bit", r.URL.Query().Get("query"))
		w.Write([]byte(`{"coins":[{"id":"bitcoin","name":"Bitcoin","symbol":"btc"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil, time.Minute)
	coins, err := c.Search(context.Background(), "bit")
	require.NoError(t, err)
	require.Len(t, coins, 1)
	require.Equal(t, "bitcoin", coins[0].ID)

	_, err = c.Search(context.Background(), "  ")
	require.Error(t, err)
}
