package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptySources(t *testing.T) {
	_, err := New(zerolog.Nop(), nil)
	require.Error(t, err)
}

func TestAggregator_Fetch_FirstFreshWins(t *testing.T) {
	now := time.Unix(1_700_000_100, 0)

	stale := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"created_at":1699999000,"prices":[{"currency":"ATOM","price":"9.0"}]}`))
	}))
	defer stale.Close()

	fresh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"created_at":1700000099,"prices":[{"currency":"ATOM","price":"10.5"}]}`))
	}))
	defer fresh.Close()

	agg, err := New(zerolog.Nop(), []string{stale.URL, fresh.URL})
	require.NoError(t, err)
	agg.now = func() time.Time { return now }

	prices, err := agg.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, prices, 1)
	require.Equal(t, "ATOM", prices[0].Currency)
	require.Equal(t, "10.500000000000000000", prices[0].Price.String())
}

func TestAggregator_Fetch_TieBreaksOnSourceOrder(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"created_at":1700000000,"prices":[{"currency":"ATOM","price":"1.0"}]}`))
	}))
	defer first.Close()

	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"created_at":1700000000,"prices":[{"currency":"ATOM","price":"2.0"}]}`))
	}))
	defer second.Close()

	agg, err := New(zerolog.Nop(), []string{first.URL, second.URL})
	require.NoError(t, err)
	agg.now = func() time.Time { return now }

	prices, err := agg.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, prices, 1)
	require.Equal(t, "1.000000000000000000", prices[0].Price.String())
}

func TestAggregator_Fetch_AllStale(t *testing.T) {
	now := time.Unix(1_700_001_000, 0)

	stale := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"created_at":1699999000,"prices":[{"currency":"ATOM","price":"9.0"}]}`))
	}))
	defer stale.Close()

	agg, err := New(zerolog.Nop(), []string{stale.URL})
	require.NoError(t, err)
	agg.now = func() time.Time { return now }

	_, err = agg.Fetch(context.Background())
	require.Error(t, err)
}
