package flightaware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegors/flightboard/pkg/logger"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client := NewClient(baseURL, "test-api-key", 5*time.Second, logger.NewNop())
	client.now = func() time.Time {
		return time.Date(2025, 2, 14, 20, 47, 8, 123456789, time.UTC)
	}
	return client
}

func TestFetchRequestShape(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join("testdata", "cykf-flights.json"))
	require.NoError(t, err)

	var gotPath, gotKey, gotStart, gotEnd string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-Apikey")
		gotStart = r.URL.Query().Get("start")
		gotEnd = r.URL.Query().Get("end")
		w.Header().Set("Content-Type", "application/json")
		w.Write(fixture) //nolint:errcheck
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	snapshot, err := client.Fetch(context.Background(), "CYKF")
	require.NoError(t, err)

	assert.Equal(t, "/airports/CYKF/flights", gotPath)
	assert.Equal(t, "test-api-key", gotKey)

	// Second precision, trailing Z, no fractional seconds
	assert.Equal(t, "2025-02-14T20:47:08Z", gotStart)
	assert.Equal(t, "2025-02-15T08:47:08Z", gotEnd)

	require.Len(t, snapshot.ScheduledArrivals, 2)
	require.NotNil(t, snapshot.ScheduledArrivals[0].Ident)
	assert.Equal(t, "FLE2401", *snapshot.ScheduledArrivals[0].Ident)
	assert.Equal(t, "FLE2401-1739342011-airline-1495p", snapshot.ScheduledArrivals[0].FAFlightID)
}

func TestFetchNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Fetch(context.Background(), "CYKF")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestFetchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"arrivals": "nope"}`)) //nolint:errcheck
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Fetch(context.Background(), "CYKF")
	require.Error(t, err)
}

func TestFetchNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := newTestClient(t, server.URL)
	_, err := client.Fetch(context.Background(), "CYKF")
	require.Error(t, err)
}
