package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegors/flightboard/internal/board"
	"github.com/yegors/flightboard/internal/cache"
	"github.com/yegors/flightboard/internal/config"
	"github.com/yegors/flightboard/internal/flightaware"
	"github.com/yegors/flightboard/internal/trmnl"
	"github.com/yegors/flightboard/pkg/logger"
)

type stubFetcher struct{}

func (stubFetcher) Fetch(ctx context.Context, airportCode string) (*flightaware.Snapshot, error) {
	return nil, nil
}

type stubPusher struct{}

func (stubPusher) Push(ctx context.Context, b trmnl.Board, airportCode string) error {
	return nil
}

func newTestRouter(t *testing.T, seed bool) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Station: config.StationConfig{
			AirportCode: "CYKF",
			DataPath:    t.TempDir(),
		},
		FlightAware: config.FlightAwareConfig{FetchIntervalMS: 1000},
		TRMNL:       config.TRMNLConfig{PostIntervalMS: 1000},
	}
	log := logger.NewNop()
	store := cache.NewStore(cfg.Station.DataPath, log)
	service := board.NewService(cfg, stubFetcher{}, store, trmnl.NewFormatter(log), stubPusher{}, log)

	if seed {
		eta := time.Now().UTC().Add(time.Hour)
		ident := "FLE2401"
		status := "Scheduled"
		require.NoError(t, store.Write("CYKF", &flightaware.Snapshot{
			Arrivals:   []flightaware.Flight{},
			Departures: []flightaware.Flight{},
			ScheduledArrivals: []flightaware.Flight{{
				FAFlightID:  "FLE2401-1739342011-airline-0001",
				Ident:       &ident,
				Status:      &status,
				EstimatedIn: &eta,
			}},
			ScheduledDepartures: []flightaware.Flight{},
			NumPages:            1,
		}))
	}

	return NewRouter(service, cfg, log).Routes()
}

func TestGetHealth(t *testing.T) {
	router := newTestRouter(t, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestGetStatusWithoutData(t *testing.T) {
	router := newTestRouter(t, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		Airport      string `json:"airport"`
		HasSnapshot  bool   `json:"has_snapshot"`
		BoardVisible bool   `json:"board_visible"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "CYKF", status.Airport)
	assert.False(t, status.HasSnapshot)
	assert.False(t, status.BoardVisible)
}

func TestGetBoardWithoutData(t *testing.T) {
	router := newTestRouter(t, false)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/board", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBoardWithCachedData(t *testing.T) {
	router := newTestRouter(t, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/board", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var boardData trmnl.Board
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &boardData))
	require.Len(t, boardData.Arrivals, 1)
	assert.Equal(t, "FLE2401", boardData.Arrivals[0].DisplayName)
	assert.Empty(t, boardData.Departures)
}
