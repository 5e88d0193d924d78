package trmnl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegors/flightboard/internal/flightaware"
	"github.com/yegors/flightboard/pkg/logger"
)

var evalTime = time.Date(2025, 2, 14, 20, 47, 8, 0, time.UTC)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func arrival(id string, estimatedIn *time.Time, status *string) flightaware.Flight {
	return flightaware.Flight{
		FAFlightID:   id + "-1739342011-airline-0001",
		Ident:        strPtr(id),
		Status:       status,
		AircraftType: strPtr("B38M"),
		EstimatedIn:  estimatedIn,
		Origin: &flightaware.Airport{
			Code: strPtr("CYVR"),
			Name: strPtr("Vancouver Int'l"),
		},
	}
}

func TestFormatArrival(t *testing.T) {
	formatter := NewFormatter(logger.NewNop())
	eta := time.Date(2025, 2, 15, 3, 35, 0, 0, time.UTC)

	board := formatter.Format(
		[]flightaware.Flight{arrival("FLE2401", timePtr(eta), strPtr("Scheduled"))},
		nil, evalTime)

	require.Len(t, board.Arrivals, 1)
	row := board.Arrivals[0]
	assert.Equal(t, "FLE2401", row.DisplayName)
	assert.Equal(t, "Vancouver Int'l", row.Location)
	assert.Equal(t, "Feb 15 – 03:35", row.ETA)
	assert.Equal(t, "Scheduled", row.Status)
	assert.Equal(t, "B38M", row.Aircraft)
}

func TestFormatDeparture(t *testing.T) {
	formatter := NewFormatter(logger.NewNop())
	etd := time.Date(2025, 2, 15, 3, 50, 0, 0, time.UTC)

	departure := flightaware.Flight{
		FAFlightID:   "FLE2402-1739342011-airline-0002",
		Ident:        strPtr("FLE2402"),
		Status:       strPtr("Scheduled"),
		AircraftType: strPtr("B38M"),
		EstimatedOut: timePtr(etd),
		Destination: &flightaware.Airport{
			Name: strPtr("Vancouver Int'l"),
		},
	}

	board := formatter.Format(nil, []flightaware.Flight{departure}, evalTime)

	require.Len(t, board.Departures, 1)
	row := board.Departures[0]
	assert.Equal(t, "FLE2402", row.DisplayName)
	assert.Equal(t, "Vancouver Int'l", row.Location)
	assert.Equal(t, "Feb 15 – 03:50", row.ETA)
}

func TestStalenessFilter(t *testing.T) {
	formatter := NewFormatter(logger.NewNop())

	nineMinAgo := evalTime.Add(-9 * time.Minute)
	elevenMinAgo := evalTime.Add(-11 * time.Minute)
	future := evalTime.Add(2 * time.Hour)

	flights := []flightaware.Flight{
		arrival("KEEP1", timePtr(nineMinAgo), strPtr("En Route")),
		arrival("DROP1", timePtr(elevenMinAgo), strPtr("En Route")),
		arrival("DROP2", nil, strPtr("Scheduled")),
		arrival("DROP3", timePtr(future), strPtr("Arrived")),
		arrival("KEEP2", timePtr(future), strPtr("Scheduled")),
	}

	board := formatter.Format(flights, nil, evalTime)

	require.Len(t, board.Arrivals, 2)
	// Filtering is stable: survivors keep input order
	assert.Equal(t, "KEEP1", board.Arrivals[0].DisplayName)
	assert.Equal(t, "KEEP2", board.Arrivals[1].DisplayName)
}

func TestFormatToleratesMissingFields(t *testing.T) {
	formatter := NewFormatter(logger.NewNop())
	eta := evalTime.Add(time.Hour)

	bare := flightaware.Flight{
		FAFlightID:  "BARE-1739342011-airline-0003",
		EstimatedIn: timePtr(eta),
	}

	board := formatter.Format([]flightaware.Flight{bare}, nil, evalTime)

	require.Len(t, board.Arrivals, 1)
	row := board.Arrivals[0]
	assert.Empty(t, row.DisplayName)
	assert.Empty(t, row.Location)
	assert.Empty(t, row.Status)
	assert.Empty(t, row.Aircraft)
	assert.NotEmpty(t, row.ETA)
}

func TestFormatEmptyLists(t *testing.T) {
	formatter := NewFormatter(logger.NewNop())

	board := formatter.Format(nil, nil, evalTime)
	assert.NotNil(t, board.Arrivals)
	assert.NotNil(t, board.Departures)
	assert.Empty(t, board.Arrivals)
	assert.Empty(t, board.Departures)
}
