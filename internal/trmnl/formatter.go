package trmnl

import (
	"time"

	"github.com/yegors/flightboard/internal/flightaware"
	"github.com/yegors/flightboard/pkg/logger"
)

// staleGrace is how far into the past an estimate may drift before the
// flight is dropped from the board.
const staleGrace = 10 * time.Minute

// statusArrived marks flights that are already on the ground.
const statusArrived = "Arrived"

// etaLayout renders estimates as "Feb 15 – 03:35": en-US month
// abbreviation, 24-hour clock, en-dash separator. Estimates are UTC
// instants and render in UTC.
const etaLayout = "Jan 2 – 15:04"

// DisplayFlight is one row of the TRMNL board. Ephemeral, rebuilt per
// push cycle, never persisted.
type DisplayFlight struct {
	DisplayName string `json:"displayName"`
	Location    string `json:"location"`
	ETA         string `json:"eta"`
	Status      string `json:"status"`
	Aircraft    string `json:"aircraft"`
}

// Board holds the formatted arrivals and departures for one push
type Board struct {
	Arrivals   []DisplayFlight `json:"arrivals"`
	Departures []DisplayFlight `json:"departures"`
}

// Formatter filters stale flights and maps the survivors to board rows
type Formatter struct {
	logger *logger.Logger
}

// NewFormatter creates a board formatter
func NewFormatter(logger *logger.Logger) *Formatter {
	return &Formatter{
		logger: logger.Named("trmnl-format"),
	}
}

// Format builds the display board from arrival and departure lists,
// evaluated at the given time. Filtering is stable: surviving flights
// keep their input order.
func (f *Formatter) Format(arrivals, departures []flightaware.Flight, now time.Time) Board {
	board := Board{
		Arrivals:   make([]DisplayFlight, 0, len(arrivals)),
		Departures: make([]DisplayFlight, 0, len(departures)),
	}

	for _, flight := range arrivals {
		if isStale(flight, flight.EstimatedIn, now) {
			continue
		}
		board.Arrivals = append(board.Arrivals, displayRow(flight, flight.EstimatedIn, flight.Origin))
	}
	for _, flight := range departures {
		if isStale(flight, flight.EstimatedOut, now) {
			continue
		}
		board.Departures = append(board.Departures, displayRow(flight, flight.EstimatedOut, flight.Destination))
	}

	f.logger.Debug("Formatted board",
		logger.Int("arrivals_in", len(arrivals)),
		logger.Int("arrivals_out", len(board.Arrivals)),
		logger.Int("departures_in", len(departures)),
		logger.Int("departures_out", len(board.Departures)),
	)

	return board
}

// isStale reports whether a flight should be dropped from the board:
// no estimate, estimate too far in the past, or already arrived.
func isStale(flight flightaware.Flight, estimate *time.Time, now time.Time) bool {
	if estimate == nil {
		return true
	}
	if estimate.Before(now.Add(-staleGrace)) {
		return true
	}
	if flight.Status != nil && *flight.Status == statusArrived {
		return true
	}
	return false
}

// displayRow maps one surviving flight to a board row. The endpoint is
// the origin for arrivals and the destination for departures; a missing
// endpoint or name just leaves the location empty.
func displayRow(flight flightaware.Flight, estimate *time.Time, endpoint *flightaware.Airport) DisplayFlight {
	row := DisplayFlight{
		DisplayName: stringValue(flight.Ident),
		Status:      stringValue(flight.Status),
		Aircraft:    stringValue(flight.AircraftType),
	}
	if endpoint != nil {
		row.Location = stringValue(endpoint.Name)
	}
	if estimate != nil {
		row.ETA = estimate.UTC().Format(etaLayout)
	}
	return row
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
