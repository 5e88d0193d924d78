package flightaware

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// Airport identifies one endpoint of a flight leg. Everything AeroAPI
// sends here is optional.
type Airport struct {
	Code     *string `json:"code"`
	Name     *string `json:"name"`
	City     *string `json:"city"`
	Timezone *string `json:"timezone"`

	extra map[string]json.RawMessage
}

// Flight is one leg of travel as reported by AeroAPI. Only the
// fa_flight_id is guaranteed; every other field is best-effort and may
// be null.
type Flight struct {
	FAFlightID      string     `json:"fa_flight_id"`
	Ident           *string    `json:"ident"`
	Operator        *string    `json:"operator"`
	Registration    *string    `json:"registration"`
	AircraftType    *string    `json:"aircraft_type"`
	Status          *string    `json:"status"`
	Type            *string    `json:"type"`
	Origin          *Airport   `json:"origin"`
	Destination     *Airport   `json:"destination"`
	ProgressPercent *float64   `json:"progress_percent"`
	EstimatedIn     *time.Time `json:"estimated_in"`
	EstimatedOut    *time.Time `json:"estimated_out"`

	extra map[string]json.RawMessage
}

// Links holds the pagination link of a flights response
type Links struct {
	Next string `json:"next"`
}

// Snapshot is the full AeroAPI flights response for one airport at one
// point in time. It is immutable once decoded; a newer fetch replaces
// it wholesale.
type Snapshot struct {
	Arrivals            []Flight `json:"arrivals"`
	Departures          []Flight `json:"departures"`
	ScheduledArrivals   []Flight `json:"scheduled_arrivals"`
	ScheduledDepartures []Flight `json:"scheduled_departures"`
	Links               *Links   `json:"links"`
	NumPages            int      `json:"num_pages"`

	extra map[string]json.RawMessage
}

var airportKnownKeys = []string{"code", "name", "city", "timezone"}

var flightKnownKeys = []string{
	"fa_flight_id", "ident", "operator", "registration", "aircraft_type",
	"status", "type", "origin", "destination", "progress_percent",
	"estimated_in", "estimated_out",
}

var snapshotKnownKeys = []string{
	"arrivals", "departures", "scheduled_arrivals", "scheduled_departures",
	"links", "num_pages",
}

// splitExtra returns whatever raw keys are left after removing the
// known ones, or nil when nothing unrecognized was present.
func splitExtra(raw map[string]json.RawMessage, known []string) map[string]json.RawMessage {
	for _, k := range known {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil
	}
	return raw
}

// mergeExtra re-attaches preserved unknown fields to an encoded object.
// Known fields win on key collisions.
func mergeExtra(encoded []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return encoded, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &merged); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes an airport, keeping unrecognized fields
func (a *Airport) UnmarshalJSON(data []byte) error {
	type plain Airport
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.extra = splitExtra(raw, airportKnownKeys)
	*a = Airport(p)
	return nil
}

// MarshalJSON encodes an airport, re-emitting preserved unknown fields
func (a Airport) MarshalJSON() ([]byte, error) {
	type plain Airport
	encoded, err := json.Marshal(plain(a))
	if err != nil {
		return nil, err
	}
	return mergeExtra(encoded, a.extra)
}

// UnmarshalJSON decodes a flight, keeping unrecognized fields. The
// fa_flight_id is the one field that must be present.
func (f *Flight) UnmarshalJSON(data []byte) error {
	type plain Flight
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.FAFlightID == "" {
		return fmt.Errorf("flight is missing fa_flight_id")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.extra = splitExtra(raw, flightKnownKeys)
	*f = Flight(p)
	return nil
}

// MarshalJSON encodes a flight, re-emitting preserved unknown fields
func (f Flight) MarshalJSON() ([]byte, error) {
	type plain Flight
	encoded, err := json.Marshal(plain(f))
	if err != nil {
		return nil, err
	}
	return mergeExtra(encoded, f.extra)
}

// ExtraField returns a preserved unknown field by key
func (f *Flight) ExtraField(key string) (json.RawMessage, bool) {
	v, ok := f.extra[key]
	return v, ok
}

// UnmarshalJSON decodes a snapshot, keeping unrecognized top-level
// fields. The four flight lists must be present.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range []string{"arrivals", "departures", "scheduled_arrivals", "scheduled_departures"} {
		if _, ok := raw[key]; !ok {
			return fmt.Errorf("flights response is missing %q", key)
		}
	}

	type plain Snapshot
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.extra = splitExtra(raw, snapshotKnownKeys)
	*s = Snapshot(p)
	return nil
}

// MarshalJSON encodes a snapshot, re-emitting preserved unknown fields
func (s Snapshot) MarshalJSON() ([]byte, error) {
	type plain Snapshot
	encoded, err := json.Marshal(plain(s))
	if err != nil {
		return nil, err
	}
	return mergeExtra(encoded, s.extra)
}

// ExtraField returns a preserved unknown top-level field by key
func (s *Snapshot) ExtraField(key string) (json.RawMessage, bool) {
	v, ok := s.extra[key]
	return v, ok
}

// FlightCount returns the total number of flights across all four lists
func (s *Snapshot) FlightCount() int {
	return len(s.Arrivals) + len(s.Departures) +
		len(s.ScheduledArrivals) + len(s.ScheduledDepartures)
}
