package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/yegors/flightboard/internal/flightaware"
	"github.com/yegors/flightboard/pkg/logger"
)

// Cached is the on-disk envelope around a flights snapshot
type Cached struct {
	Code      string                `json:"code"`
	Timestamp time.Time             `json:"timestamp"`
	Data      *flightaware.Snapshot `json:"data"`
}

// Store persists the most recent flights snapshot to one JSON file per
// airport. Writes go through a temp file and an atomic rename so a
// reader never sees a partial file and a failed write never destroys
// the previous good cache.
type Store struct {
	dir    string
	logger *logger.Logger
	now    func() time.Time
}

// NewStore creates a snapshot store rooted at dir
func NewStore(dir string, logger *logger.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logger.Named("cache-store"),
		now:    time.Now,
	}
}

func (s *Store) filePath(airportCode string) string {
	return filepath.Join(s.dir, strings.ToLower(airportCode)+"-flights.json")
}

func (s *Store) tempPath(airportCode string) string {
	return filepath.Join(s.dir, strings.ToLower(airportCode)+"-flights-temp.json")
}

// Write persists a snapshot with the current time as its capture
// timestamp. Failures are returned for logging; the caller is expected
// to carry on with its in-memory copy.
func (s *Store) Write(airportCode string, snapshot *flightaware.Snapshot) error {
	cached := Cached{
		Code:      strings.ToLower(airportCode),
		Timestamp: s.now().UTC(),
		Data:      snapshot,
	}

	payload, err := json.MarshalIndent(cached, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	tempPath := s.tempPath(airportCode)
	if err := os.WriteFile(tempPath, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}

	finalPath := s.filePath(airportCode)
	if err := os.Rename(tempPath, finalPath); err != nil {
		// Clean up so temp files don't accumulate. The previous cache
		// file is still intact since it was never touched.
		if rmErr := os.Remove(tempPath); rmErr != nil {
			s.logger.Warn("Failed to remove temp cache file",
				logger.String("path", tempPath),
				logger.Error(rmErr),
			)
		}
		return fmt.Errorf("failed to rename temp cache file: %w", err)
	}

	s.logger.Debug("Cached snapshot written",
		logger.String("airport", airportCode),
		logger.String("path", finalPath),
		logger.Int("flight_count", snapshot.FlightCount()),
	)

	return nil
}

// Read loads the cached snapshot for an airport. A missing, unreadable
// or malformed file all return nil: having no usable cache is a normal
// state, not an error.
func (s *Store) Read(airportCode string) *Cached {
	path := s.filePath(airportCode)

	payload, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read cache file",
				logger.String("path", path),
				logger.Error(err),
			)
		}
		return nil
	}

	var cached Cached
	if err := json.Unmarshal(payload, &cached); err != nil {
		s.logger.Warn("Discarding malformed cache file",
			logger.String("path", path),
			logger.Error(err),
		)
		return nil
	}
	if cached.Data == nil || cached.Timestamp.IsZero() {
		s.logger.Warn("Discarding incomplete cache file",
			logger.String("path", path),
		)
		return nil
	}

	return &cached
}
