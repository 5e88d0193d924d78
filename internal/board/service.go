package board

import (
	"context"
	"sync"
	"time"

	"github.com/yegors/flightboard/internal/cache"
	"github.com/yegors/flightboard/internal/config"
	"github.com/yegors/flightboard/internal/flightaware"
	"github.com/yegors/flightboard/internal/trmnl"
	"github.com/yegors/flightboard/pkg/logger"
)

// Fetcher retrieves a fresh flights snapshot for an airport
type Fetcher interface {
	Fetch(ctx context.Context, airportCode string) (*flightaware.Snapshot, error)
}

// Pusher delivers a formatted board to the display webhook
type Pusher interface {
	Push(ctx context.Context, board trmnl.Board, airportCode string) error
}

// Service drives the two periodic cycles: fetch-and-cache on the
// FlightAware interval, format-and-push on the TRMNL interval. It is
// the sole owner of the in-memory latest-snapshot slot; the fetch cycle
// replaces it wholesale on success and the push cycle only reads it.
type Service struct {
	airportCode   string
	fetchInterval time.Duration
	pushInterval  time.Duration

	fetcher   Fetcher
	store     *cache.Store
	formatter *trmnl.Formatter
	pusher    Pusher
	logger    *logger.Logger
	now       func() time.Time

	mu     sync.RWMutex
	latest *flightaware.Snapshot
}

// NewService creates the orchestrator
func NewService(
	cfg *config.Config,
	fetcher Fetcher,
	store *cache.Store,
	formatter *trmnl.Formatter,
	pusher Pusher,
	logger *logger.Logger,
) *Service {
	return &Service{
		airportCode:   cfg.Station.AirportCode,
		fetchInterval: cfg.FetchInterval(),
		pushInterval:  cfg.PostInterval(),
		fetcher:       fetcher,
		store:         store,
		formatter:     formatter,
		pusher:        pusher,
		logger:        logger.Named("board"),
		now:           time.Now,
	}
}

// AirportCode returns the airport this instance serves
func (s *Service) AirportCode() string {
	return s.airportCode
}

// Latest returns the in-memory snapshot, or nil before the first
// successful fetch when no fresh-enough cache existed.
func (s *Service) Latest() *flightaware.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Service) setLatest(snapshot *flightaware.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = snapshot
}

// Run starts both cycles and blocks until the context is cancelled.
// The first fetch is delayed per the cache reconciliation so restarts
// do not re-fetch more often than the configured interval.
func (s *Service) Run(ctx context.Context) {
	cached := s.store.Read(s.airportCode)
	rec := cache.ReconcileStartupDelay(cached, s.fetchInterval, s.now())
	if rec.Usable != nil {
		s.setLatest(rec.Usable)
		s.logger.Info("Seeded snapshot from cache",
			logger.String("airport", s.airportCode),
			logger.Duration("next_fetch_in", rec.Delay),
		)
	}

	s.logger.Info("TRMNL flight updater started",
		logger.String("airport", s.airportCode),
		logger.Duration("fetch_interval", s.fetchInterval),
		logger.Duration("push_interval", s.pushInterval),
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.fetchLoop(ctx, rec.Delay)
	}()
	go func() {
		defer wg.Done()
		s.pushLoop(ctx)
	}()
	wg.Wait()
}

// fetchLoop waits out the initial delay, then fetches on a fixed ticker
func (s *Service) fetchLoop(ctx context.Context, initialDelay time.Duration) {
	timer := time.NewTimer(initialDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}
	s.fetchCycle(ctx)

	ticker := time.NewTicker(s.fetchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fetchCycle(ctx)
		}
	}
}

// pushLoop pushes once immediately, then on a fixed ticker
func (s *Service) pushLoop(ctx context.Context) {
	s.pushCycle(ctx)

	ticker := time.NewTicker(s.pushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pushCycle(ctx)
		}
	}
}

// fetchCycle fetches, caches and publishes one snapshot. A fetch
// failure leaves both the slot and the cache untouched; a cache write
// failure still updates the slot so pushes keep working.
func (s *Service) fetchCycle(ctx context.Context) {
	s.logger.Info("Updating flights", logger.String("airport", s.airportCode))

	snapshot, err := s.fetcher.Fetch(ctx, s.airportCode)
	if err != nil {
		s.logger.Error("Failed to fetch flights",
			logger.String("airport", s.airportCode),
			logger.Error(err),
		)
		return
	}

	if err := s.store.Write(s.airportCode, snapshot); err != nil {
		s.logger.Warn("Failed to cache snapshot",
			logger.String("airport", s.airportCode),
			logger.Error(err),
		)
	}

	s.setLatest(snapshot)

	// Refresh the display right away rather than waiting for the next
	// push tick.
	s.pushCycle(ctx)
}

// pushCycle formats and pushes the current data. With no snapshot in
// memory it falls back to the cache file; with neither it skips quietly.
func (s *Service) pushCycle(ctx context.Context) {
	board, ok := s.CurrentBoard()
	if !ok {
		s.logger.Debug("No flight data yet, skipping push",
			logger.String("airport", s.airportCode),
		)
		return
	}

	s.logger.Info("Updating TRMNL", logger.String("airport", s.airportCode))

	if err := s.pusher.Push(ctx, board, s.airportCode); err != nil {
		s.logger.Error("Failed to push board",
			logger.String("airport", s.airportCode),
			logger.Error(err),
		)
	}
}

// CurrentBoard resolves the freshest available snapshot (memory first,
// cache file second) and formats its scheduled arrivals and departures.
// The second return is false when no data source is available.
func (s *Service) CurrentBoard() (trmnl.Board, bool) {
	snapshot := s.Latest()
	if snapshot == nil {
		if cached := s.store.Read(s.airportCode); cached != nil {
			snapshot = cached.Data
		}
	}
	if snapshot == nil {
		return trmnl.Board{}, false
	}

	board := s.formatter.Format(snapshot.ScheduledArrivals, snapshot.ScheduledDepartures, s.now())
	return board, true
}
