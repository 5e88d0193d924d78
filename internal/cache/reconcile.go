package cache

import (
	"time"

	"github.com/yegors/flightboard/internal/flightaware"
)

// Reconciliation is the startup decision derived from the cache: how
// long to wait before the first fetch, and which snapshot (if any) may
// seed the in-memory state while waiting.
type Reconciliation struct {
	Delay  time.Duration
	Usable *flightaware.Snapshot
}

// ReconcileStartupDelay decides whether cached data is fresh enough to
// skip an immediate fetch after a restart.
//
// With no cache the delay is zero and nothing is usable. Otherwise the
// next fetch is due fetchInterval after the cached capture time; if
// that moment has already passed the delay clamps to zero and the stale
// snapshot is not offered for seeding, so the immediate fetch result
// becomes authoritative. Only a cache that is still inside its interval
// is usable right away.
func ReconcileStartupDelay(cached *Cached, fetchInterval time.Duration, now time.Time) Reconciliation {
	if cached == nil {
		return Reconciliation{}
	}

	nextDue := cached.Timestamp.Add(fetchInterval)
	delay := nextDue.Sub(now)
	if delay <= 0 {
		return Reconciliation{}
	}

	return Reconciliation{
		Delay:  delay,
		Usable: cached.Data,
	}
}
