// Package rates owns the published mortgage rate table: where it is loaded
// from, how it is validated, and how a new table replaces the old one while
// requests are in flight.
package rates

import (
	"slices"
	"sync/atomic"
	"time"

	"mortgagecheck/internal/mortgage"
)

type snapshot struct {
	tiers    []mortgage.RateTier
	loadedAt time.Time
}

// Store holds the current rate table. Readers always observe a complete
// table; a reload swaps the whole snapshot at once.
type Store struct {
	current atomic.Pointer[snapshot]
}

// NewStore returns an empty store. RateTiers returns nil until the first Replace.
func NewStore() *Store {
	return &Store{}
}

// RateTiers implements mortgage.RateSource.
func (s *Store) RateTiers() []mortgage.RateTier {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	return snap.tiers
}

// Replace publishes tiers as the new table. The slice is copied so the caller
// may keep using it.
func (s *Store) Replace(tiers []mortgage.RateTier, loadedAt time.Time) {
	s.current.Store(&snapshot{
		tiers:    slices.Clone(tiers),
		loadedAt: loadedAt,
	})
}

// LoadedAt reports when the current table was published, or the zero time.
func (s *Store) LoadedAt() time.Time {
	snap := s.current.Load()
	if snap == nil {
		return time.Time{}
	}
	return snap.loadedAt
}

// Ready reports whether a non-empty table has been published.
func (s *Store) Ready() bool {
	return len(s.RateTiers()) > 0
}
