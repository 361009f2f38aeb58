package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/packetdesk/internal/packets"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Stats               packets.Stats
	HasStats            bool
	StatsUpdated        time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive stats poll failures

	Page        packets.Page
	HasPage     bool
	PageUpdated time.Time
	PageError   error
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	seq      uint64
}

// BeginFetch issues the sequence number for a new list fetch. Only the
// response carrying the latest number is applied.
func (s *Store) BeginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// ApplyPage records the result of the list fetch numbered seq. It returns
// false and changes nothing when a newer fetch has been issued. A failed
// fetch empties the page, since its rows belong to a query that is no longer
// current.
func (s *Store) ApplyPage(seq uint64, page *packets.Page, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		return false
	}
	s.snapshot.PageUpdated = time.Now()
	if err != nil {
		s.snapshot.Page = packets.Page{}
		s.snapshot.HasPage = true
		s.snapshot.PageError = err
		return true
	}
	if page != nil {
		s.snapshot.Page = clonePage(*page)
		s.snapshot.HasPage = true
	}
	s.snapshot.PageError = nil
	return true
}

// UpdateStats records a stats poll. When err is non-nil the previous counts
// are kept but the error is recorded for visibility.
func (s *Store) UpdateStats(stats *packets.Stats, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.StatsUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if stats != nil {
		s.snapshot.Stats = *stats
		s.snapshot.HasStats = true
	} else {
		s.snapshot.HasStats = false
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Reset drops all data, as on logout. Fetches issued before Reset are
// treated as stale.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{}
	s.seq++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Page = clonePage(s.snapshot.Page)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	if s.snapshot.PageError != nil {
		snap.PageError = fmt.Errorf("%w", s.snapshot.PageError)
	}
	return snap
}

func clonePage(p packets.Page) packets.Page {
	if len(p.Items) == 0 {
		p.Items = nil
		return p
	}
	items := make([]packets.Packet, len(p.Items))
	for i, item := range p.Items {
		if item.Images != nil {
			item.Images = append([]string(nil), item.Images...)
		}
		items[i] = item
	}
	p.Items = items
	return p
}
