// Package state shares fetched data between background work and the UI.
//
// The stats poller and the list fetch commands both run off the Bubble Tea
// goroutine, so their results land in a Store guarded by a sync.RWMutex and
// the UI reads a cloned Snapshot when it renders.
//
//	Poller / fetch commands:         UI:
//	┌─────────────────────┐         ┌──────────────────┐
//	│ Stats()             │         │                  │
//	│ store.UpdateStats() │────────→│ store.Snapshot() │
//	│                     │ (mutex) │      ↓           │
//	│ seq := BeginFetch() │         │  render header   │
//	│ List()              │         │  and packet list │
//	│ store.ApplyPage()   │────────→│                  │
//	└─────────────────────┘         └──────────────────┘
//
// # Update Semantics
//
// Stats follow a keep-last-good rule: a failed poll records LastError and
// bumps ConsecutiveFailures but leaves the previous counts in place, so the
// header keeps showing numbers while IsOffline reports the outage.
//
// List fetches are not cancelled when the filters change. Instead each fetch
// takes a sequence number from BeginFetch and ApplyPage ignores any result
// whose number is no longer the latest:
//
//	seq1 := store.BeginFetch()   // search "LN"
//	seq2 := store.BeginFetch()   // search "LN-4"
//	store.ApplyPage(seq2, page2, nil) // applied
//	store.ApplyPage(seq1, page1, nil) // dropped, returns false
//
// Reset clears everything on logout and invalidates fetches still in flight.
//
// The zero Store is ready to use.
package state
