// Package feed keeps pages supplied with live backend state. Each consumer
// owns its own feed: either a websocket subscription with capped exponential
// reconnect, or a fixed-interval poller. Snapshots are delivered whole, never
// merged, so a page swap is atomic.
package feed

import "qoyupos/internal/catalog"

// Detector spots newly arrived orders between snapshots. The first snapshot
// only primes the set; a chime on boot would be wrong.
type Detector struct {
	prev   map[int64]bool
	primed bool
}

// NewDetector returns an unprimed detector.
func NewDetector() *Detector {
	return &Detector{prev: make(map[int64]bool)}
}

// Observe records a snapshot of active orders and reports whether any order
// ID was absent from the previous snapshot.
func (d *Detector) Observe(orders []catalog.Order) bool {
	next := make(map[int64]bool, len(orders))
	fresh := false
	for _, o := range orders {
		next[o.ID] = true
		if d.primed && !d.prev[o.ID] {
			fresh = true
		}
	}
	d.prev = next
	d.primed = true
	return fresh
}

// Reset forgets prior snapshots, as when a page remounts.
func (d *Detector) Reset() {
	d.prev = make(map[int64]bool)
	d.primed = false
}
