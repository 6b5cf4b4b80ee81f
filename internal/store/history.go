package store

import "github.com/wealthlens-labs/wealthlens/internal/contract"

// ring is a fixed-capacity append-only history buffer. The oldest entry
// is evicted when the buffer is full; eviction order is FIFO.
type ring struct {
	entries  []contract.HistoryEntry // oldest first
	capacity int
}

func newRing(capacity int) *ring {
	return &ring{capacity: capacity}
}

func (r *ring) push(entry contract.HistoryEntry) {
	r.entries = append(r.entries, entry)
	if len(r.entries) > r.capacity {
		// Shift instead of reslice so the backing array does not pin
		// evicted entries for the lifetime of the session.
		copy(r.entries, r.entries[1:])
		r.entries = r.entries[:r.capacity]
	}
}

func (r *ring) len() int { return len(r.entries) }

// newestFirst returns a copy ordered newest to oldest.
func (r *ring) newestFirst() []contract.HistoryEntry {
	out := make([]contract.HistoryEntry, len(r.entries))
	for i, e := range r.entries {
		out[len(r.entries)-1-i] = e
	}
	return out
}
