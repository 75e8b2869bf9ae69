// Package dedupe defines the interface for upload idempotency tracking.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen upload IDs so re-posting the same spreadsheet extract
// is acknowledged as a duplicate instead of rebuilding the snapshot.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing it to be retried.
	// Use when an upload was marked as seen but failed to enqueue.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a map plus a FIFO ring for bounded
// eviction. With maxSize <= 0 it degrades to an unbounded map.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string // eviction order, oldest first
	start   int      // index of the oldest live entry in ring
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.ring = make([]string, 0, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		d.ring = append(d.ring, id)
		d.compact()
	}
	d.seen[id] = struct{}{}
	d.size.Store(int64(len(d.seen)))
	return false
}

func (d *inMemoryDeduper) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// The ring entry stays behind as a tombstone; eviction skips IDs no
	// longer present in the map.
	delete(d.seen, id)
	d.size.Store(int64(len(d.seen)))
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

// evictOldest removes the oldest live entry. Caller holds the lock.
func (d *inMemoryDeduper) evictOldest() {
	for d.start < len(d.ring) {
		id := d.ring[d.start]
		d.start++
		if _, live := d.seen[id]; live {
			delete(d.seen, id)
			return
		}
	}
}

// compact reclaims ring space once the consumed prefix dominates it.
func (d *inMemoryDeduper) compact() {
	if d.start > 0 && d.start >= len(d.ring)/2 {
		d.ring = append(d.ring[:0], d.ring[d.start:]...)
		d.start = 0
	}
}
