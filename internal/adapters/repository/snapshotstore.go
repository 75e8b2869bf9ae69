package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kianvash/warboard/internal/domain/model"
	"github.com/kianvash/warboard/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultHistorySize = 16
)

// SnapshotStore implements Store with a mutex-guarded current snapshot plus
// a bounded version history. Each swap builds a name index for rank lookups.
type SnapshotStore struct {
	mu          sync.RWMutex
	current     model.Snapshot
	version     Version
	swapped     bool
	byName      map[string]int // player name -> index into current.Combined
	history     []Version
	historySize int
	now         func() time.Time
}

// NewSnapshotStore creates a snapshot store with configuration options.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		current:     model.EmptySnapshot(model.SourceLocalJSON),
		byName:      map[string]int{},
		historySize: defaultHistorySize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Swap atomically replaces the current snapshot.
func (s *SnapshotStore) Swap(ctx context.Context, snap model.Snapshot) Version {
	index := make(map[string]int, len(snap.Combined))
	for i, rec := range snap.Combined {
		// First occurrence wins for duplicate names; the monarch id keeps
		// them distinct in the combined list itself.
		if _, dup := index[rec.Name]; !dup {
			index[rec.Name] = i
		}
	}

	v := Version{
		ID:       uuid.NewString(),
		DataFile: snap.Metadata.DataFile,
		BuiltAt:  s.now(),
		Players:  len(snap.Combined),
	}

	s.mu.Lock()
	s.current = snap
	s.byName = index
	s.version = v
	s.swapped = true
	s.history = append(s.history, v)
	if len(s.history) > s.historySize {
		s.history = s.history[len(s.history)-s.historySize:]
	}
	s.mu.Unlock()

	metrics.RecordSnapshotSwap()
	metrics.UpdateSnapshotLastUnix(v.BuiltAt.Unix())
	metrics.UpdateSnapshotPlayers(len(snap.Combined))
	metrics.UpdateSnapshotAlliances(len(snap.Alliances))

	return v
}

// Latest returns the current snapshot.
func (s *SnapshotStore) Latest(ctx context.Context) (model.Snapshot, Version, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.version, s.swapped
}

// TopN returns the first n combined entries.
func (s *SnapshotStore) TopN(ctx context.Context, n int) ([]model.PlayerRecord, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.current.Combined) {
		n = len(s.current.Combined)
	}
	out := make([]model.PlayerRecord, n)
	copy(out, s.current.Combined[:n])
	return out, nil
}

// Rank returns the combined entry for a player name.
func (s *SnapshotStore) Rank(ctx context.Context, name string) (model.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byName[name]
	if !ok {
		return model.PlayerRecord{}, ErrNotFound
	}
	return s.current.Combined[i], nil
}

// Alliances returns the alliance roll-up of the current snapshot.
func (s *SnapshotStore) Alliances(ctx context.Context) []model.AllianceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.AllianceRecord, len(s.current.Alliances))
	copy(out, s.current.Alliances)
	return out
}

// Stats returns the summary statistics of the current snapshot.
func (s *SnapshotStore) Stats(ctx context.Context) model.Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Statistics
}

// Count returns the number of players in the combined ranking.
func (s *SnapshotStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.current.Combined)
}

// History returns versions of past swaps, most recent first.
func (s *SnapshotStore) History(ctx context.Context) []Version {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Version, len(s.history))
	for i, v := range s.history {
		out[len(s.history)-1-i] = v
	}
	return out
}
