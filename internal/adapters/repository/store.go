// Package repository defines the snapshot store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/kianvash/warboard/internal/domain/model"
)

// Version identifies one swapped-in snapshot.
type Version struct {
	ID       string
	DataFile string
	BuiltAt  time.Time
	Players  int
}

// Store holds the latest aggregation snapshot and serves reads from it.
// Readers always observe a complete, immutable snapshot; a concurrent swap
// is last-write-wins.
type Store interface {
	// Swap atomically replaces the current snapshot and returns its version.
	Swap(ctx context.Context, snap model.Snapshot) Version

	// Latest returns the current snapshot. The bool is false before the
	// first swap; the returned snapshot is then a well-formed empty one.
	Latest(ctx context.Context) (model.Snapshot, Version, bool)

	// TopN returns the first n combined entries.
	// Returns ErrInvalidLimit when n < 1.
	TopN(ctx context.Context, n int) ([]model.PlayerRecord, error)

	// Rank returns the combined entry for a player name.
	// Returns ErrNotFound if the player is unknown.
	Rank(ctx context.Context, name string) (model.PlayerRecord, error)

	// Alliances returns the alliance roll-up of the current snapshot.
	Alliances(ctx context.Context) []model.AllianceRecord

	// Stats returns the summary statistics of the current snapshot.
	Stats(ctx context.Context) model.Statistics

	// Count returns the number of players in the combined ranking.
	Count(ctx context.Context) int

	// History returns versions of past swaps, most recent first.
	History(ctx context.Context) []Version
}
