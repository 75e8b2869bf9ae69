package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	repository "github.com/kianvash/warboard/internal/adapters/repository"
	"github.com/kianvash/warboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rankedSnapshot(names ...string) model.Snapshot {
	snap := model.EmptySnapshot(model.SourceLocalJSON)
	for i, name := range names {
		snap.Combined = append(snap.Combined, model.PlayerRecord{
			Position: i + 1,
			Name:     name,
			Score:    float64(1000 - i*100),
		})
	}
	snap.Metadata.TotalPlayers = len(snap.Combined)
	return snap
}

func TestSnapshotStore_Swap(t *testing.T) {
	Convey("Given a new snapshot store", t, func() {
		store := repository.NewSnapshotStore()
		ctx := context.Background()

		Convey("When no snapshot has been swapped in", func() {
			snap, _, ok := store.Latest(ctx)

			Convey("Then Latest reports absence with a well-formed empty snapshot", func() {
				So(ok, ShouldBeFalse)
				So(snap.Combined, ShouldNotBeNil)
				So(len(snap.Combined), ShouldEqual, 0)
				So(store.Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When a snapshot is swapped in", func() {
			version := store.Swap(ctx, rankedSnapshot("alice", "bob"))

			Convey("Then Latest serves it with its version", func() {
				snap, got, ok := store.Latest(ctx)
				So(ok, ShouldBeTrue)
				So(len(snap.Combined), ShouldEqual, 2)
				So(got.ID, ShouldEqual, version.ID)
				So(got.Players, ShouldEqual, 2)
			})
		})

		Convey("When a second snapshot replaces the first", func() {
			v1 := store.Swap(ctx, rankedSnapshot("alice", "bob"))
			v2 := store.Swap(ctx, rankedSnapshot("carol"))

			Convey("Then readers observe only the replacement", func() {
				snap, got, _ := store.Latest(ctx)
				So(len(snap.Combined), ShouldEqual, 1)
				So(snap.Combined[0].Name, ShouldEqual, "carol")
				So(got.ID, ShouldEqual, v2.ID)
				So(v1.ID, ShouldNotEqual, v2.ID)
			})
		})
	})
}

func TestSnapshotStore_TopN(t *testing.T) {
	Convey("Given a store with five ranked players", t, func() {
		store := repository.NewSnapshotStore()
		ctx := context.Background()
		store.Swap(ctx, rankedSnapshot("p1", "p2", "p3", "p4", "p5"))

		Convey("When requesting the top three", func() {
			top, err := store.TopN(ctx, 3)

			Convey("Then exactly the first three entries return in order", func() {
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 3)
				So(top[0].Name, ShouldEqual, "p1")
				So(top[2].Name, ShouldEqual, "p3")
			})
		})

		Convey("When requesting more than exist", func() {
			top, err := store.TopN(ctx, 50)

			Convey("Then the whole ranking returns", func() {
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 5)
			})
		})

		Convey("When requesting an invalid limit", func() {
			_, errZero := store.TopN(ctx, 0)
			_, errNeg := store.TopN(ctx, -5)

			Convey("Then ErrInvalidLimit is returned", func() {
				So(errors.Is(errZero, repository.ErrInvalidLimit), ShouldBeTrue)
				So(errors.Is(errNeg, repository.ErrInvalidLimit), ShouldBeTrue)
			})
		})
	})
}

func TestSnapshotStore_Rank(t *testing.T) {
	Convey("Given a store with ranked players", t, func() {
		store := repository.NewSnapshotStore()
		ctx := context.Background()
		store.Swap(ctx, rankedSnapshot("alice", "bob", "carol"))

		Convey("When looking up a known player", func() {
			rec, err := store.Rank(ctx, "bob")

			Convey("Then the combined entry returns", func() {
				So(err, ShouldBeNil)
				So(rec.Name, ShouldEqual, "bob")
				So(rec.Position, ShouldEqual, 2)
			})
		})

		Convey("When looking up an unknown player", func() {
			_, err := store.Rank(ctx, "mallory")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When two combined entries share a name", func() {
			snap := rankedSnapshot("twin", "other")
			snap.Combined = append(snap.Combined, model.PlayerRecord{
				Position: 3,
				Name:     "twin",
				Score:    1.0,
			})
			store.Swap(ctx, snap)

			rec, err := store.Rank(ctx, "twin")

			Convey("Then the first occurrence wins", func() {
				So(err, ShouldBeNil)
				So(rec.Position, ShouldEqual, 1)
			})
		})
	})
}

func TestSnapshotStore_History(t *testing.T) {
	Convey("Given a store with a bounded history", t, func() {
		fixed := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
		store := repository.NewSnapshotStore(
			repository.WithHistorySize(3),
			repository.WithClock(func() time.Time { return fixed }),
		)
		ctx := context.Background()

		Convey("When more snapshots are swapped than the bound", func() {
			var last repository.Version
			for i := 0; i < 5; i++ {
				last = store.Swap(ctx, rankedSnapshot(fmt.Sprintf("p%d", i)))
			}

			Convey("Then only the newest versions remain, most recent first", func() {
				history := store.History(ctx)
				So(len(history), ShouldEqual, 3)
				So(history[0].ID, ShouldEqual, last.ID)
				So(history[0].BuiltAt, ShouldEqual, fixed)
			})
		})
	})
}

func TestSnapshotStore_Concurrency(t *testing.T) {
	Convey("Given a store under concurrent swaps and reads", t, func() {
		store := repository.NewSnapshotStore()
		ctx := context.Background()
		store.Swap(ctx, rankedSnapshot("seed"))

		Convey("When writers and readers run in parallel", func() {
			var wg sync.WaitGroup
			for w := 0; w < 4; w++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					for i := 0; i < 50; i++ {
						store.Swap(ctx, rankedSnapshot(fmt.Sprintf("w%d-a", n), fmt.Sprintf("w%d-b", n)))
					}
				}(w)
			}
			var torn atomic.Int64
			for r := 0; r < 4; r++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						snap, _, _ := store.Latest(ctx)
						if len(snap.Combined) != snap.Metadata.TotalPlayers {
							torn.Add(1)
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then every read observes a complete snapshot", func() {
				So(torn.Load(), ShouldEqual, 0)
				So(store.Count(ctx), ShouldEqual, 2)
			})
		})
	})
}
