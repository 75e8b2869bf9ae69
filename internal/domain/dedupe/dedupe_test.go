package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	dedupe "github.com/kianvash/warboard/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper_SeenAndRecord(t *testing.T) {
	Convey("Given a new in-memory deduper", t, func() {
		deduper := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When recording a new upload ID", func() {
			seen := deduper.SeenAndRecord(ctx, "upload-1")

			Convey("Then it is not a duplicate", func() {
				So(seen, ShouldBeFalse)
				So(deduper.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording the same upload ID twice", func() {
			first := deduper.SeenAndRecord(ctx, "upload-1")
			second := deduper.SeenAndRecord(ctx, "upload-1")

			Convey("Then the second call reports a duplicate", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(deduper.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording distinct upload IDs", func() {
			deduper.SeenAndRecord(ctx, "upload-1")
			deduper.SeenAndRecord(ctx, "upload-2")
			deduper.SeenAndRecord(ctx, "upload-3")

			Convey("Then all are tracked", func() {
				So(deduper.Size(), ShouldEqual, 3)
			})
		})
	})
}

func TestInMemoryDeduper_Unrecord(t *testing.T) {
	Convey("Given a deduper with a recorded ID", t, func() {
		deduper := dedupe.NewInMemoryDeduper()
		ctx := context.Background()
		deduper.SeenAndRecord(ctx, "upload-1")

		Convey("When the ID is unrecorded", func() {
			deduper.Unrecord(ctx, "upload-1")

			Convey("Then it can be recorded again", func() {
				So(deduper.Size(), ShouldEqual, 0)
				So(deduper.SeenAndRecord(ctx, "upload-1"), ShouldBeFalse)
			})
		})

		Convey("When unrecording an unknown ID", func() {
			deduper.Unrecord(ctx, "never-seen")

			Convey("Then nothing changes", func() {
				So(deduper.Size(), ShouldEqual, 1)
			})
		})
	})
}

func TestInMemoryDeduper_Eviction(t *testing.T) {
	Convey("Given a deduper bounded to three IDs", t, func() {
		deduper := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()

		Convey("When a fourth ID is recorded", func() {
			deduper.SeenAndRecord(ctx, "upload-1")
			deduper.SeenAndRecord(ctx, "upload-2")
			deduper.SeenAndRecord(ctx, "upload-3")
			deduper.SeenAndRecord(ctx, "upload-4")

			Convey("Then the oldest ID is evicted", func() {
				So(deduper.Size(), ShouldEqual, 3)
				So(deduper.SeenAndRecord(ctx, "upload-1"), ShouldBeFalse)
				So(deduper.SeenAndRecord(ctx, "upload-4"), ShouldBeTrue)
			})
		})

		Convey("When an unrecorded ID left a tombstone", func() {
			deduper.SeenAndRecord(ctx, "upload-1")
			deduper.SeenAndRecord(ctx, "upload-2")
			deduper.Unrecord(ctx, "upload-1")
			deduper.SeenAndRecord(ctx, "upload-3")
			deduper.SeenAndRecord(ctx, "upload-4")
			deduper.SeenAndRecord(ctx, "upload-5")

			Convey("Then eviction skips the tombstone and drops a live entry", func() {
				So(deduper.Size(), ShouldEqual, 3)
				So(deduper.SeenAndRecord(ctx, "upload-2"), ShouldBeFalse)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		deduper := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		ctx := context.Background()

		Convey("When many IDs are recorded", func() {
			for i := 0; i < 1000; i++ {
				deduper.SeenAndRecord(ctx, fmt.Sprintf("upload-%d", i))
			}

			Convey("Then nothing is evicted", func() {
				So(deduper.Size(), ShouldEqual, 1000)
			})
		})
	})
}

func TestInMemoryDeduper_Concurrency(t *testing.T) {
	Convey("Given a deduper under concurrent access", t, func() {
		deduper := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(10000))
		ctx := context.Background()

		Convey("When many goroutines record overlapping IDs", func() {
			var wg sync.WaitGroup
			var dupes atomic.Int64

			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 500; i++ {
						if deduper.SeenAndRecord(ctx, fmt.Sprintf("upload-%d", i)) {
							dupes.Add(1)
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each ID is admitted exactly once", func() {
				So(deduper.Size(), ShouldEqual, 500)
				So(dupes.Load(), ShouldEqual, 8*500-500)
			})
		})
	})
}
