package app_test

import (
	"context"
	"testing"
	"time"

	app "github.com/kianvash/warboard/internal/app"
	"github.com/kianvash/warboard/internal/domain/model"
	"github.com/kianvash/warboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := app.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := app.New(
			app.WithWorkerCount(8),
			app.WithQueueSize(50_000),
			app.WithDedupeSize(25_000),
			app.WithHistorySize(4),
			app.WithSourceTag("upload"),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := app.New()
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := app.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_SeenAndRecord(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := app.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := svc.Start(ctx)
		So(err, ShouldBeNil)
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When checking a new upload ID", func() {
			seen := svc.SeenAndRecord(ctx, "upload-123")

			Convey("Then it should not have been seen before", func() {
				So(seen, ShouldBeFalse)
			})
		})

		Convey("When checking the same upload ID again", func() {
			svc.SeenAndRecord(ctx, "upload-456")         // First time
			seen := svc.SeenAndRecord(ctx, "upload-456") // Second time

			Convey("Then it should have been seen before", func() {
				So(seen, ShouldBeTrue)
			})
		})

		Convey("When an upload ID is unrecorded", func() {
			svc.SeenAndRecord(ctx, "upload-789")
			svc.Unrecord(ctx, "upload-789")
			seen := svc.SeenAndRecord(ctx, "upload-789")

			Convey("Then it can be recorded again", func() {
				So(seen, ShouldBeFalse)
			})
		})
	})
}

func TestService_Reads(t *testing.T) {
	Convey("Given a started service before any upload", t, func() {
		svc := app.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When reading the snapshot", func() {
			snap := svc.Snapshot(ctx)

			Convey("Then it is well-formed and empty", func() {
				So(snap.Combined, ShouldNotBeNil)
				So(len(snap.Combined), ShouldEqual, 0)
				So(snap.Alliances, ShouldNotBeNil)
			})
		})

		Convey("When reading the leaderboard", func() {
			top, err := svc.TopN(ctx, 10)

			Convey("Then it is empty without error", func() {
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 0)
			})
		})

		Convey("When reading alliances", func() {
			alliances := svc.Alliances(ctx)

			Convey("Then the list is empty", func() {
				So(len(alliances), ShouldEqual, 0)
			})
		})
	})
}

func TestService_IngestFlow(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := app.New(app.WithWorkerCount(1), app.WithSourceTag("upload"))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a payload job is ingested", func() {
			job := model.Job{
				JobID:    "upload-1",
				DataFile: "march_event.json",
				Payload: model.RawPayload{
					Positive: []model.RawRecord{
						{"Name": "alice", "Total Score": 100.0, "Alliance": "RedWolves", "Monarch ID": 1.0},
						{"Name": "bob", "Total Score": 50.0, "Alliance": "RedWolves", "Monarch ID": 2.0},
					},
					Negative: []model.RawRecord{
						{"Name": "alice", "Score": 30.0, "Monarch ID": 1.0},
					},
				},
				ReceivedAt: time.Now(),
			}

			ok := svc.Ingest(ctx, job)
			So(ok, ShouldBeTrue)

			// Wait for the worker to build and swap the snapshot.
			waitForPlayers(ctx, svc, 2)

			Convey("Then the snapshot reflects the reconciled payload", func() {
				snap := svc.Snapshot(ctx)
				So(len(snap.Combined), ShouldEqual, 2)
				So(snap.Combined[0].Name, ShouldEqual, "alice")
				So(snap.Combined[0].Score, ShouldEqual, 70.0)
				So(snap.Metadata.DataFile, ShouldEqual, "march_event.json")
				So(snap.Metadata.Source, ShouldEqual, "upload")
			})

			Convey("And the leaderboard and rank reads serve it", func() {
				top, err := svc.TopN(ctx, 1)
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 1)
				So(top[0].Name, ShouldEqual, "alice")

				rec, err := svc.Rank(ctx, "bob")
				So(err, ShouldBeNil)
				So(rec.Position, ShouldEqual, 2)
			})

			Convey("And the alliance roll-up is served", func() {
				alliances := svc.Alliances(ctx)
				So(len(alliances), ShouldEqual, 1)
				So(alliances[0].Name, ShouldEqual, "RedWolves")
				So(alliances[0].TotalScore, ShouldEqual, 120.0)
			})

			Convey("And the stats expose the snapshot version", func() {
				stats := svc.GetStats()
				So(stats["totalPlayers"], ShouldEqual, 2)
				So(stats["snapshotVersion"], ShouldNotBeEmpty)
				So(stats["dataFile"], ShouldEqual, "march_event.json")
			})
		})
	})
}

// waitForPlayers polls the snapshot until it holds at least n players or the
// context times out.
func waitForPlayers(ctx context.Context, svc *app.Service, n int) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(svc.Snapshot(ctx).Combined) >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}
