package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	worker "github.com/kianvash/warboard/internal/adapters/mq/worker"
	repository "github.com/kianvash/warboard/internal/adapters/repository"
	model "github.com/kianvash/warboard/internal/domain/model"
	logging "github.com/kianvash/warboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	jobChan chan worker.Job
}

func newMockQueue() *mockQueue {
	return &mockQueue{
		jobChan: make(chan worker.Job, 10),
	}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan worker.Job {
	return mq.jobChan
}

func (mq *mockQueue) Close() error {
	close(mq.jobChan)
	return nil
}

func (mq *mockQueue) addJob(job worker.Job) {
	mq.jobChan <- job
}

type mockBuilder struct {
	errors map[string]error
	mu     sync.RWMutex
}

func newMockBuilder() *mockBuilder {
	return &mockBuilder{
		errors: make(map[string]error),
	}
}

func (mb *mockBuilder) Build(ctx context.Context, job worker.Job) (model.Snapshot, int, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	if err, exists := mb.errors[job.JobID]; exists {
		return model.Snapshot{}, 0, err
	}

	snap := model.EmptySnapshot(model.SourceLocalJSON)
	for i, raw := range job.Payload.Positive {
		name, _ := raw["Name"].(string)
		snap.Combined = append(snap.Combined, model.PlayerRecord{
			Position: i + 1,
			Name:     name,
		})
	}
	snap.Metadata.DataFile = job.DataFile
	snap.Metadata.TotalPlayers = len(snap.Combined)
	return snap, 0, nil
}

func (mb *mockBuilder) setError(jobID string, err error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.errors[jobID] = err
}

type mockUpdater struct {
	swaps map[string]model.Snapshot
	mu    sync.RWMutex
}

func newMockUpdater() *mockUpdater {
	return &mockUpdater{
		swaps: make(map[string]model.Snapshot),
	}
}

func (mu *mockUpdater) Swap(ctx context.Context, snap model.Snapshot) repository.Version {
	mu.mu.Lock()
	defer mu.mu.Unlock()
	mu.swaps[snap.Metadata.DataFile] = snap
	return repository.Version{
		ID:       fmt.Sprintf("v%d", len(mu.swaps)),
		DataFile: snap.Metadata.DataFile,
		BuiltAt:  time.Now(),
		Players:  len(snap.Combined),
	}
}

func (mu *mockUpdater) getSwap(dataFile string) (model.Snapshot, bool) {
	mu.mu.RLock()
	defer mu.mu.RUnlock()
	snap, exists := mu.swaps[dataFile]
	return snap, exists
}

func testJob(id, dataFile string, names ...string) worker.Job {
	payload := model.RawPayload{}
	for _, name := range names {
		payload.Positive = append(payload.Positive, model.RawRecord{"Name": name})
	}
	return worker.Job{
		JobID:      id,
		DataFile:   dataFile,
		Payload:    payload,
		ReceivedAt: time.Now(),
	}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		builder := newMockBuilder()
		updater := newMockUpdater()

		convey.Convey("When creating a worker with default options", func() {
			worker := worker.NewInMemoryWorker(queue, builder, updater)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(worker, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating a worker with custom options", func() {
			worker := worker.NewInMemoryWorker(
				queue, builder, updater,
				worker.WithName("test-worker"),
			)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(worker, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When running a worker", func() {
			w := worker.NewInMemoryWorker(queue, builder, updater)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Start worker in goroutine
			go w.Run(ctx)

			// Give worker time to start
			time.Sleep(10 * time.Millisecond)

			convey.Convey("And when processing a job", func() {
				queue.addJob(testJob("job-1", "march.json", "alice", "bob"))

				// Give worker time to process
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then it should swap the built snapshot in", func() {
					snap, swapped := updater.getSwap("march.json")
					convey.So(swapped, convey.ShouldBeTrue)
					convey.So(len(snap.Combined), convey.ShouldEqual, 2)
				})
			})

			convey.Convey("And when the build fails", func() {
				builder.setError("job-2", errors.New("build error"))
				queue.addJob(testJob("job-2", "broken.json", "alice"))

				// Give worker time to process
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then no snapshot is swapped in", func() {
					_, swapped := updater.getSwap("broken.json")
					convey.So(swapped, convey.ShouldBeFalse)
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer shutdownCancel()

				err := w.Shutdown(shutdownCtx)

				convey.Convey("Then it should shutdown gracefully", func() {
					convey.So(err, convey.ShouldBeNil)
				})
			})
		})

		convey.Convey("When context is cancelled", func() {
			w := worker.NewInMemoryWorker(queue, builder, updater)
			ctx, cancel := context.WithCancel(context.Background())

			go w.Run(ctx)
			time.Sleep(10 * time.Millisecond)
			cancel()
			time.Sleep(50 * time.Millisecond)

			convey.Convey("Then the worker loop should have stopped", func() {
				queue.addJob(testJob("job-late", "late.json", "alice"))
				time.Sleep(50 * time.Millisecond)
				_, swapped := updater.getSwap("late.json")
				convey.So(swapped, convey.ShouldBeFalse)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a new WorkerPool", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		builder := newMockBuilder()
		updater := newMockUpdater()

		convey.Convey("When creating a worker pool with default count", func() {
			pool := worker.NewPool(0, queue, builder, updater)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(pool, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When starting a worker pool", func() {
			pool := worker.NewPool(2, queue, builder, updater)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			pool.Start(ctx)

			// Give workers time to start
			time.Sleep(20 * time.Millisecond)

			convey.Convey("And when processing multiple jobs", func() {
				files := []string{"one.json", "two.json", "three.json"}
				for i, f := range files {
					queue.addJob(testJob(fmt.Sprintf("job-%d", i), f, "alice"))
				}

				// Give workers time to process
				time.Sleep(100 * time.Millisecond)

				convey.Convey("Then all jobs should be processed", func() {
					for _, f := range files {
						_, swapped := updater.getSwap(f)
						convey.So(swapped, convey.ShouldBeTrue)
					}
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
				defer shutdownCancel()

				err := pool.Shutdown(shutdownCtx)

				convey.Convey("Then it should shutdown gracefully", func() {
					convey.So(err, convey.ShouldBeNil)
				})
			})
		})
	})
}

func TestWorkerConcurrency(t *testing.T) {
	convey.Convey("Given a worker pool with multiple workers", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		builder := newMockBuilder()
		updater := newMockUpdater()

		pool := worker.NewPool(4, queue, builder, updater)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		pool.Start(ctx)
		time.Sleep(20 * time.Millisecond)

		convey.Convey("When processing many concurrent jobs", func() {
			const jobCount = 100
			var wg sync.WaitGroup

			for i := 0; i < 5; i++ {
				wg.Add(1)
				go func(producerID int) {
					defer wg.Done()
					for j := 0; j < jobCount/5; j++ {
						id := fmt.Sprintf("job-%d-%d", producerID, j)
						queue.addJob(testJob(id, id+".json", "alice"))
					}
				}(i)
			}
			wg.Wait()

			// Give workers time to process
			time.Sleep(200 * time.Millisecond)

			convey.Convey("Then all jobs should be processed", func() {
				processedCount := 0
				for i := 0; i < 5; i++ {
					for j := 0; j < jobCount/5; j++ {
						id := fmt.Sprintf("job-%d-%d", i, j)
						if _, swapped := updater.getSwap(id + ".json"); swapped {
							processedCount++
						}
					}
				}
				convey.So(processedCount, convey.ShouldEqual, jobCount)
			})
		})
	})
}
