// Package app provides the core business service that implements
// the dependencies required by the HTTP API.
package app

import (
	"context"
	"sync"

	jobqueue "github.com/kianvash/warboard/internal/adapters/mq/queue"
	workerpool "github.com/kianvash/warboard/internal/adapters/mq/worker"
	repository "github.com/kianvash/warboard/internal/adapters/repository"
	"github.com/kianvash/warboard/internal/domain/aggregate"
	"github.com/kianvash/warboard/internal/domain/dedupe"
	"github.com/kianvash/warboard/internal/domain/model"
	"github.com/kianvash/warboard/pkg/logger"
	"github.com/kianvash/warboard/pkg/metrics"
)

// engineAdapter adapts the pure aggregation engine to the worker.Builder
// interface.
type engineAdapter struct {
	source string
}

func (a *engineAdapter) Build(_ context.Context, job model.Job) (model.Snapshot, int, error) {
	snap, report := aggregate.Build(job.Payload,
		aggregate.WithDataFile(job.DataFile),
		aggregate.WithSource(a.source),
	)
	return snap, report.Dropped(), nil
}

// Service implements the API dependencies for the aggregation system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	deduper  dedupe.Deduper
	jobQueue jobqueue.Queue
	pool     *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	historySize int
	sourceTag   string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of aggregation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the upload deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithHistorySize sets how many snapshot versions the store retains.
func WithHistorySize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.historySize = size
		}
	}
}

// WithSourceTag sets the source tag stamped into snapshot metadata.
func WithSourceTag(tag string) Option {
	return func(s *Service) {
		if tag != "" {
			s.sourceTag = tag
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: 2,
		queueSize:   1024,
		dedupeSize:  50000,
		historySize: 16,
		sourceTag:   model.SourceLocalJSON,
		logger:      nil, // set on Start when not injected
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting aggregation service...")

	s.store = repository.NewSnapshotStore(
		repository.WithHistorySize(s.historySize),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)

	builder := &engineAdapter{source: s.sourceTag}
	s.pool = workerpool.NewPool(s.workerCount, s.jobQueue, builder, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "aggregation service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping aggregation service...")

	if s.pool != nil {
		s.pool.Stop()
	}
	if q, ok := s.jobQueue.(*jobqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "aggregation service stopped")
}

// SeenAndRecord atomically checks if an upload id was seen and records it if
// not. Returns true if the upload was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord removes an upload ID from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Ingest submits a payload job for asynchronous aggregation.
// Returns false on backpressure.
func (s *Service) Ingest(ctx context.Context, job model.Job) bool {
	s.logger.Debug(ctx, "received payload job",
		logger.String("jobID", job.JobID),
		logger.String("dataFile", job.DataFile),
		logger.Int("positive", len(job.Payload.Positive)),
		logger.Int("negative", len(job.Payload.Negative)),
		logger.Int("combined", len(job.Payload.Combined)),
		logger.Int("alliance", len(job.Payload.Alliance)),
	)

	ok := s.jobQueue.Enqueue(ctx, job)
	if !ok {
		s.logger.Warn(ctx, "ingest queue full, rejecting job",
			logger.String("jobID", job.JobID),
		)
	}
	return ok
}

// Snapshot returns the current aggregation snapshot. Before the first upload
// it is a well-formed empty snapshot.
func (s *Service) Snapshot(ctx context.Context) model.Snapshot {
	snap, _, _ := s.store.Latest(ctx)
	return snap
}

// TopN returns the top N combined entries.
func (s *Service) TopN(ctx context.Context, n int) ([]model.PlayerRecord, error) {
	return s.store.TopN(ctx, n)
}

// Rank returns the combined entry for a player name.
func (s *Service) Rank(ctx context.Context, name string) (model.PlayerRecord, error) {
	return s.store.Rank(ctx, name)
}

// Alliances returns the alliance roll-up of the current snapshot.
func (s *Service) Alliances(ctx context.Context) []model.AllianceRecord {
	return s.store.Alliances(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		stats["queueLength"] = queueLen

		snap, version, swapped := s.store.Latest(ctx)
		stats["totalPlayers"] = len(snap.Combined)
		stats["totalAlliances"] = len(snap.Alliances)
		if swapped {
			stats["snapshotVersion"] = version.ID
			stats["lastUpdate"] = snap.Metadata.LastUpdate
			stats["dataFile"] = snap.Metadata.DataFile
		}

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
