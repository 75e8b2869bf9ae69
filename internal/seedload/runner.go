package seedload

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kianvash/warboard/internal/domain/model"
	"github.com/kianvash/warboard/pkg/logger"
)

// Runner configuration constants.
const (
	snapshotPollInterval = 500 * time.Millisecond
	snapshotPollTimeout  = 30 * time.Second
)

// payloadRequest mirrors the POST /payloads contract.
type payloadRequest struct {
	UploadID string            `json:"upload_id,omitempty"`
	DataFile string            `json:"data_file,omitempty"`
	Positive []model.RawRecord `json:"positive,omitempty"`
	Negative []model.RawRecord `json:"negative,omitempty"`
	Combined []model.RawRecord `json:"combined,omitempty"`
	Alliance []model.RawRecord `json:"alliance,omitempty"`
}

// Run executes one complete seed-and-verify pass.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting warboard seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("players", config.Players),
		logger.Int("alliances", config.Alliances),
		logger.String("timeout", config.Timeout.String()),
		logger.String("dataFile", config.DataFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate the payload
	payload := generatePayload(config, stats)
	logger.Get().Info(ctx, "generated payload",
		logger.Int("positive", len(payload.Positive)),
		logger.Int("negative", len(payload.Negative)))

	// Step 3: Submit it
	if err := submitPayload(ctx, config, payload, stats); err != nil {
		return fmt.Errorf("payload submission failed: %w", err)
	}

	// Step 4: Wait for the snapshot to land
	snap, err := waitForSnapshot(ctx, config, config.Players)
	if err != nil {
		return fmt.Errorf("snapshot retrieval failed: %w", err)
	}
	stats.SnapshotPlayers = len(snap.Combined)
	stats.SnapshotAlliances = len(snap.Alliances)

	// Step 5: Verify against a local build of the same payload
	if err := verifySnapshot(ctx, payload, config.DataFile, snap, stats); err != nil {
		return fmt.Errorf("snapshot verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "seed run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Any 200 response counts as healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// submitPayload posts the generated payload to /payloads.
func submitPayload(ctx context.Context, config *Config, payload model.RawPayload, stats *Stats) error {
	client := newHTTPClient(config.Timeout)

	req := payloadRequest{
		UploadID: config.UploadID,
		DataFile: config.DataFile,
		Positive: payload.Positive,
		Negative: payload.Negative,
		Combined: payload.Combined,
		Alliance: payload.Alliance,
	}

	resp, err := client.Post(ctx, config.BaseURL+"/payloads", req)
	if err != nil {
		return fmt.Errorf("failed to post payload: %w", err)
	}
	var ack AckResponse
	if err := readJSON(resp, &ack); err != nil {
		return err
	}
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("payload rejected with status %d", resp.StatusCode)
	}
	if ack.Duplicate {
		return fmt.Errorf("payload acknowledged as duplicate; use a fresh upload id")
	}

	stats.PayloadAccepted = true
	logger.Get().Info(ctx, "payload accepted", logger.String("jobID", ack.JobID))
	return nil
}

// waitForSnapshot polls /snapshot until the expected player count appears.
func waitForSnapshot(ctx context.Context, config *Config, wantPlayers int) (model.Snapshot, error) {
	client := newHTTPClient(config.Timeout)
	deadline := time.Now().Add(snapshotPollTimeout)

	for {
		resp, err := client.Get(ctx, config.BaseURL+"/snapshot")
		if err == nil {
			var snap model.Snapshot
			if err := readJSON(resp, &snap); err == nil && len(snap.Combined) >= wantPlayers {
				return snap, nil
			}
		}

		if time.Now().After(deadline) {
			return model.Snapshot{}, fmt.Errorf("snapshot did not reach %d players within %s", wantPlayers, snapshotPollTimeout)
		}
		select {
		case <-ctx.Done():
			return model.Snapshot{}, fmt.Errorf("context cancelled while polling snapshot: %w", ctx.Err())
		case <-time.After(snapshotPollInterval):
		}
	}
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("playersGenerated", stats.PlayersGenerated),
		logger.Int("negativeRecords", stats.NegativeRecords),
		logger.Any("payloadAccepted", stats.PayloadAccepted),
		logger.Int("snapshotPlayers", stats.SnapshotPlayers),
		logger.Int("snapshotAlliances", stats.SnapshotAlliances),
		logger.Int("mismatches", stats.Mismatches),
		logger.String("duration", stats.Duration.String()))
}
