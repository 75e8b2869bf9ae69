package seedload

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/kianvash/warboard/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "seed_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the seed payloads tool.
func ShowHelp() {
	os.Stdout.WriteString(`Warboard Seed Payloads Tool
===========================

Generates a randomized score payload, submits it to a running warboard
service, waits for the snapshot to rebuild, and verifies the result
against a local aggregation of the same payload.

Usage:
  go run cmd/seed-payloads/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -players int
        Number of players to generate (default 200)
  -alliances int
        Number of alliances to spread players across (default 8)
  -timeout duration
        HTTP request timeout (default 30s)
  -upload-id string
        Upload ID for deduplication (default: fresh UUID)
  -data-file string
        Data file label stamped into snapshot metadata (default "seed-payloads")
  -log string
        Log file for run output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run cmd/seed-payloads/main.go

  # Seed a larger board against a custom host
  go run cmd/seed-payloads/main.go -players 5000 -alliances 25 -url http://localhost:8080

  # Replay the same upload id to exercise deduplication
  go run cmd/seed-payloads/main.go -upload-id replay-check
`)
}
