package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/kianvash/warboard/internal/seedload"
)

// Default configuration constants.
const (
	defaultPlayers    = 200
	defaultAlliances  = 8
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		players   = flag.Int("players", defaultPlayers, "Number of players to generate")
		alliances = flag.Int("alliances", defaultAlliances, "Number of alliances to spread players across")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		uploadID  = flag.String("upload-id", "", "Upload ID for deduplication (default: fresh UUID)")
		dataFile  = flag.String("data-file", "seed-payloads", "Data file label stamped into snapshot metadata")
		logFile   = flag.String("log", "", "Log file for run output (default: seed_log_TIMESTAMP.log)")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seedload.ShowHelp()
		return
	}

	// Setup logging
	if err := seedload.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	id := *uploadID
	if id == "" {
		id = uuid.NewString()
	}

	// Create run configuration
	config := &seedload.Config{
		BaseURL:   *baseURL,
		Players:   *players,
		Alliances: *alliances,
		Timeout:   *timeout,
		UploadID:  id,
		DataFile:  *dataFile,
		LogFile:   *logFile,
		Verbose:   *verbose,
	}

	// Run the seed pass
	if err := seedload.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seed run failed: " + err.Error() + "\n")
		return
	}
}
