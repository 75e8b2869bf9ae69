// Package seedload generates randomized raw payloads, posts them to a
// running warboard instance, and verifies the resulting snapshot against a
// locally computed expectation.
package seedload

import "time"

// Config holds configuration for a seed run.
type Config struct {
	BaseURL   string        // Base URL of the service
	Players   int           // Number of players to generate
	Alliances int           // Number of alliances to spread players across
	Timeout   time.Duration // HTTP request timeout
	UploadID  string        // Upload ID sent with the payload (empty = server generated)
	DataFile  string        // Data file name stamped into metadata
	LogFile   string        // Log file for run output
	Verbose   bool          // Enable verbose logging
}

// Stats holds run statistics.
type Stats struct {
	PlayersGenerated  int
	NegativeRecords   int
	PayloadAccepted   bool
	SnapshotPlayers   int
	SnapshotAlliances int
	Mismatches        int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}

// AckResponse mirrors the response from payload submission.
type AckResponse struct {
	Status    string `json:"status"`
	JobID     string `json:"job_id"`
	Duplicate bool   `json:"duplicate"`
}
