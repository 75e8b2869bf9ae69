// Package model contains domain models passed between layers.
package model

import (
	"strconv"
	"time"
)

// SourceLocalJSON tags snapshots built from locally uploaded JSON extracts.
const SourceLocalJSON = "local-json"

// NoAlliance is the literal placeholder for players without an alliance.
// It is excluded from alliance roll-ups.
const NoAlliance = "None"

// RawRecord is a loosely-typed row as extracted from an uploaded spreadsheet.
// Keys may use either the Excel-style PascalCase convention ("Name",
// "Total Score", "Monarch ID") or camelCase; values carry whatever types the
// JSON decoder produced.
type RawRecord map[string]any

// RawPayload is the input contract of the aggregation engine: up to four
// optional datasets delivered by the upstream extraction layer.
type RawPayload struct {
	Positive []RawRecord `json:"positive,omitempty"`
	Negative []RawRecord `json:"negative,omitempty"`
	Combined []RawRecord `json:"combined,omitempty"`
	Alliance []RawRecord `json:"alliance,omitempty"`
}

// Empty reports whether the payload carries no datasets at all.
func (p RawPayload) Empty() bool {
	return len(p.Positive) == 0 && len(p.Negative) == 0 &&
		len(p.Combined) == 0 && len(p.Alliance) == 0
}

// PlayerRecord is a normalized per-player score row.
type PlayerRecord struct {
	Position      int     `json:"position"`
	Name          string  `json:"name"`
	Score         float64 `json:"score"`
	Alliance      string  `json:"alliance"`
	MonarchID     float64 `json:"monarchId"`
	PositiveScore float64 `json:"positiveScore"`
	NegativeScore float64 `json:"negativeScore"`
}

// Key identifies a player across the positive/negative input partitions.
// Two records with the same key are the same player and must be merged.
func (r PlayerRecord) Key() string {
	return r.Name + "_" + strconv.FormatFloat(r.MonarchID, 'f', -1, 64)
}

// AllianceRecord is the roll-up of all players sharing a named alliance.
type AllianceRecord struct {
	Name          string         `json:"name"`
	Players       []PlayerRecord `json:"players"`
	TotalScore    float64        `json:"totalScore"`
	PositiveScore float64        `json:"positiveScore"`
	NegativeScore float64        `json:"negativeScore"`
	AverageScore  float64        `json:"averageScore"`
}

// Statistics summarizes a combined ranking for the dashboard header.
type Statistics struct {
	TotalPlayers   int     `json:"totalPlayers"`
	TotalAlliances int     `json:"totalAlliances"`
	TotalScore     float64 `json:"totalScore"`
	AverageScore   float64 `json:"averageScore"`
	HighestScore   float64 `json:"highestScore"`
	ActiveGames    int     `json:"activeGames"`
}

// Metadata describes the provenance of a snapshot.
type Metadata struct {
	TotalPlayers   int    `json:"totalPlayers"`
	TotalAlliances int    `json:"totalAlliances"`
	LastUpdate     string `json:"lastUpdate"`
	DataFile       string `json:"dataFile"`
	Source         string `json:"source"`
}

// Snapshot is the frozen output of one aggregation run. All slices are
// non-nil so the structure serializes to the documented JSON shape.
type Snapshot struct {
	Positive   []PlayerRecord   `json:"positive"`
	Negative   []PlayerRecord   `json:"negative"`
	Combined   []PlayerRecord   `json:"combined"`
	Alliances  []AllianceRecord `json:"alliances"`
	Statistics Statistics       `json:"statistics"`
	Metadata   Metadata         `json:"metadata"`
}

// EmptySnapshot returns a well-formed snapshot with no data, used before the
// first payload arrives.
func EmptySnapshot(source string) Snapshot {
	return Snapshot{
		Positive:  []PlayerRecord{},
		Negative:  []PlayerRecord{},
		Combined:  []PlayerRecord{},
		Alliances: []AllianceRecord{},
		Metadata: Metadata{Source: source},
	}
}

// Job is one ingest unit flowing from the HTTP layer through the queue to
// the aggregation workers.
type Job struct {
	JobID      string
	DataFile   string
	Payload    RawPayload
	ReceivedAt time.Time
}
