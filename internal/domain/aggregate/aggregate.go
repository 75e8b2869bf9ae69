package aggregate

import (
	"time"

	"github.com/kianvash/warboard/internal/domain/model"
	"github.com/kianvash/warboard/internal/domain/normalize"
)

// Report carries per-dataset drop diagnostics from one build.
type Report struct {
	DroppedPositive int
	DroppedNegative int
	DroppedCombined int
	DroppedAlliance int
}

// Dropped returns the total number of discarded rows.
func (r Report) Dropped() int {
	return r.DroppedPositive + r.DroppedNegative + r.DroppedCombined + r.DroppedAlliance
}

type builder struct {
	now      func() time.Time
	dataFile string
	source   string
}

// Build runs one aggregation pass over a raw payload and returns the frozen
// snapshot plus drop diagnostics. It is a pure function of its input apart
// from the metadata timestamp: it never fails, never panics on ill-typed
// input, and holds no state between calls.
func Build(payload model.RawPayload, opts ...Option) (model.Snapshot, Report) {
	b := &builder{
		now:    time.Now,
		source: model.SourceLocalJSON,
	}
	for _, opt := range opts {
		opt(b)
	}

	var report Report

	positive := normalize.Records(payload.Positive)
	negative := normalize.Records(payload.Negative)
	report.DroppedPositive = positive.Dropped
	report.DroppedNegative = negative.Dropped

	var combined []model.PlayerRecord
	if len(payload.Combined) > 0 {
		// A pre-combined dataset short-circuits reconciliation; supplied
		// positions pass through untouched.
		res := normalize.Records(payload.Combined)
		report.DroppedCombined = res.Dropped
		combined = res.Records
	} else if len(positive.Records) > 0 || len(negative.Records) > 0 {
		combined = reconcile(positive.Records, negative.Records)
	} else {
		combined = []model.PlayerRecord{}
	}

	dedicated := normalize.AllianceRecords(payload.Alliance)
	report.DroppedAlliance = dedicated.Dropped

	alliances := rollUp(combined, dedicated.Totals)
	stats := computeStatistics(combined, alliances)

	return model.Snapshot{
		Positive:   positive.Records,
		Negative:   negative.Records,
		Combined:   combined,
		Alliances:  alliances,
		Statistics: stats,
		Metadata: model.Metadata{
			TotalPlayers:   len(combined),
			TotalAlliances: len(alliances),
			LastUpdate:     b.now().UTC().Format(time.RFC3339),
			DataFile:       b.dataFile,
			Source:         b.source,
		},
	}, report
}
