package aggregate

import (
	"math"
	"sort"

	"github.com/kianvash/warboard/internal/domain/model"
)

// reconcile merges the positive and negative partitions into one combined
// ranking. Records are matched by (name, monarch id); a matched pair nets to
// positive minus negative, an unmatched negative becomes a standalone entry
// with a negative score. Insertion order is kept so equal scores rank
// deterministically.
func reconcile(positive, negative []model.PlayerRecord) []model.PlayerRecord {
	byKey := make(map[string]*model.PlayerRecord, len(positive)+len(negative))
	order := make([]string, 0, len(positive)+len(negative))

	for _, rec := range positive {
		key := rec.Key()
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		merged := rec
		merged.PositiveScore = rec.Score
		merged.NegativeScore = 0
		byKey[key] = &merged
	}

	for _, rec := range negative {
		key := rec.Key()
		magnitude := math.Abs(rec.Score)
		if entry, seen := byKey[key]; seen {
			entry.NegativeScore = magnitude
			entry.Score = entry.PositiveScore - magnitude
			continue
		}
		merged := rec
		merged.Score = -magnitude
		merged.PositiveScore = 0
		merged.NegativeScore = magnitude
		byKey[key] = &merged
		order = append(order, key)
	}

	combined := make([]model.PlayerRecord, 0, len(order))
	for _, key := range order {
		rec := byKey[key]
		if rec.Name == "" || rec.Name == "null" {
			continue
		}
		combined = append(combined, *rec)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Score > combined[j].Score
	})
	for i := range combined {
		combined[i].Position = i + 1
	}
	return combined
}
