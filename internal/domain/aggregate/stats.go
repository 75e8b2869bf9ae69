package aggregate

import (
	"math"

	"github.com/kianvash/warboard/internal/domain/model"
)

// computeStatistics derives dashboard summary numbers from the combined
// ranking. Zero and NaN scores are excluded from the score aggregates but
// still count toward the player total.
func computeStatistics(combined []model.PlayerRecord, alliances []model.AllianceRecord) model.Statistics {
	stats := model.Statistics{
		TotalPlayers:   len(combined),
		TotalAlliances: len(alliances),
		ActiveGames:    len(combined),
	}

	var total, highest float64
	var scored int
	for _, rec := range combined {
		if rec.Score == 0 || math.IsNaN(rec.Score) {
			continue
		}
		total += rec.Score
		if scored == 0 || rec.Score > highest {
			highest = rec.Score
		}
		scored++
	}
	if scored > 0 {
		stats.TotalScore = total
		stats.AverageScore = math.Round(total / float64(scored))
		stats.HighestScore = highest
	}
	return stats
}
