package aggregate

import (
	"math"
	"sort"

	"github.com/kianvash/warboard/internal/domain/model"
	"github.com/kianvash/warboard/internal/domain/normalize"
)

// rollUp groups combined records by alliance, excluding the "None"
// placeholder, and layers dedicated alliance totals on top when supplied.
// Dedicated totals win over player-derived sums; the member list and the
// average always come from the player grouping.
func rollUp(combined []model.PlayerRecord, dedicated []normalize.AllianceTotals) []model.AllianceRecord {
	grouped := make(map[string]*model.AllianceRecord)
	order := make([]string, 0)

	for _, rec := range combined {
		if rec.Alliance == "" || rec.Alliance == model.NoAlliance {
			continue
		}
		entry, seen := grouped[rec.Alliance]
		if !seen {
			entry = &model.AllianceRecord{
				Name:    rec.Alliance,
				Players: make([]model.PlayerRecord, 0, 4),
			}
			grouped[rec.Alliance] = entry
			order = append(order, rec.Alliance)
		}
		entry.Players = append(entry.Players, rec)
		entry.TotalScore += rec.Score
		entry.PositiveScore += rec.PositiveScore
		entry.NegativeScore += rec.NegativeScore
	}

	for _, name := range order {
		entry := grouped[name]
		if n := len(entry.Players); n > 0 {
			entry.AverageScore = math.Round(entry.TotalScore / float64(n))
		}
	}

	// Dedicated rows override the derived totals; alliances known only to
	// the dedicated dataset appear with no members.
	for _, tot := range dedicated {
		entry, seen := grouped[tot.Name]
		if !seen {
			grouped[tot.Name] = &model.AllianceRecord{
				Name:          tot.Name,
				Players:       []model.PlayerRecord{},
				TotalScore:    tot.TotalScore,
				PositiveScore: tot.PositiveScore,
				NegativeScore: tot.NegativeScore,
			}
			order = append(order, tot.Name)
			continue
		}
		entry.TotalScore = tot.TotalScore
		entry.PositiveScore = tot.PositiveScore
		entry.NegativeScore = tot.NegativeScore
	}

	alliances := make([]model.AllianceRecord, 0, len(order))
	for _, name := range order {
		alliances = append(alliances, *grouped[name])
	}
	sort.SliceStable(alliances, func(i, j int) bool {
		return alliances[i].TotalScore > alliances[j].TotalScore
	})
	return alliances
}
