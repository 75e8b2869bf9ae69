package seedload

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/kianvash/warboard/internal/domain/model"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	maxBaseScore       = 5_000_000
	negativeShare      = 3 // roughly one in three players gets a negative record
	noAllianceShare    = 5 // roughly one in five players has no alliance
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomBelow returns a random int64 in [0, n).
func randomBelow(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// generatePayload builds a raw payload with positive and negative partitions.
// Records alternate between PascalCase and camelCase key conventions so a
// seed run exercises both accepted input shapes, the same way real uploads
// mix exports from different spreadsheet templates.
func generatePayload(config *Config, stats *Stats) model.RawPayload {
	payload := model.RawPayload{
		Positive: make([]model.RawRecord, 0, config.Players),
		Negative: make([]model.RawRecord, 0, config.Players/negativeShare+1),
	}

	for i := 0; i < config.Players; i++ {
		name := fmt.Sprintf("player_%04d", i)
		monarchID := float64(100000 + i)
		alliance := model.NoAlliance
		if randomBelow(noAllianceShare) != 0 {
			alliance = fmt.Sprintf("alliance_%02d", i%config.Alliances)
		}
		score := getRandomFloat() * maxBaseScore

		if i%2 == 0 {
			payload.Positive = append(payload.Positive, model.RawRecord{
				"Name":        name,
				"Total Score": score,
				"Alliance":    alliance,
				"Monarch ID":  monarchID,
			})
		} else {
			payload.Positive = append(payload.Positive, model.RawRecord{
				"name":      name,
				"score":     score,
				"alliance":  alliance,
				"monarchId": monarchID,
			})
		}

		if randomBelow(negativeShare) == 0 {
			negative := getRandomFloat() * score
			payload.Negative = append(payload.Negative, model.RawRecord{
				"Name":       name,
				"Score":      negative,
				"Monarch ID": monarchID,
			})
			stats.NegativeRecords++
		}
	}

	stats.PlayersGenerated = config.Players
	return payload
}
