package seedload

import (
	"context"
	"math"

	"github.com/kianvash/warboard/internal/domain/aggregate"
	"github.com/kianvash/warboard/internal/domain/model"
	"github.com/kianvash/warboard/pkg/logger"
)

const scoreTolerance = 1e-6

// verifySnapshot rebuilds the snapshot locally from the submitted payload
// and compares it row by row against what the service returned.
func verifySnapshot(ctx context.Context, payload model.RawPayload, dataFile string, remote model.Snapshot, stats *Stats) error {
	local, _ := aggregate.Build(payload, aggregate.WithDataFile(dataFile))

	mismatches := 0
	mismatches += verifyPlayers(ctx, local.Combined, remote.Combined)
	mismatches += verifyAlliances(ctx, local.Alliances, remote.Alliances)
	mismatches += verifyStatistics(ctx, local.Statistics, remote.Statistics)

	stats.Mismatches = mismatches
	if mismatches > 0 {
		logger.Get().Warn(ctx, "verification found mismatches", logger.Int("count", mismatches))
	} else {
		logger.Get().Info(ctx, "verification passed",
			logger.Int("players", len(remote.Combined)),
			logger.Int("alliances", len(remote.Alliances)))
	}
	return nil
}

func verifyPlayers(ctx context.Context, local, remote []model.PlayerRecord) int {
	if len(local) != len(remote) {
		logger.Get().Warn(ctx, "player count mismatch",
			logger.Int("local", len(local)),
			logger.Int("remote", len(remote)))
		return 1
	}

	mismatches := 0
	for i := range local {
		l, r := local[i], remote[i]
		if l.Name != r.Name {
			logger.Get().Warn(ctx, "player order mismatch",
				logger.Int("position", i+1),
				logger.String("localName", l.Name),
				logger.String("remoteName", r.Name))
			mismatches++
			continue
		}
		if !closeEnough(l.Score, r.Score) || !closeEnough(l.PositiveScore, r.PositiveScore) || !closeEnough(l.NegativeScore, r.NegativeScore) {
			logger.Get().Warn(ctx, "player score mismatch",
				logger.String("name", l.Name),
				logger.Float64("localScore", l.Score),
				logger.Float64("remoteScore", r.Score))
			mismatches++
		}
		if r.Position != i+1 {
			logger.Get().Warn(ctx, "player position mismatch",
				logger.String("name", r.Name),
				logger.Int("position", r.Position))
			mismatches++
		}
	}
	return mismatches
}

func verifyAlliances(ctx context.Context, local, remote []model.AllianceRecord) int {
	if len(local) != len(remote) {
		logger.Get().Warn(ctx, "alliance count mismatch",
			logger.Int("local", len(local)),
			logger.Int("remote", len(remote)))
		return 1
	}

	mismatches := 0
	for i := range local {
		l, r := local[i], remote[i]
		if l.Name != r.Name || !closeEnough(l.TotalScore, r.TotalScore) || !closeEnough(l.AverageScore, r.AverageScore) {
			logger.Get().Warn(ctx, "alliance mismatch",
				logger.String("localName", l.Name),
				logger.String("remoteName", r.Name),
				logger.Float64("localTotal", l.TotalScore),
				logger.Float64("remoteTotal", r.TotalScore))
			mismatches++
		}
	}
	return mismatches
}

func verifyStatistics(ctx context.Context, local, remote model.Statistics) int {
	mismatches := 0
	if local.TotalPlayers != remote.TotalPlayers {
		logger.Get().Warn(ctx, "statistics player count mismatch",
			logger.Int("local", local.TotalPlayers),
			logger.Int("remote", remote.TotalPlayers))
		mismatches++
	}
	if !closeEnough(local.TotalScore, remote.TotalScore) {
		logger.Get().Warn(ctx, "statistics total score mismatch",
			logger.Float64("local", local.TotalScore),
			logger.Float64("remote", remote.TotalScore))
		mismatches++
	}
	if !closeEnough(local.HighestScore, remote.HighestScore) {
		logger.Get().Warn(ctx, "statistics highest score mismatch",
			logger.Float64("local", local.HighestScore),
			logger.Float64("remote", remote.HighestScore))
		mismatches++
	}
	return mismatches
}

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) <= scoreTolerance
}
