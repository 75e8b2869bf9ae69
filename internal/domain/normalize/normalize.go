package normalize

import (
	"github.com/kianvash/warboard/internal/domain/model"
)

// Result carries normalized records together with drop diagnostics, so
// callers can observe how many rows were discarded without relying on logs.
type Result struct {
	Records []model.PlayerRecord
	Dropped int
}

// Record normalizes a single raw row. The second return value is false when
// the row is invalid (missing, null, or empty name) and must be discarded.
// Every other anomaly degrades to a default instead of failing.
func Record(raw model.RawRecord) (model.PlayerRecord, bool) {
	name, ok := resolveName(raw, nameKeys)
	if !ok {
		return model.PlayerRecord{}, false
	}
	return model.PlayerRecord{
		Position:      resolveInt(raw, positionKeys, 0),
		Name:          name,
		Score:         resolveFloat(raw, scoreKeys, 0),
		Alliance:      resolveAlliance(raw),
		MonarchID:     resolveFloat(raw, monarchKeys, 0),
		PositiveScore: resolveFloat(raw, positiveKeys, 0),
		NegativeScore: resolveFloat(raw, negativeKeys, 0),
	}, true
}

// Records normalizes a dataset, counting dropped rows. A nil dataset yields
// an empty, non-nil record slice.
func Records(raw []model.RawRecord) Result {
	res := Result{Records: make([]model.PlayerRecord, 0, len(raw))}
	for _, row := range raw {
		rec, ok := Record(row)
		if !ok {
			res.Dropped++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// AllianceTotals is a normalized row from a dedicated alliance dataset.
type AllianceTotals struct {
	Name          string
	TotalScore    float64
	PositiveScore float64
	NegativeScore float64
}

// AllianceResult carries normalized alliance totals plus drop diagnostics.
type AllianceResult struct {
	Totals  []AllianceTotals
	Dropped int
}

// AllianceRecords normalizes a dedicated alliance dataset. Rows without a
// resolvable alliance name are dropped under the same rule as player rows.
func AllianceRecords(raw []model.RawRecord) AllianceResult {
	res := AllianceResult{Totals: make([]AllianceTotals, 0, len(raw))}
	for _, row := range raw {
		name, ok := resolveName(row, allianceNameKeys)
		if !ok {
			res.Dropped++
			continue
		}
		res.Totals = append(res.Totals, AllianceTotals{
			Name:          name,
			TotalScore:    resolveFloat(row, scoreKeys, 0),
			PositiveScore: resolveFloat(row, positiveKeys, 0),
			NegativeScore: resolveFloat(row, negativeKeys, 0),
		})
	}
	return res
}
