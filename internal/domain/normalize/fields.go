// Package normalize converts loosely-typed spreadsheet rows into domain
// records. Field names are resolved through an explicit per-attribute
// candidate table instead of ad hoc key probing, so the accepted input shape
// is documented in one place.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kianvash/warboard/internal/domain/model"
)

// Candidate key lists per logical attribute, in priority order. The
// Excel-style PascalCase name wins when a row carries both conventions.
var (
	nameKeys     = []string{"Name", "name"}
	scoreKeys    = []string{"Total Score", "Score", "score"}
	positionKeys = []string{"Position", "position"}
	allianceKeys = []string{"Alliance", "alliance"}
	monarchKeys  = []string{"Monarch ID", "monarchId", "monarchID"}
	positiveKeys = []string{"Positive", "positiveScore", "positive"}
	negativeKeys = []string{"Negative", "negativeScore", "negative"}

	// Dedicated alliance rows label the alliance under Alliance or Name.
	allianceNameKeys = []string{"Alliance", "alliance", "Name", "name"}
)

// lookup returns the first candidate key present in the row.
func lookup(r model.RawRecord, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// resolveName resolves a player or alliance name. The second return value is
// false when the name is absent, null, or empty: the row is invalid.
func resolveName(r model.RawRecord, keys []string) (string, bool) {
	v, ok := lookup(r, keys)
	if !ok || v == nil {
		return "", false
	}
	switch n := v.(type) {
	case string:
		if n == "" {
			return "", false
		}
		return n, true
	case float64:
		// Spreadsheets occasionally hold purely numeric names.
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case json.Number:
		return n.String(), true
	default:
		return "", false
	}
}

// resolveFloat resolves a numeric attribute, degrading to def when the value
// is absent or unparsable.
func resolveFloat(r model.RawRecord, keys []string, def float64) float64 {
	v, ok := lookup(r, keys)
	if !ok {
		return def
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return def
}

// resolveInt resolves an integer attribute, truncating fractional values.
func resolveInt(r model.RawRecord, keys []string, def int) int {
	v, ok := lookup(r, keys)
	if !ok {
		return def
	}
	if f, ok := toFloat(v); ok {
		return int(f)
	}
	return def
}

// resolveAlliance resolves the alliance label, defaulting to "None".
func resolveAlliance(r model.RawRecord) string {
	v, ok := lookup(r, allianceKeys)
	if !ok || v == nil {
		return model.NoAlliance
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return model.NoAlliance
}

// toFloat coerces the value types a JSON decode can produce into a float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
