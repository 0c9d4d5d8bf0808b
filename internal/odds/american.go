// Package odds converts sportsbook prices between American odds notation and
// implied probabilities. Implied probability here ignores the bookmaker's
// margin: the two sides of a market will sum to more than 1.
package odds

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ImpliedProbability converts an American-odds price to an implied
// probability. Positive price p -> 100/(p+100); negative -> -p/(-p+100).
// Numeric input is used directly; string input with a +/- prefix is re-parsed
// as an integer; the literal "EVEN" maps to exactly 0.5. Anything else
// returns false; callers must treat that as "no market comparison
// available", never as zero probability.
func ImpliedProbability(price any) (float64, bool) {
	switch v := price.(type) {
	case nil:
		return 0, false
	case float64:
		return fromAmerican(v)
	case float32:
		return fromAmerican(float64(v))
	case int:
		return fromAmerican(float64(v))
	case int64:
		return fromAmerican(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return fromAmerican(f)
	case string:
		return fromString(v)
	case json.RawMessage:
		return fromRaw(v)
	default:
		return 0, false
	}
}

func fromAmerican(o float64) (float64, bool) {
	if o == 0 || math.IsNaN(o) || math.IsInf(o, 0) {
		return 0, false
	}
	if o > 0 {
		return 100.0 / (o + 100.0), true
	}
	return -o / (-o + 100.0), true
}

func fromString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.EqualFold(s, "EVEN") {
		return 0.5, true
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return fromAmerican(float64(n))
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromAmerican(f)
	}
	return 0, false
}

func fromRaw(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return fromAmerican(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return fromString(s)
	}
	return 0, false
}

// AmericanToDecimal converts American odds to decimal odds:
// +150 -> 2.50, -150 -> 1.67.
func AmericanToDecimal(american int) (float64, bool) {
	if american == 0 {
		return 0, false
	}
	if american > 0 {
		return (float64(american) / 100.0) + 1.0, true
	}
	return (100.0 / float64(-american)) + 1.0, true
}

// ProbabilityToAmerican converts a probability back to the nearest American
// price, useful for echoing a model's fair odds next to the market's.
func ProbabilityToAmerican(probability float64) (int, bool) {
	if probability <= 0 || probability >= 1 {
		return 0, false
	}
	decimal := 1.0 / probability
	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), true
	}
	return int(math.Round(-100.0 / (decimal - 1.0))), true
}
