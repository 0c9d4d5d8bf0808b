// Package props holds the outcome models: stateless functions mapping a
// batter StatRecord, a pitcher StatRecord, and a park multiplier to a
// probability estimate for one discrete game outcome.
//
// Every metric read applies a documented neutral default when the record
// lacks the key, so sparse upstream data degrades gracefully instead of
// erroring. Every probability is clamped into [0,1] (or a tighter
// model-specific range) before being returned. Confidence blends a
// sample-size proxy (PA against a 600-PA full season) with a signal-strength
// proxy and is clamped into [0.05, 0.98], never exactly 0 or 1.
package props

import (
	"math"

	"github.com/mwhitman/propedge/internal/models"
)

// Neutral defaults applied on StatRecord lookup misses.
const (
	defaultBarrelRate = 0.03
	defaultXWOBA      = 0.320
	defaultPA         = 4.0
	defaultXBA        = 0.24
	defaultBBRate     = 0.08
	defaultKRate      = 0.22
	defaultXFIP       = 4.0
	defaultHRFB       = 0.10
	defaultCSW        = 0.26
	defaultK9         = 8.5
	defaultBB9        = 3.0
	defaultStability  = 0.6

	// baseHRRate is the league-baseline expected HR count per game.
	baseHRRate = 0.035

	fullSeasonPA = 600.0
)

// Outcome type keys used in MatchedProp.Estimates.
const (
	OutcomeHomeRun           = "hr"
	OutcomeTotalBases        = "tb"
	OutcomeHits              = "hits"
	OutcomeWalk              = "walk"
	OutcomeBatterStrikeouts  = "ks"
	OutcomePitcherStrikeouts = "pitcher_ks"
)

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// normalCDF evaluates the standard normal cumulative distribution at z.
func normalCDF(z float64) float64 {
	return 0.5 * (1.0 + math.Erf(z/math.Sqrt2))
}

// HomeRun estimates the probability a batter homers at least once against
// the given pitcher. A composite power score (barrel rate plus xwOBA above
// the 0.320 league baseline) scales a baseline per-game rate, divided by a
// pitcher suppression factor from xFIP and HR/FB, then mapped to a
// probability through the Poisson no-event complement 1-e^(-rate).
func HomeRun(batter, pitcher models.StatRecord, parkFactor float64) models.OutcomeEstimate {
	barrel := batter.Lookup("Barrel%", defaultBarrelRate)
	xwoba := batter.Lookup("xwOBA", defaultXWOBA)
	pa := batter.Lookup("PA", defaultPA)
	xfip := pitcher.Lookup("xFIP", defaultXFIP)
	hrfb := pitcher.Lookup("HR/FB", defaultHRFB)

	powerScore := (barrel * 20.0) + math.Max(0.0, (xwoba-0.32)*2.5)
	suppress := 1.0 + ((xfip - 4.0) * 0.08) + math.Max(0.0, hrfb-0.10)
	rate := clamp(baseHRRate*(1.0+powerScore)/suppress*parkFactor, 0.002, 0.8)
	prob := clamp(1.0-math.Exp(-rate), 0.0, 1.0)

	stability := math.Min(1.0, pa/fullSeasonPA+0.1)
	confidence := clamp(0.25+(barrel*3.0)+(stability*0.2), 0.05, 0.98)

	return models.OutcomeEstimate{Probability: prob, ExpectedValue: rate, Confidence: confidence}
}

// TotalBases projects expected total bases via a linear xwOBA calibration
// and returns the probability of exceeding 1.5, using a normal approximation
// with stdev at 36% of the expectation (floor 0.5).
func TotalBases(batter, pitcher models.StatRecord, parkFactor float64) models.OutcomeEstimate {
	pa := batter.Lookup("PA", defaultPA)
	xwoba := batter.Lookup("xwOBA", defaultXWOBA)
	csw := pitcher.Lookup("CSW", defaultCSW)

	tbPerPA := math.Max(0.08, (xwoba-0.18)*1.6)
	pitcherFactor := 1.0 - (csw-0.26)*0.6
	expected := pa * tbPerPA * pitcherFactor * parkFactor
	std := math.Max(0.5, expected*0.36)
	probOver := clamp(normalCDF((expected-1.5)/std), 0.0, 1.0)

	return models.OutcomeEstimate{Probability: probOver, ExpectedValue: expected, StdDev: std}
}

// Hits projects expected hits from xBA (falling back to xwOBA as a rough
// stand-in, then 0.24) and returns the Poisson probability of at least one.
func Hits(batter, pitcher models.StatRecord, parkFactor float64) models.OutcomeEstimate {
	xba := batter.Lookup("xBA", batter.Lookup("xwOBA", defaultXBA))
	pa := batter.Lookup("PA", defaultPA)

	expected := pa * xba * parkFactor
	prob := clamp(1.0-math.Exp(-expected), 0.0, 1.0)
	confidence := clamp(0.25+math.Min(pa/fullSeasonPA, 0.5), 0.05, 0.98)

	return models.OutcomeEstimate{Probability: prob, ExpectedValue: expected, Confidence: confidence}
}

// Walk estimates the probability the batter draws a walk, adjusting the
// batter's walk rate by the pitcher's deviation from a 3.0 BB/9 baseline.
// The output range [0.01, 0.45] covers everything from free-swingers to
// peak walk-machines.
func Walk(batter, pitcher models.StatRecord) models.OutcomeEstimate {
	bb := batter.Lookup("BB%", defaultBBRate)
	bb9 := pitcher.Lookup("BB9", defaultBB9)
	pa := batter.Lookup("PA", defaultPA)

	prob := clamp(bb*(1.0+(bb9-3.0)*0.05), 0.01, 0.45)
	confidence := clamp(0.2+math.Min(pa/fullSeasonPA, 0.4), 0.05, 0.95)

	return models.OutcomeEstimate{Probability: prob, Confidence: confidence}
}

// BatterStrikeouts projects expected strikeouts for a batter and the Poisson
// probability of more than 1.5: 1 - e^(-λ)(1+λ).
func BatterStrikeouts(batter, pitcher models.StatRecord) models.OutcomeEstimate {
	kRate := batter.Lookup("K%", defaultKRate)
	pa := batter.Lookup("PA", defaultPA)
	k9 := pitcher.Lookup("K9", defaultK9)

	pitcherFactor := 1.0 + ((k9 - 8.5) * 0.05)
	lambda := pa * kRate * pitcherFactor
	prob := clamp(1.0-(math.Exp(-lambda)*(1.0+lambda)), 0.0, 1.0)
	confidence := clamp(0.2+math.Min(pa/fullSeasonPA, 0.4), 0.05, 0.95)

	return models.OutcomeEstimate{Probability: prob, ExpectedValue: lambda, Confidence: confidence}
}

// PitcherStrikeouts projects a starter's strikeouts over an estimated
// innings count and the probability of exceeding 7.5, with stdev at 42% of
// the expectation (floor 1.0).
func PitcherStrikeouts(pitcher models.StatRecord, estInnings float64) models.OutcomeEstimate {
	k9 := pitcher.Lookup("K9", defaultK9)

	expected := (k9 / 9.0) * estInnings
	std := math.Max(1.0, expected*0.42)
	prob := clamp(normalCDF((expected-7.5)/std), 0.0, 1.0)
	confidence := clamp(0.25+0.3*pitcher.Lookup("sample_stability", defaultStability), 0.05, 0.98)

	return models.OutcomeEstimate{Probability: prob, ExpectedValue: expected, StdDev: std, Confidence: confidence}
}

// Estimates runs the batter-facing model family for one matchup and returns
// the keyed estimate map persisted in MatchedProp records.
func Estimates(batter, pitcher models.StatRecord, parkFactor float64) map[string]models.OutcomeEstimate {
	return map[string]models.OutcomeEstimate{
		OutcomeHomeRun:          HomeRun(batter, pitcher, parkFactor),
		OutcomeTotalBases:       TotalBases(batter, pitcher, parkFactor),
		OutcomeHits:             Hits(batter, pitcher, parkFactor),
		OutcomeWalk:             Walk(batter, pitcher),
		OutcomeBatterStrikeouts: BatterStrikeouts(batter, pitcher),
	}
}
