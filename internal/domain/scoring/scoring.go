// Package scoring maps merged player records to bounded composite points.
//
// Every statistic contributes amplitude × tanh(x / scale); "lower is better"
// rates contribute amplitude × tanh(max(0, reference − x) / scale). The sum is
// discounted by a sample-size factor and multiplied by the division weight.
package scoring

import (
	"math"

	"github.com/eccstats/ecc-rankings/internal/domain/model"
)

// Sample-size constants.
const (
	sampleScale = 6.0
	// SampleFloor replaces the sample factor when a whole batch has no matches.
	SampleFloor = 0.6
)

// Saturation is one diminishing-returns term.
type Saturation struct {
	Amplitude float64
	Scale     float64
}

// Of returns the term for a higher-is-better value.
func (s Saturation) Of(x float64) float64 {
	if s.Scale <= 0 {
		return 0
	}
	return s.Amplitude * math.Tanh(x/s.Scale)
}

// Improvement is a lower-is-better term measured against a reference.
type Improvement struct {
	Saturation
	Reference float64
}

// Of returns the term for x; values at or past the reference give zero.
func (i Improvement) Of(x float64) float64 {
	return i.Saturation.Of(math.Max(0, i.Reference-x))
}

// BattingModel holds the batting formula constants.
type BattingModel struct {
	Runs         Saturation
	Average      Saturation
	StrikeRate   Saturation
	Consistency  Saturation // not-outs per innings
	CenturyBonus float64
	FiftyBonus   float64
}

// BowlingModel holds the bowling formula constants.
type BowlingModel struct {
	Wickets     Saturation
	Average     Improvement
	Economy     Improvement
	StrikeRate  Improvement
	BestWickets Saturation
}

// DefaultBatting is the production batting formula.
var DefaultBatting = BattingModel{
	Runs:         Saturation{Amplitude: 300, Scale: 600},
	Average:      Saturation{Amplitude: 350, Scale: 75},
	StrikeRate:   Saturation{Amplitude: 200, Scale: 130},
	Consistency:  Saturation{Amplitude: 100, Scale: 0.4},
	CenturyBonus: 60,
	FiftyBonus:   25,
}

// DefaultBowling is the production bowling formula.
var DefaultBowling = BowlingModel{
	Wickets:     Saturation{Amplitude: 400, Scale: 35},
	Average:     Improvement{Saturation{Amplitude: 250, Scale: 25}, 40},
	Economy:     Improvement{Saturation{Amplitude: 200, Scale: 2.5}, 6.5},
	StrikeRate:  Improvement{Saturation{Amplitude: 100, Scale: 20}, 40},
	BestWickets: Saturation{Amplitude: 50, Scale: 6},
}

// Raw returns the undiscounted batting sub-score sum.
func (m BattingModel) Raw(r model.MergedBatting) float64 {
	notOutRate := 0.0
	if r.Innings > 0 {
		notOutRate = float64(r.NotOuts) / float64(r.Innings)
	}
	milestone := 0.0
	switch {
	case r.Highest >= 100:
		milestone = m.CenturyBonus
	case r.Highest >= 50:
		milestone = m.FiftyBonus
	}
	return m.Runs.Of(float64(r.Runs)) +
		m.Average.Of(r.Average) +
		m.StrikeRate.Of(r.StrikeRate) +
		m.Consistency.Of(notOutRate) +
		milestone
}

// Raw returns the undiscounted bowling sub-score sum.
func (m BowlingModel) Raw(r model.MergedBowling) float64 {
	return m.Wickets.Of(float64(r.Wickets)) +
		m.Average.Of(r.Average) +
		m.Economy.Of(r.Economy) +
		m.StrikeRate.Of(r.StrikeRate) +
		m.BestWickets.Of(float64(r.BestWickets))
}

// SampleFactor discounts small samples: tanh(matches / 6).
func SampleFactor(matches int) float64 {
	if matches <= 0 {
		return 0
	}
	return math.Tanh(float64(matches) / sampleScale)
}

// Points combines a raw sum with the sample factor and division weight,
// rounding half to even. The result is never negative.
func Points(raw, sampleFactor, divisionWeight float64) int {
	p := math.RoundToEven(raw * sampleFactor * divisionWeight)
	if p <= 0 || math.IsNaN(p) {
		return 0
	}
	return int(p)
}
