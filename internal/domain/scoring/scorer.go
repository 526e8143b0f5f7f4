package scoring

import "github.com/eccstats/ecc-rankings/internal/domain/model"

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithBattingModel replaces the batting formula constants.
func WithBattingModel(m BattingModel) Option {
	return func(s *Scorer) { s.batting = m }
}

// WithBowlingModel replaces the bowling formula constants.
func WithBowlingModel(m BowlingModel) Option {
	return func(s *Scorer) { s.bowling = m }
}

// Scorer scores whole cohorts, so the sample floor can see the batch.
type Scorer struct {
	batting BattingModel
	bowling BowlingModel
}

// Batch describes how a cohort was scored.
type Batch struct {
	// Floored is set when no record had matches and SampleFloor was used.
	Floored bool
}

// NewScorer creates a Scorer with the production formulas.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{batting: DefaultBatting, bowling: DefaultBowling}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// sampleFactors returns each record's sample factor, flooring the batch when
// every factor is zero.
func sampleFactors(n int, matches func(int) int) ([]float64, Batch) {
	factors := make([]float64, n)
	allZero := n > 0
	for i := range factors {
		factors[i] = SampleFactor(matches(i))
		if factors[i] != 0 {
			allZero = false
		}
	}
	if !allZero {
		return factors, Batch{}
	}
	for i := range factors {
		factors[i] = SampleFloor
	}
	return factors, Batch{Floored: true}
}

// Batting scores a batting cohort. Output order matches input order.
func (s *Scorer) Batting(records []model.MergedBatting) ([]model.ScoredBatting, Batch) {
	factors, batch := sampleFactors(len(records), func(i int) int { return records[i].Matches })
	out := make([]model.ScoredBatting, len(records))
	for i, r := range records {
		out[i] = model.ScoredBatting{
			MergedBatting: r,
			Points:        Points(s.batting.Raw(r), factors[i], r.DivisionWeight),
		}
	}
	return out, batch
}

// Bowling scores a bowling cohort. Output order matches input order.
func (s *Scorer) Bowling(records []model.MergedBowling) ([]model.ScoredBowling, Batch) {
	factors, batch := sampleFactors(len(records), func(i int) int { return records[i].Matches })
	out := make([]model.ScoredBowling, len(records))
	for i, r := range records {
		out[i] = model.ScoredBowling{
			MergedBowling: r,
			Points:        Points(s.bowling.Raw(r), factors[i], r.DivisionWeight),
		}
	}
	return out, batch
}
