// Package normalize coerces loosely typed raw rows into typed rows.
//
// Parsing never fails: a field that cannot be read falls back to its
// documented default and is reported in the returned Fallbacks.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/eccstats/ecc-rankings/internal/domain/model"
)

// Bowling rate defaults. They sit at the scoring reference points, so a
// missing rate contributes nothing.
const (
	DefaultBowlingAverage    = 40.0
	DefaultBowlingEconomy    = 6.5
	DefaultBowlingStrikeRate = 40.0
)

// Field names reported in Fallbacks.
const (
	FieldMatches    = "matches"
	FieldInnings    = "innings"
	FieldNotOuts    = "not_outs"
	FieldRuns       = "runs"
	FieldHighest    = "highest"
	FieldAverage    = "average"
	FieldStrikeRate = "strike_rate"
	FieldWickets    = "wickets"
	FieldBest       = "best"
	FieldEconomy    = "economy"
)

var (
	numberPattern  = regexp.MustCompile(`\d+(?:\.\d+)?`)
	integerPattern = regexp.MustCompile(`\d+`)
	bestPattern    = regexp.MustCompile(`^\s*(\d+)\s*/`)
)

// Fallbacks lists the fields of one row that were defaulted.
type Fallbacks []string

// Float parses v leniently. The whole trimmed text is tried first, then the
// first embedded decimal. Negative, NaN and infinite values are rejected.
func Float(v model.RawValue) (float64, bool) {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		m := numberPattern.FindString(s)
		if m == "" {
			return 0, false
		}
		if f, err = strconv.ParseFloat(m, 64); err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

// Count parses v as a non-negative count, truncating any fraction.
func Count(v model.RawValue) (int, bool) {
	f, ok := Float(v)
	if !ok || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// Highest reads the leading integer of a highest-score figure such as "112*".
func Highest(v model.RawValue) (int, bool) {
	m := integerPattern.FindString(string(v))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// BestWickets reads the wickets component of a "wickets/runs" figure.
func BestWickets(v model.RawValue) (int, bool) {
	m := bestPattern.FindStringSubmatch(string(v))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

type fields struct {
	missed Fallbacks
}

func (f *fields) count(name string, v model.RawValue) int {
	n, ok := Count(v)
	if !ok {
		f.missed = append(f.missed, name)
	}
	return n
}

func (f *fields) float(name string, v model.RawValue, def float64) float64 {
	x, ok := Float(v)
	if !ok {
		f.missed = append(f.missed, name)
		return def
	}
	return x
}

func (f *fields) parsed(name string, parse func(model.RawValue) (int, bool), v model.RawValue) int {
	n, ok := parse(v)
	if !ok {
		f.missed = append(f.missed, name)
	}
	return n
}

// Batting normalizes one batting row. Every counting and rate field
// defaults to zero.
func Batting(row model.BattingRaw) (model.BattingRow, Fallbacks) {
	var f fields
	out := model.BattingRow{
		Player:     strings.TrimSpace(row.Player),
		Division:   row.Division,
		Matches:    f.count(FieldMatches, row.Matches),
		Innings:    f.count(FieldInnings, row.Innings),
		NotOuts:    f.count(FieldNotOuts, row.NotOuts),
		Runs:       f.count(FieldRuns, row.Runs),
		Highest:    f.parsed(FieldHighest, Highest, row.Highest),
		Average:    f.float(FieldAverage, row.Average, 0),
		StrikeRate: f.float(FieldStrikeRate, row.StrikeRate, 0),
	}
	return out, f.missed
}

// Bowling normalizes one bowling row.
func Bowling(row model.BowlingRaw) (model.BowlingRow, Fallbacks) {
	var f fields
	out := model.BowlingRow{
		Player:      strings.TrimSpace(row.Player),
		Division:    row.Division,
		Matches:     f.count(FieldMatches, row.Matches),
		Wickets:     f.count(FieldWickets, row.Wickets),
		BestWickets: f.parsed(FieldBest, BestWickets, row.Best),
		Average:     f.float(FieldAverage, row.Average, DefaultBowlingAverage),
		Economy:     f.float(FieldEconomy, row.Economy, DefaultBowlingEconomy),
		StrikeRate:  f.float(FieldStrikeRate, row.StrikeRate, DefaultBowlingStrikeRate),
	}
	return out, f.missed
}
