package model

import "github.com/eccstats/ecc-rankings/internal/domain/types"

// BattingRow is a BattingRaw with every numeric field resolved.
type BattingRow struct {
	Player     string
	Division   types.Division
	Matches    int
	Innings    int
	NotOuts    int
	Runs       int
	Highest    int
	Average    float64
	StrikeRate float64
}

// BowlingRow is a BowlingRaw with every numeric field resolved.
type BowlingRow struct {
	Player      string
	Division    types.Division
	Matches     int
	Wickets     int
	BestWickets int
	Average     float64
	Economy     float64
	StrikeRate  float64
}

// MergedBatting folds a player's batting rows across divisions.
type MergedBatting struct {
	Key              PlayerKey        `json:"-"`
	Player           string           `json:"player"`
	Divisions        []types.Division `json:"divisions"`
	Matches          int              `json:"matches"`
	Innings          int              `json:"innings"`
	NotOuts          int              `json:"not_outs"`
	Runs             int              `json:"runs"`
	Highest          int              `json:"highest"`
	Average          float64          `json:"average"`
	StrikeRate       float64          `json:"strike_rate"`
	DominantDivision types.Division   `json:"dominant_division"`
	DivisionWeight   float64          `json:"division_weight"`
}

// MergedBowling folds a player's bowling rows across divisions.
type MergedBowling struct {
	Key              PlayerKey        `json:"-"`
	Player           string           `json:"player"`
	Divisions        []types.Division `json:"divisions"`
	Matches          int              `json:"matches"`
	Wickets          int              `json:"wickets"`
	BestWickets      int              `json:"best_wickets"`
	Average          float64          `json:"average"`
	Economy          float64          `json:"economy"`
	StrikeRate       float64          `json:"strike_rate"`
	DominantDivision types.Division   `json:"dominant_division"`
	DivisionWeight   float64          `json:"division_weight"`
}

// Standing is the position assigned by the ranker.
type Standing struct {
	Rank  int         `json:"club_ranking"`
	Badge types.Badge `json:"badge"`
}

// ScoredBatting is a merged batting record with its points and standing.
type ScoredBatting struct {
	Standing
	MergedBatting
	Points int `json:"points"`
}

// Entry returns the leaderboard view of the record.
func (s ScoredBatting) Entry() types.Entry {
	return types.Entry{Rank: s.Rank, Badge: s.Badge, Player: s.Player, Points: s.Points, Division: s.DominantDivision}
}

// ScoredBowling is a merged bowling record with its points and standing.
type ScoredBowling struct {
	Standing
	MergedBowling
	Points int `json:"points"`
}

// Entry returns the leaderboard view of the record.
func (s ScoredBowling) Entry() types.Entry {
	return types.Entry{Rank: s.Rank, Badge: s.Badge, Player: s.Player, Points: s.Points, Division: s.DominantDivision}
}

// AllRounderRecord blends a player's batting and bowling standing.
// A missing discipline has zero points and zero percentile.
type AllRounderRecord struct {
	Standing
	Key            PlayerKey      `json:"-"`
	Player         string         `json:"player"`
	BatPoints      int            `json:"bat_points"`
	BowlPoints     int            `json:"bowl_points"`
	BatPercentile  float64        `json:"bat_percentile"`
	BowlPercentile float64        `json:"bowl_percentile"`
	Index          int            `json:"ari"`
	BatDivision    types.Division `json:"bat_division,omitempty"`
	BowlDivision   types.Division `json:"bowl_division,omitempty"`
}

// Entry returns the leaderboard view of the record; points carry the index.
func (a AllRounderRecord) Entry() types.Entry {
	div := a.BatDivision
	if a.BowlPoints > a.BatPoints {
		div = a.BowlDivision
	}
	return types.Entry{Rank: a.Rank, Badge: a.Badge, Player: a.Player, Points: a.Index, Division: div}
}
