// Package types contains common types used across the application
package types

// Discipline names one ranking family.
type Discipline string

// Known disciplines.
const (
	Batting    Discipline = "batting"
	Bowling    Discipline = "bowling"
	AllRounder Discipline = "allrounder"
)

// ParseDiscipline maps a path or flag value to a Discipline.
func ParseDiscipline(s string) (Discipline, bool) {
	switch Discipline(s) {
	case Batting, Bowling, AllRounder:
		return Discipline(s), true
	}
	return "", false
}

// Division is a competitive tier label, e.g. "Eerste_Klasse".
type Division string

// Badge marks the top three of a ranking.
type Badge string

// Badges for ranks 1 to 3. Every other rank has an empty badge.
const (
	BadgeGold   Badge = "🥇"
	BadgeSilver Badge = "🥈"
	BadgeBronze Badge = "🥉"
)

// BadgeFor returns the badge for a 1-based rank.
func BadgeFor(rank int) Badge {
	switch rank {
	case 1:
		return BadgeGold
	case 2:
		return BadgeSilver
	case 3:
		return BadgeBronze
	}
	return ""
}

// Entry represents a leaderboard entry
type Entry struct {
	Rank     int      `json:"rank"`
	Badge    Badge    `json:"badge,omitempty"`
	Player   string   `json:"player"`
	Points   int      `json:"points"`
	Division Division `json:"division,omitempty"`
}
