// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"

	"github.com/eccstats/ecc-rankings/internal/domain/types"
)

// RawValue is a loosely typed field as sourced: any JSON scalar is kept as
// its text, null decodes to the empty value.
type RawValue string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (v *RawValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*v = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = RawValue(s)
	default:
		*v = RawValue(b)
	}
	return nil
}

// BattingRaw is one batting row per player per division as collected.
type BattingRaw struct {
	Player     string         `json:"player"`
	Club       string         `json:"club,omitempty"`
	Division   types.Division `json:"division"`
	Matches    RawValue       `json:"matches"`
	Innings    RawValue       `json:"innings"`
	NotOuts    RawValue       `json:"not_outs"`
	Runs       RawValue       `json:"runs"`
	Highest    RawValue       `json:"highest"`
	Average    RawValue       `json:"average"`
	StrikeRate RawValue       `json:"strike_rate"`
}

// BowlingRaw is one bowling row per player per division as collected.
// Best holds figures formatted as "wickets/runs".
type BowlingRaw struct {
	Player     string         `json:"player"`
	Club       string         `json:"club,omitempty"`
	Division   types.Division `json:"division"`
	Matches    RawValue       `json:"matches"`
	Wickets    RawValue       `json:"wickets"`
	Best       RawValue       `json:"best"`
	Average    RawValue       `json:"average"`
	Economy    RawValue       `json:"economy"`
	StrikeRate RawValue       `json:"strike_rate"`
}
