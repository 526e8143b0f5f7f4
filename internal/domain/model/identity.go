package model

// PlayerKey is the comparable identity rows are grouped by.
type PlayerKey string

// IdentityFunc resolves a sourced player name to its key.
type IdentityFunc func(player string) PlayerKey

// ExactName keys players by their case-sensitive name.
func ExactName(player string) PlayerKey { return PlayerKey(player) }
