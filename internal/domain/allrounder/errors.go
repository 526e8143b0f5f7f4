package allrounder

import "errors"

// Sentinel kinds for all-rounder errors.
var (
	ErrInvalidWeights = errors.New("invalid all-rounder weights")
)
