package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrSourceRead = errors.New("source read failed")
)
