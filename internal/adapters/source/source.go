// Package source loads the raw per-division stat rows collected upstream.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/eccstats/ecc-rankings/internal/domain/model"
	"github.com/eccstats/ecc-rankings/internal/domain/types"
)

// Loader returns the raw rows of one discipline for one division.
type Loader interface {
	Batting(ctx context.Context, division types.Division) ([]model.BattingRaw, error)
	Bowling(ctx context.Context, division types.Division) ([]model.BowlingRaw, error)
}

// FileLoader reads a JSON array of rows per division from disk.
type FileLoader struct {
	batting map[types.Division]string
	bowling map[types.Division]string
}

// NewFileLoader builds a loader over per-division file paths.
func NewFileLoader(batting, bowling map[types.Division]string) *FileLoader {
	return &FileLoader{batting: batting, bowling: bowling}
}

// Batting loads the batting rows of a division. A division with no
// configured path has no rows.
func (l *FileLoader) Batting(ctx context.Context, division types.Division) ([]model.BattingRaw, error) {
	rows, err := readRows[model.BattingRaw](ctx, l.batting[division])
	if err != nil {
		return nil, fmt.Errorf("%w: batting %s: %w", ErrSourceRead, division, err)
	}
	for i := range rows {
		if rows[i].Division == "" {
			rows[i].Division = division
		}
	}
	return rows, nil
}

// Bowling loads the bowling rows of a division.
func (l *FileLoader) Bowling(ctx context.Context, division types.Division) ([]model.BowlingRaw, error) {
	rows, err := readRows[model.BowlingRaw](ctx, l.bowling[division])
	if err != nil {
		return nil, fmt.Errorf("%w: bowling %s: %w", ErrSourceRead, division, err)
	}
	for i := range rows {
		if rows[i].Division == "" {
			rows[i].Division = division
		}
	}
	return rows, nil
}

func readRows[T any](ctx context.Context, path string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []T
	if err := json.Unmarshal(b, &rows); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return nil, fmt.Errorf("%s: offset %d: %w", path, syn.Offset, err)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
