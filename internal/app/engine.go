package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eccstats/ecc-rankings/internal/config"
	"github.com/eccstats/ecc-rankings/internal/domain/aggregate"
	"github.com/eccstats/ecc-rankings/internal/domain/allrounder"
	"github.com/eccstats/ecc-rankings/internal/domain/model"
	"github.com/eccstats/ecc-rankings/internal/domain/normalize"
	"github.com/eccstats/ecc-rankings/internal/domain/ranking"
	"github.com/eccstats/ecc-rankings/internal/domain/scoring"
	"github.com/eccstats/ecc-rankings/internal/domain/types"
	"github.com/eccstats/ecc-rankings/pkg/logger"
	"github.com/eccstats/ecc-rankings/pkg/metrics"
)

// Reasons a raw row is dropped before normalization.
const (
	ReasonNoPlayer = "no_player"
	ReasonClub     = "club"
	ReasonRowCap   = "row_cap"
)

// Input is one batch of raw rows across all divisions.
type Input struct {
	Batting []model.BattingRaw
	Bowling []model.BowlingRaw
}

// Result holds the three rankings of one pipeline run.
type Result struct {
	Club        string                   `json:"club"`
	Season      string                   `json:"season"`
	Batting     []model.ScoredBatting    `json:"batting"`
	Bowling     []model.ScoredBowling    `json:"bowling"`
	AllRounders []model.AllRounderRecord `json:"allrounders"`
}

// EngineOption applies a configuration option to the Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	identity model.IdentityFunc
	scoring  []scoring.Option
	logger   logger.Logger
	metrics  *metrics.Manager
}

// WithIdentity sets how player names map to identity keys.
func WithIdentity(fn model.IdentityFunc) EngineOption {
	return func(o *engineOptions) {
		if fn != nil {
			o.identity = fn
		}
	}
}

// WithScoring passes options to the score models.
func WithScoring(opts ...scoring.Option) EngineOption {
	return func(o *engineOptions) { o.scoring = append(o.scoring, opts...) }
}

// WithEngineLogger sets the engine logger.
func WithEngineLogger(l logger.Logger) EngineOption {
	return func(o *engineOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEngineMetrics sets the metrics manager the engine reports to.
func WithEngineMetrics(m *metrics.Manager) EngineOption {
	return func(o *engineOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// Engine runs normalize, aggregate, score, rank and combine over a batch.
// It holds no state between runs.
type Engine struct {
	club       string
	season     string
	rowCap     int
	aggregator *aggregate.Aggregator
	scorer     *scoring.Scorer
	combiner   *allrounder.Combiner
	logger     logger.Logger
	metrics    *metrics.Manager
}

// NewEngine validates cfg and builds an engine from it.
func NewEngine(cfg *config.Config, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := engineOptions{
		identity: model.ExactName,
		logger:   logger.Discard(),
		metrics:  metrics.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	combiner, err := allrounder.New(cfg.BlendWeights())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	return &Engine{
		club:   strings.TrimSpace(cfg.Club),
		season: cfg.Season,
		rowCap: cfg.MaxRowsPerDivision,
		aggregator: aggregate.New(
			aggregate.WithDivisions(cfg.Divisions(), cfg.Weights()),
			aggregate.WithIdentity(o.identity),
		),
		scorer:   scoring.NewScorer(o.scoring...),
		combiner: combiner,
		logger:   o.logger.Named("engine"),
		metrics:  o.metrics,
	}, nil
}

// Run ranks one batch. The same input always yields the same Result.
func (e *Engine) Run(ctx context.Context, in Input) Result {
	start := time.Now()

	batRows := admit(e, types.Batting, in.Batting, func(r model.BattingRaw) (string, string, types.Division) {
		return r.Player, r.Club, r.Division
	})
	bowlRows := admit(e, types.Bowling, in.Bowling, func(r model.BowlingRaw) (string, string, types.Division) {
		return r.Player, r.Club, r.Division
	})

	batting := make([]model.BattingRow, len(batRows))
	for i, raw := range batRows {
		row, missed := normalize.Batting(raw)
		e.fallbacks(ctx, types.Batting, row.Player, missed)
		batting[i] = row
	}
	bowling := make([]model.BowlingRow, len(bowlRows))
	for i, raw := range bowlRows {
		row, missed := normalize.Bowling(raw)
		e.fallbacks(ctx, types.Bowling, row.Player, missed)
		bowling[i] = row
	}

	mergedBat := e.aggregator.Batting(batting)
	mergedBowl := e.aggregator.Bowling(bowling)
	e.logger.Debug(ctx, "aggregated divisions",
		logger.Int("batters", len(mergedBat)),
		logger.Int("bowlers", len(mergedBowl)),
	)

	scoredBat, batBatch := e.scorer.Batting(mergedBat)
	e.floored(ctx, types.Batting, batBatch)
	scoredBowl, bowlBatch := e.scorer.Bowling(mergedBowl)
	e.floored(ctx, types.Bowling, bowlBatch)

	res := Result{
		Club:    e.club,
		Season:  e.season,
		Batting: ranking.Batting(scoredBat),
		Bowling: ranking.Bowling(scoredBowl),
	}
	res.AllRounders = e.combiner.Combine(res.Batting, res.Bowling)

	e.logger.Info(ctx, "rankings computed",
		logger.Int("batting", len(res.Batting)),
		logger.Int("bowling", len(res.Bowling)),
		logger.Int("allrounders", len(res.AllRounders)),
		logger.Duration("took", time.Since(start)),
	)
	return res
}

// admit applies the player, club and per-division cap filters in source order.
func admit[T any](e *Engine, d types.Discipline, rows []T, meta func(T) (player, club string, div types.Division)) []T {
	out := make([]T, 0, len(rows))
	kept := map[types.Division]int{}
	dropped := map[string]int{}
	for _, r := range rows {
		player, club, div := meta(r)
		switch {
		case strings.TrimSpace(player) == "":
			dropped[ReasonNoPlayer]++
			continue
		case e.club != "" && strings.TrimSpace(club) != "" && !strings.EqualFold(strings.TrimSpace(club), e.club):
			dropped[ReasonClub]++
			continue
		case e.rowCap > 0 && kept[div] >= e.rowCap:
			dropped[ReasonRowCap]++
			continue
		}
		kept[div]++
		out = append(out, r)
	}
	for div, n := range kept {
		e.metrics.RowsIngested(string(d), string(div), n)
	}
	for reason, n := range dropped {
		e.metrics.RowsFiltered(string(d), reason, n)
	}
	return out
}

func (e *Engine) fallbacks(ctx context.Context, d types.Discipline, player string, missed normalize.Fallbacks) {
	if len(missed) == 0 {
		return
	}
	for _, field := range missed {
		e.metrics.FieldFallback(string(d), field)
	}
	e.logger.Debug(ctx, "defaulted fields",
		logger.String("discipline", string(d)),
		logger.String("player", player),
		logger.Any("fields", []string(missed)),
	)
}

func (e *Engine) floored(ctx context.Context, d types.Discipline, b scoring.Batch) {
	if !b.Floored {
		return
	}
	e.metrics.SampleFloorApplied(string(d))
	e.logger.Warn(ctx, "no matches in cohort, sample floor applied",
		logger.String("discipline", string(d)),
		logger.Float64("factor", scoring.SampleFloor),
	)
}
