// Package service wires source loading, the ranking engine and the snapshot
// store into the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/eccstats/ecc-rankings/internal/adapters/repository"
	"github.com/eccstats/ecc-rankings/internal/adapters/source"
	"github.com/eccstats/ecc-rankings/internal/config"
	"github.com/eccstats/ecc-rankings/internal/domain/model"
	"github.com/eccstats/ecc-rankings/internal/domain/types"
	"github.com/eccstats/ecc-rankings/pkg/logger"
	"github.com/eccstats/ecc-rankings/pkg/metrics"
)

// Service loads sources, runs the engine and publishes snapshots.
type Service struct {
	mu sync.RWMutex

	cfg     *config.Config
	engine  *Engine
	loader  source.Loader
	store   repository.Store
	metrics *metrics.Manager
	logger  logger.Logger
	runID   func() string
	now     func() time.Time

	// State
	started   bool
	stopCh    chan struct{}
	wg        sync.WaitGroup
	runs      int
	lastRunID string
	lastRunAt time.Time
	lastErr   error
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoader replaces the file loader built from the config.
func WithLoader(l source.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithStore replaces the in-memory snapshot store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithRunIDs sets the run ID generator.
func WithRunIDs(next func() string) Option {
	return func(s *Service) {
		if next != nil {
			s.runID = next
		}
	}
}

// New constructs a Service over cfg.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalidConfig)
	}
	s := &Service{
		cfg:     cfg,
		metrics: metrics.Default(),
		logger:  logger.Discard(),
		runID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		s.loader = source.NewFileLoader(cfg.Sources(types.Batting), cfg.Sources(types.Bowling))
	}
	if s.store == nil {
		s.store = repository.NewSnapshotStore(repository.WithClock(s.now), repository.WithMetrics(s.metrics))
	}

	engine, err := NewEngine(cfg,
		WithEngineLogger(s.logger),
		WithEngineMetrics(s.metrics),
	)
	if err != nil {
		return nil, err
	}
	s.engine = engine
	s.logger = s.logger.Named("service")
	return s, nil
}

// divisions lists every division with a source: the configured order first,
// then the rest by name.
func (s *Service) divisions() []types.Division {
	seen := map[types.Division]bool{}
	out := make([]types.Division, 0, len(s.cfg.DivisionOrder))
	for _, d := range s.cfg.Divisions() {
		seen[d] = true
		out = append(out, d)
	}
	var extra []types.Division
	for _, d := range []types.Discipline{types.Batting, types.Bowling} {
		for div := range s.cfg.Sources(d) {
			if !seen[div] {
				seen[div] = true
				extra = append(extra, div)
			}
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

// Load reads every division of both disciplines concurrently. Rows are
// concatenated in division order regardless of load timing.
func (s *Service) Load(ctx context.Context) (Input, error) {
	divs := s.divisions()
	bat := make([][]model.BattingRaw, len(divs))
	bowl := make([][]model.BowlingRaw, len(divs))

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range divs {
		g.Go(func() error {
			rows, err := s.loader.Batting(gctx, d)
			bat[i] = rows
			return err
		})
		g.Go(func() error {
			rows, err := s.loader.Bowling(gctx, d)
			bowl[i] = rows
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Input{}, err
	}

	var in Input
	for i := range divs {
		in.Batting = append(in.Batting, bat[i]...)
		in.Bowling = append(in.Bowling, bowl[i]...)
	}
	return in, nil
}

// Refresh runs one load, rank and publish cycle.
func (s *Service) Refresh(ctx context.Context) (Result, error) {
	start := time.Now()
	id := s.runID()
	ctx = logger.WithRunID(ctx, id)

	in, err := s.Load(ctx)
	if err != nil {
		s.finish(id, err)
		s.metrics.RefreshError()
		s.metrics.PipelineRun(false, time.Since(start).Seconds())
		s.logger.Error(ctx, "refresh failed", logger.Error(err))
		return Result{}, err
	}

	res := s.engine.Run(ctx, in)
	err = s.store.Publish(ctx, repository.Snapshot{
		RunID:  id,
		Club:   res.Club,
		Season: res.Season,
		Boards: map[types.Discipline][]types.Entry{
			types.Batting:    entries(res.Batting),
			types.Bowling:    entries(res.Bowling),
			types.AllRounder: entries(res.AllRounders),
		},
	})
	s.finish(id, err)
	s.metrics.PipelineRun(err == nil, time.Since(start).Seconds())
	if err != nil {
		s.logger.Error(ctx, "publish failed", logger.Error(err))
		return Result{}, err
	}
	s.logger.Info(ctx, "snapshot published",
		logger.Int("batting_rows", len(in.Batting)),
		logger.Int("bowling_rows", len(in.Bowling)),
		logger.Duration("took", time.Since(start)),
	)
	return res, nil
}

func (s *Service) finish(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	s.lastRunID = id
	s.lastRunAt = s.now()
	s.lastErr = err
}

func entries[T interface{ Entry() types.Entry }](records []T) []types.Entry {
	out := make([]types.Entry, len(records))
	for i, r := range records {
		out[i] = r.Entry()
	}
	return out
}

// Start publishes a first snapshot and, when a refresh interval is
// configured, keeps refreshing until Stop or ctx ends.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	stop := make(chan struct{})
	s.stopCh = stop
	s.mu.Unlock()

	s.logger.Info(ctx, "starting rankings service...",
		logger.String("club", s.cfg.Club),
		logger.String("season", s.cfg.Season),
	)
	if _, err := s.Refresh(ctx); err != nil {
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return err
	}

	if interval := s.cfg.RefreshInterval(); interval > 0 {
		s.wg.Add(1)
		go s.refreshLoop(ctx, interval, stop)
	}
	return nil
}

func (s *Service) refreshLoop(ctx context.Context, interval time.Duration, stop <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			// Failures are counted and logged; the previous snapshot stays live.
			_, _ = s.Refresh(ctx)
		}
	}
}

// Stop ends the refresh loop.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info(context.Background(), "rankings service stopped")
}

// TopN returns the first n entries of a leaderboard.
func (s *Service) TopN(ctx context.Context, d types.Discipline, n int) ([]types.Entry, error) {
	return s.store.TopN(ctx, d, n)
}

// Rank returns a player's entry on a leaderboard.
func (s *Service) Rank(ctx context.Context, d types.Discipline, player string) (types.Entry, error) {
	return s.store.Rank(ctx, d, player)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":     s.started,
		"club":        s.cfg.Club,
		"season":      s.cfg.Season,
		"runs":        s.runs,
		"batting":     s.store.Count(ctx, types.Batting),
		"bowling":     s.store.Count(ctx, types.Bowling),
		"allrounders": s.store.Count(ctx, types.AllRounder),
	}
	if s.lastRunID != "" {
		stats["lastRunId"] = s.lastRunID
		stats["lastRunAt"] = s.lastRunAt.UTC().Format(time.RFC3339)
	}
	if s.lastErr != nil {
		stats["lastError"] = s.lastErr.Error()
	}
	return stats
}
