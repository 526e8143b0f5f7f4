package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	service "github.com/eccstats/ecc-rankings/internal/app"
	"github.com/eccstats/ecc-rankings/internal/adapters/repository"
	"github.com/eccstats/ecc-rankings/internal/adapters/source"
	"github.com/eccstats/ecc-rankings/internal/config"
	"github.com/eccstats/ecc-rankings/internal/domain/model"
	"github.com/eccstats/ecc-rankings/internal/domain/types"
	"github.com/eccstats/ecc-rankings/pkg/logger"
	"github.com/eccstats/ecc-rankings/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// memLoader serves fixed rows per division.
type memLoader struct {
	mu      sync.Mutex
	batting map[types.Division][]model.BattingRaw
	bowling map[types.Division][]model.BowlingRaw
	err     error
	calls   int
}

func (m *memLoader) Batting(_ context.Context, d types.Division) ([]model.BattingRaw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.batting[d], nil
}

func (m *memLoader) Bowling(_ context.Context, d types.Division) ([]model.BowlingRaw, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.bowling[d], nil
}

func (m *memLoader) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func fixtureLoader() *memLoader {
	return &memLoader{
		batting: map[types.Division][]model.BattingRaw{
			"Eerste_Klasse": {bat("Asha", "", "Eerste_Klasse", "6", "6", "1", "250", "112*", "50", "95")},
			"Vierde_Klasse": {bat("Ben", "", "Vierde_Klasse", "4", "4", "0", "60", "25", "15", "60")},
		},
		bowling: map[types.Division][]model.BowlingRaw{
			"Tweede_Klasse": {bowl("Asha", "", "Tweede_Klasse", "6", "9", "3/18", "20", "5", "24")},
		},
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("run-%d", n)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc, err := service.New(config.New())

		Convey("Then it should be created successfully", func() {
			So(err, ShouldBeNil)
			So(svc, ShouldNotBeNil)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})

	Convey("Given an invalid config", t, func() {
		cfg := config.New()
		cfg.DivisionOrder = nil
		_, err := service.New(cfg)

		So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
	})
}

func TestService_Load(t *testing.T) {
	Convey("Given a loader with rows in several divisions", t, func() {
		svc, err := service.New(config.New(), service.WithLoader(fixtureLoader()))
		So(err, ShouldBeNil)

		Convey("When loading", func() {
			in, err := svc.Load(context.Background())

			Convey("Then rows are concatenated in division order", func() {
				So(err, ShouldBeNil)
				So(in.Batting, ShouldHaveLength, 2)
				So(in.Batting[0].Player, ShouldEqual, "Asha")
				So(in.Batting[1].Player, ShouldEqual, "Ben")
				So(in.Bowling, ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given a loader that fails", t, func() {
		loader := fixtureLoader()
		loader.err = source.ErrSourceRead
		svc, _ := service.New(config.New(), service.WithLoader(loader), service.WithMetrics(testMetrics()))

		Convey("When refreshing", func() {
			_, err := svc.Refresh(context.Background())

			Convey("Then the error is reported and nothing is published", func() {
				So(errors.Is(err, source.ErrSourceRead), ShouldBeTrue)
				stats := svc.GetStats()
				So(stats["runs"], ShouldEqual, 1)
				So(stats["lastError"], ShouldNotBeNil)
				So(stats["batting"], ShouldEqual, 0)
			})
		})
	})
}

func TestService_Refresh(t *testing.T) {
	Convey("Given a service over fixed rows", t, func() {
		ctx := context.Background()
		store := repository.NewSnapshotStore()
		svc, err := service.New(config.New(),
			service.WithLoader(fixtureLoader()),
			service.WithStore(store),
			service.WithMetrics(testMetrics()),
			service.WithRunIDs(sequentialIDs()),
		)
		So(err, ShouldBeNil)

		Convey("When refreshing", func() {
			res, err := svc.Refresh(ctx)
			So(err, ShouldBeNil)

			Convey("Then the result is published to the store", func() {
				So(res.Batting, ShouldHaveLength, 2)

				top, err := svc.TopN(ctx, types.Batting, 10)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 2)
				So(top[0].Player, ShouldEqual, "Asha")
				So(top[0].Points, ShouldEqual, res.Batting[0].Points)
				So(top[0].Division, ShouldEqual, types.Division("Eerste_Klasse"))

				e, err := svc.Rank(ctx, types.AllRounder, "Asha")
				So(err, ShouldBeNil)
				So(e.Rank, ShouldEqual, 1)
				So(e.Points, ShouldEqual, res.AllRounders[0].Index)

				_, err = svc.Rank(ctx, types.Bowling, "Ben")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("Then stats show the run", func() {
				stats := svc.GetStats()
				So(stats["runs"], ShouldEqual, 1)
				So(stats["lastRunId"], ShouldEqual, "run-1")
				So(stats["batting"], ShouldEqual, 2)
				So(stats["bowling"], ShouldEqual, 1)
				So(stats["allrounders"], ShouldEqual, 2)
				So(stats["club"], ShouldEqual, "Eindhoven CC")

				snap, ok := store.Latest(ctx)
				So(ok, ShouldBeTrue)
				So(snap.RunID, ShouldEqual, "run-1")
			})
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a service with a short refresh interval", t, func() {
		cfg := config.New()
		cfg.RefreshIntervalSec = 1
		loader := fixtureLoader()
		svc, err := service.New(cfg, service.WithLoader(loader), service.WithMetrics(testMetrics()))
		So(err, ShouldBeNil)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil) // idempotent

			Convey("Then a snapshot is live and the loop refreshes", func() {
				So(svc.GetStats()["started"], ShouldEqual, true)
				So(svc.GetStats()["batting"], ShouldEqual, 2)

				deadline := time.Now().Add(5 * time.Second)
				for svc.GetStats()["runs"].(int) < 2 && time.Now().Before(deadline) {
					time.Sleep(50 * time.Millisecond)
				}
				So(svc.GetStats()["runs"], ShouldBeGreaterThanOrEqualTo, 2)

				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
				svc.Stop()
			})
		})
	})

	Convey("Given a service whose first load fails", t, func() {
		loader := fixtureLoader()
		loader.err = errors.New("down")
		svc, _ := service.New(config.New(), service.WithLoader(loader), service.WithMetrics(testMetrics()))

		So(svc.Start(context.Background()), ShouldNotBeNil)
		So(svc.GetStats()["started"], ShouldEqual, false)
	})
}

func TestService_FileSources(t *testing.T) {
	Convey("Given sources configured as files", t, func() {
		dir := t.TempDir()
		batPath := filepath.Join(dir, "bat_vierde.json")
		So(os.WriteFile(batPath, []byte(`[
			{"player": "A", "matches": "2", "innings": "2", "not_outs": "0", "runs": "80", "highest": "80", "average": "40.00", "strike_rate": "80.0"}
		]`), 0o600), ShouldBeNil)

		cfg := config.New()
		cfg.BattingSources = map[string]string{"Vierde_Klasse": batPath}
		svc, err := service.New(cfg, service.WithMetrics(testMetrics()))
		So(err, ShouldBeNil)

		Convey("When refreshing", func() {
			res, err := svc.Refresh(context.Background())

			Convey("Then the file rows are ranked under their division", func() {
				So(err, ShouldBeNil)
				So(res.Batting, ShouldHaveLength, 1)
				So(res.Batting[0].Points, ShouldEqual, 111)
				So(res.Batting[0].DominantDivision, ShouldEqual, types.Division("Vierde_Klasse"))
				So(res.Bowling, ShouldBeEmpty)
			})
		})
	})
}

func TestService_MetricsRegistry(t *testing.T) {
	Convey("Given a service with its own metrics manager and the default store", t, func() {
		reg := prometheus.NewRegistry()
		svc, err := service.New(config.New(),
			service.WithLoader(fixtureLoader()),
			service.WithMetrics(metrics.NewManager(metrics.WithPrometheusRegistry(reg))),
		)
		So(err, ShouldBeNil)

		Convey("When refreshing", func() {
			_, err := svc.Refresh(context.Background())
			So(err, ShouldBeNil)

			Convey("Then pipeline and publish series share one registry", func() {
				families, err := reg.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, mf := range families {
					names[mf.GetName()] = true
				}
				So(names["ecc_rankings_pipeline_runs_total"], ShouldBeTrue)
				So(names["ecc_rankings_players_ranked"], ShouldBeTrue)
				So(names["ecc_rankings_snapshot_published_unix"], ShouldBeTrue)
			})
		})
	})
}
