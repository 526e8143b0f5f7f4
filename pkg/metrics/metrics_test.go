package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// sample returns the counter, gauge or histogram count of the first series of
// name whose labels include want.
func sample(reg *prometheus.Registry, name string, want map[string]string) (float64, bool) {
	families, err := reg.Gather()
	if err != nil {
		return 0, false
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range metric.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			match := true
			for k, v := range want {
				if got[k] != v {
					match = false
				}
			}
			if !match {
				continue
			}
			switch {
			case metric.GetCounter() != nil:
				return metric.GetCounter().GetValue(), true
			case metric.GetGauge() != nil:
				return metric.GetGauge().GetValue(), true
			case metric.GetHistogram() != nil:
				return float64(metric.GetHistogram().GetSampleCount()), true
			}
		}
	}
	return 0, false
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a custom registry", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))
			So(manager, ShouldNotBeNil)
		})

		Convey("When creating with custom options", func() {
			manager := NewManager(
				WithMetricsEnabled(true),
				WithConstLabels(map[string]string{"club": "Eindhoven CC"}),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)
			So(manager, ShouldNotBeNil)
		})

		Convey("When empty values are passed they keep the defaults", func() {
			reg := prometheus.NewRegistry()
			manager := NewManager(
				WithConstLabels(nil),
				WithPrometheusRegistry(reg),
			)
			manager.RefreshError()

			v, ok := sample(reg, "ecc_rankings_refresh_errors_total", nil)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 1)
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(reg), WithConstLabels(map[string]string{"season": "2025"}))

		Convey("When recording ingest metrics", func() {
			m.RowsIngested("batting", "Eerste_Klasse", 7)
			m.RowsIngested("batting", "Eerste_Klasse", 3)
			m.RowsIngested("batting", "Eerste_Klasse", 0)
			m.RowsFiltered("bowling", "club", 2)
			m.FieldFallback("bowling", "economy")
			m.FieldFallback("bowling", "economy")

			Convey("Then counters carry their labels", func() {
				v, _ := sample(reg, "ecc_rankings_rows_ingested_total", map[string]string{"discipline": "batting", "division": "Eerste_Klasse", "season": "2025"})
				So(v, ShouldEqual, 10)
				v, _ = sample(reg, "ecc_rankings_rows_filtered_total", map[string]string{"reason": "club"})
				So(v, ShouldEqual, 2)
				v, _ = sample(reg, "ecc_rankings_field_fallbacks_total", map[string]string{"field": "economy"})
				So(v, ShouldEqual, 2)
			})
		})

		Convey("When recording pipeline metrics", func() {
			m.PlayersRanked("allrounder", 12)
			m.PlayersRanked("allrounder", 9)
			m.SampleFloorApplied("batting")
			m.PipelineRun(true, 0.02)
			m.PipelineRun(false, 0.01)
			m.SnapshotPublished(1_700_000_000)

			Convey("Then gauges hold the last value and runs split by outcome", func() {
				v, _ := sample(reg, "ecc_rankings_players_ranked", map[string]string{"discipline": "allrounder"})
				So(v, ShouldEqual, 9)
				v, _ = sample(reg, "ecc_rankings_sample_floor_applied_total", nil)
				So(v, ShouldEqual, 1)
				v, _ = sample(reg, "ecc_rankings_pipeline_runs_total", map[string]string{"outcome": "failure"})
				So(v, ShouldEqual, 1)
				v, _ = sample(reg, "ecc_rankings_pipeline_duration_seconds", nil)
				So(v, ShouldEqual, 2)
				v, _ = sample(reg, "ecc_rankings_snapshot_published_unix", nil)
				So(v, ShouldEqual, 1_700_000_000)
			})
		})

		Convey("When recording HTTP metrics", func() {
			m.HTTPRequest("/leaderboard/{discipline}", "GET", 200, 1.5)
			m.HTTPRequest("/leaderboard/{discipline}", "GET", 200, 2.5)

			v, _ := sample(reg, "ecc_rankings_http_requests_total", map[string]string{"status_code": "200"})
			So(v, ShouldEqual, 2)
			v, _ = sample(reg, "ecc_rankings_http_request_duration_milliseconds", nil)
			So(v, ShouldEqual, 2)
		})
	})
}

func TestMetricsDisabled(t *testing.T) {
	Convey("Given a disabled manager", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(reg), WithMetricsEnabled(false))

		m.RowsIngested("batting", "x", 5)
		m.PipelineRun(true, 1)
		m.HTTPRequest("/stats", "GET", 200, 1)

		Convey("Then nothing is observed", func() {
			_, ok := sample(reg, "ecc_rankings_rows_ingested_total", nil)
			So(ok, ShouldBeFalse)
			_, ok = sample(reg, "ecc_rankings_pipeline_runs_total", nil)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestGlobalMetrics(t *testing.T) {
	Convey("Given the global manager", t, func() {
		So(Default(), ShouldNotBeNil)
		So(GetRegistry(), ShouldNotBeNil)

		Convey("When recording concurrently", func() {
			done := make(chan bool, 10)
			for i := 0; i < 10; i++ {
				go func() {
					for j := 0; j < 100; j++ {
						Default().RowsIngested("batting", "Vierde_Klasse", 1)
						Default().HTTPRequest("/stats", "GET", 200, float64(j))
					}
					done <- true
				}()
			}
			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then every increment lands on the custom registry", func() {
				v, _ := sample(GetRegistry(), "ecc_rankings_rows_ingested_total", map[string]string{"division": "Vierde_Klasse"})
				So(v, ShouldBeGreaterThanOrEqualTo, 1000)
			})
		})
	})
}
