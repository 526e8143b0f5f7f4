package normalize_test

import (
	"testing"

	"github.com/eccstats/ecc-rankings/internal/domain/model"
	"github.com/eccstats/ecc-rankings/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFloat(t *testing.T) {
	Convey("Given lenient numeric text", t, func() {
		cases := []struct {
			in   model.RawValue
			want float64
			ok   bool
		}{
			{"40.5", 40.5, true},
			{" 12 ", 12, true},
			{"1e2", 100, true},
			{"avg 23.75 (est)", 23.75, true},
			{"7*", 7, true},
			{"-", 0, false},
			{"", 0, false},
			{"n/a", 0, false},
			{"-3.5", 0, false},
			{"NaN", 0, false},
			{"Inf", 0, false},
		}

		for _, c := range cases {
			got, ok := normalize.Float(c.in)
			So(ok, ShouldEqual, c.ok)
			So(got, ShouldEqual, c.want)
		}
	})
}

func TestCountAndFigures(t *testing.T) {
	Convey("Given counting fields", t, func() {
		Convey("Then fractions are truncated", func() {
			n, ok := normalize.Count("5.9")
			So(ok, ShouldBeTrue)
			So(n, ShouldEqual, 5)
		})

		Convey("Then text without digits fails", func() {
			_, ok := normalize.Count("DNB")
			So(ok, ShouldBeFalse)
		})

		Convey("Then a thousands separator ends the first number", func() {
			n, ok := normalize.Count("1,234")
			So(ok, ShouldBeTrue)
			So(n, ShouldEqual, 1)

			f, ok := normalize.Float("1,234.5")
			So(ok, ShouldBeTrue)
			So(f, ShouldEqual, 1)
		})
	})

	Convey("Given highest-score figures", t, func() {
		n, ok := normalize.Highest("112*")
		So(ok, ShouldBeTrue)
		So(n, ShouldEqual, 112)

		n, ok = normalize.Highest("  48 ")
		So(ok, ShouldBeTrue)
		So(n, ShouldEqual, 48)

		_, ok = normalize.Highest("-")
		So(ok, ShouldBeFalse)
	})

	Convey("Given best-bowling figures", t, func() {
		n, ok := normalize.BestWickets("5/20")
		So(ok, ShouldBeTrue)
		So(n, ShouldEqual, 5)

		n, ok = normalize.BestWickets(" 3 / 41")
		So(ok, ShouldBeTrue)
		So(n, ShouldEqual, 3)

		Convey("Then a figure without a slash yields no wickets", func() {
			n, ok := normalize.BestWickets("5")
			So(ok, ShouldBeFalse)
			So(n, ShouldEqual, 0)
		})
	})
}

func TestBatting(t *testing.T) {
	Convey("Given a batting row as scraped", t, func() {
		raw := model.BattingRaw{
			Player:     " Test Player ",
			Division:   "Eerste_Klasse",
			Matches:    "5",
			Innings:    "5",
			NotOuts:    "1",
			Runs:       "200",
			Highest:    "100*",
			Average:    "50.0",
			StrikeRate: "120.0",
		}

		Convey("When normalizing it", func() {
			row, missed := normalize.Batting(raw)

			Convey("Then all fields are typed and nothing defaulted", func() {
				So(missed, ShouldBeEmpty)
				So(row.Player, ShouldEqual, "Test Player")
				So(row.Matches, ShouldEqual, 5)
				So(row.Innings, ShouldEqual, 5)
				So(row.NotOuts, ShouldEqual, 1)
				So(row.Runs, ShouldEqual, 200)
				So(row.Highest, ShouldEqual, 100)
				So(row.Average, ShouldEqual, 50.0)
				So(row.StrikeRate, ShouldEqual, 120.0)
			})
		})
	})

	Convey("Given a batting row with junk", t, func() {
		raw := model.BattingRaw{Player: "X", Runs: "-", Average: "", StrikeRate: "abc", Highest: "DNB"}

		Convey("When normalizing it", func() {
			row, missed := normalize.Batting(raw)

			Convey("Then every field defaults to zero and is reported", func() {
				So(row.Runs, ShouldEqual, 0)
				So(row.Average, ShouldEqual, 0.0)
				So(row.StrikeRate, ShouldEqual, 0.0)
				So(row.Highest, ShouldEqual, 0)
				So(missed, ShouldContain, normalize.FieldRuns)
				So(missed, ShouldContain, normalize.FieldAverage)
				So(missed, ShouldContain, normalize.FieldStrikeRate)
				So(missed, ShouldContain, normalize.FieldHighest)
				So(missed, ShouldContain, normalize.FieldMatches)
				So(len(missed), ShouldEqual, 7)
			})
		})
	})
}

func TestBowling(t *testing.T) {
	Convey("Given a bowling row as scraped", t, func() {
		raw := model.BowlingRaw{
			Player:     "Test Player",
			Division:   "Eerste_Klasse",
			Matches:    "5",
			Wickets:    "10",
			Best:       "5/20",
			Average:    "15.0",
			Economy:    "4.5",
			StrikeRate: "25.0",
		}

		row, missed := normalize.Bowling(raw)
		So(missed, ShouldBeEmpty)
		So(row.Matches, ShouldEqual, 5)
		So(row.Wickets, ShouldEqual, 10)
		So(row.BestWickets, ShouldEqual, 5)
		So(row.Average, ShouldEqual, 15.0)
		So(row.Economy, ShouldEqual, 4.5)
		So(row.StrikeRate, ShouldEqual, 25.0)
	})

	Convey("Given a bowling row with no usable rates", t, func() {
		raw := model.BowlingRaw{Player: "Y", Matches: "3", Wickets: "0", Best: "-", Average: "-", Economy: "", StrikeRate: "--"}

		row, missed := normalize.Bowling(raw)

		Convey("Then rates fall back to their reference defaults", func() {
			So(row.Average, ShouldEqual, normalize.DefaultBowlingAverage)
			So(row.Economy, ShouldEqual, normalize.DefaultBowlingEconomy)
			So(row.StrikeRate, ShouldEqual, normalize.DefaultBowlingStrikeRate)
			So(row.BestWickets, ShouldEqual, 0)
			So(missed, ShouldResemble, normalize.Fallbacks{
				normalize.FieldBest, normalize.FieldAverage, normalize.FieldEconomy, normalize.FieldStrikeRate,
			})
		})
	})
}
