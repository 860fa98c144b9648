package format_test

import (
	"testing"

	"github.com/aocbot/aocbot/internal/domain/format"
	"github.com/aocbot/aocbot/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDuration(t *testing.T) {
	Convey("Given durations in seconds", t, func() {
		Convey("Then they should render as zero padded HH:MM:SS", func() {
			So(format.Duration(3661), ShouldEqual, "01:01:01")
			So(format.Duration(0), ShouldEqual, "00:00:00")
			So(format.Duration(59), ShouldEqual, "00:00:59")
			So(format.Duration(-5), ShouldEqual, "00:00:00")
		})

		Convey("Then hours should not wrap at a day", func() {
			So(format.Duration(100*3600+5), ShouldEqual, "100:00:05")
		})
	})
}

func TestStarAndPlaceholder(t *testing.T) {
	Convey("Given daily star counts", t, func() {
		Convey("Then only two stars should render as a full star", func() {
			So(format.Star(2), ShouldEqual, ":star:")
			So(format.Star(1), ShouldEqual, ":star-empty:")
			So(format.Star(0), ShouldEqual, ":star-empty:")
		})
	})

	Convey("Given empty lists", t, func() {
		Convey("Then every renderer should return the placeholder", func() {
			So(format.JoinOrPlaceholder(nil, ", "), ShouldEqual, "-")
			So(format.FunList(nil), ShouldEqual, "-")
			So(format.CompetitiveList(nil, true), ShouldEqual, "-")
			So(format.OverallList(nil), ShouldEqual, "-")
		})
	})
}

func TestLists(t *testing.T) {
	Convey("Given ranked entries", t, func() {
		alice := types.Entry{Name: "<@UA>", Stars: 6, DailyStars: 2, Part1Seconds: 500, Part2Seconds: 200, TotalSeconds: 700, Competitive: true}
		bob := types.Entry{Name: "Bob", Stars: 5, DailyStars: 1, Part1Seconds: 50, TotalSeconds: 50}

		Convey("When rendering the fun list", func() {
			Convey("Then names and stars should be comma joined", func() {
				So(format.FunList([]types.Entry{alice, bob}), ShouldEqual, "<@UA> (6), Bob (5)")
			})
		})

		Convey("When rendering the competitive list", func() {
			Convey("Then it should be numbered with star and time", func() {
				So(format.CompetitiveList([]types.Entry{alice, bob}, false), ShouldEqual,
					"1. <@UA> (:star:, 00:11:40)\n\n2. Bob (:star-empty:, 00:00:50)")
			})

			Convey("And with splits it should show part times", func() {
				So(format.CompetitiveList([]types.Entry{alice, bob}, true), ShouldEqual,
					"1. <@UA> (:star:, P1: 00:08:20, P2: 00:03:20, Total: 00:11:40)\n\n2. Bob (:star-empty:, P1: 00:00:50)")
			})
		})

		Convey("When rendering the overall list", func() {
			groups := []types.Group{
				{Rank: 1, Stars: 7, Members: []types.Entry{alice}},
				{Rank: 2, Stars: 5, Members: []types.Entry{bob, {Name: "Carl"}}},
			}

			Convey("Then tied members should share a line and competitors be flagged", func() {
				So(format.OverallList(groups), ShouldEqual, "1. <@UA>\u00ad*\u00ad (7)\n\n2. Bob, Carl (5)")
			})

			Convey("And computed overall times should follow the flag", func() {
				groups[0].Members[0].OverallSeconds = 3661
				groups[0].Members[0].OverallDuration = true
				So(format.OverallList(groups), ShouldStartWith, "1. <@UA>\u00ad*\u00ad [01:01:01] (7)")
			})
		})
	})
}
