package calendar_test

import (
	"testing"
	"time"

	"github.com/aocbot/aocbot/internal/domain/calendar"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCalendar(t *testing.T) {
	Convey("Given the 2024 event calendar", t, func() {
		cal := calendar.New(2024)

		Convey("When asking for the event start", func() {
			start := cal.Start()

			Convey("Then it should be December 1st at 05:00 UTC", func() {
				So(start, ShouldEqual, time.Date(2024, time.December, 1, 5, 0, 0, 0, time.UTC))
			})
		})

		Convey("When asking for day starts", func() {
			Convey("Then each day should be 86400 seconds apart", func() {
				So(cal.DayStart(1), ShouldEqual, cal.Start().Unix())
				So(cal.DayStart(3), ShouldEqual, cal.Start().Unix()+2*86400)
				So(cal.DayStart(25)-cal.DayStart(24), ShouldEqual, calendar.DaySeconds)
			})
		})

		Convey("When asking for the current day", func() {
			Convey("Then it should be clamped to the event", func() {
				So(cal.CurrentDay(cal.Start().Add(-time.Hour)), ShouldEqual, 1)
				So(cal.CurrentDay(cal.Start()), ShouldEqual, 1)
				So(cal.CurrentDay(cal.Start().Add(49*time.Hour)), ShouldEqual, 3)
				So(cal.CurrentDay(cal.Start().AddDate(0, 1, 0)), ShouldEqual, 25)
			})
		})
	})
}

func TestParseDay(t *testing.T) {
	Convey("Given day arguments", t, func() {
		Convey("When they are integers within bounds", func() {
			Convey("Then they should parse", func() {
				for text, want := range map[string]int{"1": 1, " 12 ": 12, "25": 25} {
					day, err := calendar.ParseDay(text)
					So(err, ShouldBeNil)
					So(day, ShouldEqual, want)
				}
			})
		})

		Convey("When they are out of bounds or malformed", func() {
			Convey("Then they should be rejected", func() {
				for _, text := range []string{"", "0", "26", "-1", "abc", "2.5"} {
					_, err := calendar.ParseDay(text)
					So(err, ShouldEqual, calendar.ErrInvalidDay)
				}
			})
		})
	})
}
