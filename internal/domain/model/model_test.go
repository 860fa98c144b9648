package model_test

import (
	"errors"
	"testing"

	model "github.com/aocbot/aocbot/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParseDivision(t *testing.T) {
	convey.Convey("Given division strings", t, func() {
		convey.Convey("When they are known values", func() {
			fun, errFun := model.ParseDivision("fun")
			comp, errComp := model.ParseDivision(" Competitive ")

			convey.Convey("Then they should parse", func() {
				convey.So(errFun, convey.ShouldBeNil)
				convey.So(errComp, convey.ShouldBeNil)
				convey.So(fun, convey.ShouldEqual, model.DivisionFun)
				convey.So(comp, convey.ShouldEqual, model.DivisionCompetitive)
			})
		})

		convey.Convey("When the value is unknown", func() {
			_, err := model.ParseDivision("casual")

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, model.ErrInvalidDivision), convey.ShouldBeTrue)
			})
		})
	})
}

func TestParseAIUsage(t *testing.T) {
	convey.Convey("Given ai usage strings", t, func() {
		convey.Convey("When the value is empty", func() {
			u, err := model.ParseAIUsage("")

			convey.Convey("Then it should default to none", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(u, convey.ShouldEqual, model.AIUsageNone)
			})
		})

		convey.Convey("When the value is automation", func() {
			u, err := model.ParseAIUsage("automation")

			convey.Convey("Then it should parse", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(u, convey.ShouldEqual, model.AIUsageAutomation)
			})
		})

		convey.Convey("When the value is unknown", func() {
			_, err := model.ParseAIUsage("copilot")

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, model.ErrInvalidAIUsage), convey.ShouldBeTrue)
			})
		})
	})
}

func TestParticipant(t *testing.T) {
	convey.Convey("Given a participant", t, func() {
		p := model.Participant{SlackID: "U123", AocID: "1234567", Division: model.DivisionCompetitive, AIUsage: model.AIUsageNone}

		convey.Convey("When it is complete", func() {
			convey.Convey("Then it should validate and mention the slack user", func() {
				convey.So(p.Validate(), convey.ShouldBeNil)
				convey.So(p.Mention(), convey.ShouldEqual, "<@U123>")
				convey.So(p.IsCompetitive(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the aoc id is not numeric", func() {
			p.AocID = "ownerproof-1234567"

			convey.Convey("Then validation should fail", func() {
				convey.So(errors.Is(p.Validate(), model.ErrInvalidParticipant), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the slack id is missing", func() {
			p.SlackID = ""

			convey.Convey("Then validation should fail", func() {
				convey.So(errors.Is(p.Validate(), model.ErrInvalidParticipant), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the division is unknown", func() {
			p.Division = "casual"

			convey.Convey("Then validation should fail", func() {
				convey.So(errors.Is(p.Validate(), model.ErrInvalidDivision), convey.ShouldBeTrue)
			})
		})
	})
}

func TestDayCompletion(t *testing.T) {
	convey.Convey("Given day completions", t, func() {
		convey.Convey("Then star counts should follow present parts", func() {
			convey.So(model.DayCompletion{}.StarCount(), convey.ShouldEqual, 0)
			convey.So(model.DayCompletion{Part1: &model.Star{TS: 1}}.StarCount(), convey.ShouldEqual, 1)
			convey.So(model.DayCompletion{Part1: &model.Star{TS: 1}, Part2: &model.Star{TS: 2}}.StarCount(), convey.ShouldEqual, 2)
		})

		convey.Convey("Then anonymous members should get a stable name", func() {
			convey.So(model.AnonymousName("42"), convey.ShouldEqual, "(anonymous user #42)")
		})
	})
}
