package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/aocbot/aocbot/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.AOC.BaseURL, convey.ShouldEqual, "https://adventofcode.com")
			convey.So(cfg.AOC.Event, convey.ShouldBeGreaterThanOrEqualTo, 2015)
			convey.So(cfg.AOC.RefreshInterval, convey.ShouldEqual, 15*time.Minute)
			convey.So(cfg.Storage.Driver, convey.ShouldEqual, config.DriverMemory)
			convey.So(cfg.RedisEnabled(), convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given refresh intervals", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When the interval is below the polling floor", func() {
			cfg.AOC.RefreshInterval = time.Minute

			convey.Convey("Then the effective interval should be raised", func() {
				convey.So(cfg.EffectiveRefreshInterval(), convey.ShouldEqual, config.MinRefreshInterval)
			})
		})

		convey.Convey("When the interval is above the floor", func() {
			cfg.AOC.RefreshInterval = time.Hour

			convey.Convey("Then it should be kept", func() {
				convey.So(cfg.EffectiveRefreshInterval(), convey.ShouldEqual, time.Hour)
			})
		})
	})
}
