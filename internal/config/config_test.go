package config_test

import (
	"errors"
	"testing"

	"github.com/okian/chargegauge/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Job, convey.ShouldBeEmpty)
			convey.So(cfg.PrefsDB, convey.ShouldBeEmpty)
			convey.So(cfg.FrameQueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 4096)
			convey.So(cfg.BoardWidth, convey.ShouldEqual, 20)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with bad values", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"blank addr", func(c *config.Config) { c.Addr = "  " }},
			{"zero queue", func(c *config.Config) { c.FrameQueueSize = 0 }},
			{"negative dedupe", func(c *config.Config) { c.DedupeSize = -1 }},
			{"negative width", func(c *config.Config) { c.BoardWidth = -5 }},
		}
		for _, tc := range cases {
			convey.Convey("When the config has a "+tc.name, func() {
				cfg := config.New()
				tc.mutate(cfg)

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}
