package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/seojun/eventory/internal/config"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"EVENTORY_CONFIG",
		"EVENTORY_ADDR",
		"EVENTORY_LOG_LEVEL",
		"EVENTORY_STORE_BACKEND",
		"EVENTORY_POSTGRES_DSN",
		"EVENTORY_REFRESH_SPEC",
		"EVENTORY_SHORT_WINDOW_MINUTES",
		"EVENTORY_LONG_WINDOW_MINUTES",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.StoreBackend, convey.ShouldEqual, "memory")
				convey.So(cfg.RefreshSpec, convey.ShouldEqual, "@every 1m")
				convey.So(cfg.ShortWindowMinutes, convey.ShouldEqual, 30)
				convey.So(cfg.LongWindowMinutes, convey.ShouldEqual, 60)
				convey.So(cfg.StaleAnchorDays, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			_ = os.Setenv("EVENTORY_ADDR", ":8080")
			_ = os.Setenv("EVENTORY_REFRESH_SPEC", "@every 30s")
			_ = os.Setenv("EVENTORY_SHORT_WINDOW_MINUTES", "45")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env values should override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RefreshSpec, convey.ShouldEqual, "@every 30s")
				convey.So(cfg.ShortWindowMinutes, convey.ShouldEqual, 45)
				convey.So(cfg.LongWindowMinutes, convey.ShouldEqual, 60)
			})
		})

		convey.Convey("When the postgres backend lacks a DSN", func() {
			clearConfigEnvVars()
			_ = os.Setenv("EVENTORY_STORE_BACKEND", "postgres")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the store backend is unknown", func() {
			clearConfigEnvVars()
			_ = os.Setenv("EVENTORY_STORE_BACKEND", "cassandra")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
