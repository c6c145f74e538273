// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) for layering.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreBackend selects the schedule store: memory or postgres.
	StoreBackend string `koanf:"store_backend"`

	// PostgresDSN is the connection string used when StoreBackend is postgres.
	PostgresDSN string `koanf:"postgres_dsn"`

	// RefreshSpec is the cron spec for the periodic evaluation tick.
	RefreshSpec string `koanf:"refresh_spec"`

	// ShortWindowMinutes and LongWindowMinutes size the post-start active
	// windows for quick and long-battle events.
	ShortWindowMinutes int `koanf:"short_window_minutes"`
	LongWindowMinutes  int `koanf:"long_window_minutes"`

	// ExpiryBufferMinutes is the grace past an occurrence before it expires.
	ExpiryBufferMinutes int `koanf:"expiry_buffer_minutes"`

	// CountdownHours bounds how far ahead remaining time is surfaced.
	CountdownHours int `koanf:"countdown_hours"`

	// SoonMinutes bounds the imminent-start flag.
	SoonMinutes int `koanf:"soon_minutes"`

	// StaleAnchorDays expires anchored schedules whose record has not been
	// touched for this long.
	StaleAnchorDays int `koanf:"stale_anchor_days"`

	// RolloverGraceMinutes extends the rotation day past its last slot.
	RolloverGraceMinutes int `koanf:"rollover_grace_minutes"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		StoreBackend:         "memory",
		RefreshSpec:          "@every 1m",
		ShortWindowMinutes:   30,
		LongWindowMinutes:    60,
		ExpiryBufferMinutes:  60,
		CountdownHours:       24,
		SoonMinutes:          30,
		StaleAnchorDays:      7,
		RolloverGraceMinutes: 30,
	}
}
