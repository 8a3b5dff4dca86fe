package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Panel describes one physical output channel.
type Panel struct {
	Name    string `mapstructure:"name"` // header label, e.g. "T0"
	Tool    string `mapstructure:"tool"` // device object to poll, e.g. "extruder"
	Flip180 bool   `mapstructure:"flip_180"`
	SPIPort string `mapstructure:"spi_port"` // e.g. "SPI0.0"
	DCPin   string `mapstructure:"dc_pin"`   // e.g. "GPIO25"
	RSTPin  string `mapstructure:"rst_pin"`  // e.g. "GPIO23"
	OffsetX int    `mapstructure:"offset_x"`
	OffsetY int    `mapstructure:"offset_y"`
}

// Moonraker holds status-source connection settings.
type Moonraker struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Fan tunes the discrete-rate spinner for the cooling-fan indicator.
type Fan struct {
	Threshold float64 `mapstructure:"threshold"` // duty below this reads as stopped
	MinRate   float64 `mapstructure:"min_rate"`  // rev/s at the threshold
	MaxRate   float64 `mapstructure:"max_rate"`  // rev/s at full duty
}

// Flow tunes the velocity-integrated spinner for the feed indicator.
type Flow struct {
	Alpha       float64       `mapstructure:"alpha"`         // EMA smoothing factor, (0,1]
	UnitsPerRev float64       `mapstructure:"units_per_rev"` // hardware constant, mm per revolution
	MaxDt       time.Duration `mapstructure:"max_dt"`        // dt clamp for stalled loops
	Direction   int           `mapstructure:"direction"`     // +1 or -1
}

// Blink tunes the screensaver blink cycle.
type Blink struct {
	MinInterval time.Duration `mapstructure:"min_interval"`
	MaxInterval time.Duration `mapstructure:"max_interval"`
	Close       time.Duration `mapstructure:"close"`
	Hold        time.Duration `mapstructure:"hold"`
}

// API configures the read-only introspection endpoint.
type API struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    string `mapstructure:"port"`
}

// Config is the full runtime configuration for both binaries.
type Config struct {
	LogLevel       string        `mapstructure:"log_level"`
	Moonraker      Moonraker     `mapstructure:"moonraker"`
	PollHz         float64       `mapstructure:"poll_hz"`
	EventPollEvery int           `mapstructure:"event_poll_every"` // poll message feed every N ticks
	EventCount     int           `mapstructure:"event_count"`      // feed entries requested per poll
	FlashPeriod    time.Duration `mapstructure:"flash_period"`     // fault flash half-cycle
	MessageTimeout time.Duration `mapstructure:"message_timeout"`
	Fan            Fan           `mapstructure:"fan"`
	Flow           Flow          `mapstructure:"flow"`
	Blink          Blink         `mapstructure:"blink"`
	API            API           `mapstructure:"api"`
	Panels         []Panel       `mapstructure:"panels"`
}

// PollPeriod returns the tick period derived from the poll rate.
func (c *Config) PollPeriod() time.Duration {
	return time.Duration(float64(time.Second) / c.PollHz)
}

// setDefaults registers a default for every recognized option, so a
// minimal config file only needs panel pinouts.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("moonraker.url", "http://127.0.0.1:7125")
	v.SetDefault("moonraker.timeout", "1200ms")
	v.SetDefault("poll_hz", 5.0)
	v.SetDefault("event_poll_every", 5)
	v.SetDefault("event_count", 10)
	v.SetDefault("flash_period", "800ms")
	v.SetDefault("message_timeout", "10s")
	v.SetDefault("fan.threshold", 0.05)
	v.SetDefault("fan.min_rate", 0.3)
	v.SetDefault("fan.max_rate", 2.5)
	v.SetDefault("flow.alpha", 0.3)
	v.SetDefault("flow.units_per_rev", 6.743)
	v.SetDefault("flow.max_dt", "250ms")
	v.SetDefault("flow.direction", 1)
	v.SetDefault("blink.min_interval", "2s")
	v.SetDefault("blink.max_interval", "6s")
	v.SetDefault("blink.close", "120ms")
	v.SetDefault("blink.hold", "60ms")
	v.SetDefault("api.enabled", true)
	v.SetDefault("api.port", "8080")
}

// Load reads configs/config.yml (or the given explicit path), applies
// defaults and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
		v.SetConfigType("yml")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the loop cannot run with. Zero/negative
// rates and inverted intervals would wedge the timing math, so they fail
// loudly at startup rather than misbehaving at runtime.
func (c *Config) Validate() error {
	if c.PollHz <= 0 {
		return fmt.Errorf("poll_hz must be > 0, got %v", c.PollHz)
	}
	if c.Moonraker.URL == "" {
		return fmt.Errorf("moonraker.url is required")
	}
	if c.Moonraker.Timeout <= 0 {
		return fmt.Errorf("moonraker.timeout must be > 0")
	}
	if c.FlashPeriod <= 0 {
		return fmt.Errorf("flash_period must be > 0")
	}
	if c.MessageTimeout <= 0 {
		return fmt.Errorf("message_timeout must be > 0")
	}
	if c.EventPollEvery < 1 {
		return fmt.Errorf("event_poll_every must be >= 1")
	}
	if c.EventCount < 1 {
		return fmt.Errorf("event_count must be >= 1")
	}
	if c.Fan.Threshold < 0 || c.Fan.Threshold >= 1 {
		return fmt.Errorf("fan.threshold must be in [0,1)")
	}
	if c.Fan.MinRate <= 0 || c.Fan.MaxRate < c.Fan.MinRate {
		return fmt.Errorf("fan rates must satisfy 0 < min_rate <= max_rate")
	}
	if c.Flow.Alpha <= 0 || c.Flow.Alpha > 1 {
		return fmt.Errorf("flow.alpha must be in (0,1]")
	}
	if c.Flow.UnitsPerRev <= 0 {
		return fmt.Errorf("flow.units_per_rev must be > 0")
	}
	if c.Flow.MaxDt <= 0 {
		return fmt.Errorf("flow.max_dt must be > 0")
	}
	if c.Flow.Direction != 1 && c.Flow.Direction != -1 {
		return fmt.Errorf("flow.direction must be 1 or -1")
	}
	if c.Blink.MinInterval <= 0 || c.Blink.MaxInterval < c.Blink.MinInterval {
		return fmt.Errorf("blink intervals must satisfy 0 < min_interval <= max_interval")
	}
	if c.Blink.Close <= 0 || c.Blink.Hold < 0 {
		return fmt.Errorf("blink.close must be > 0 and blink.hold >= 0")
	}
	if len(c.Panels) == 0 {
		return fmt.Errorf("at least one panel is required")
	}
	seen := map[string]bool{}
	for i, p := range c.Panels {
		if p.Name == "" || p.Tool == "" {
			return fmt.Errorf("panel %d: name and tool are required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("panel %d: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
