// Package config loads the TOML application config shared by the viewer and
// the headless runner.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root of the application config file.
type Config struct {
	Logging    LoggingConfig    `toml:"logging"`
	Simulation SimulationConfig `toml:"simulation"`
	Viewer     ViewerConfig     `toml:"viewer"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type SimulationConfig struct {
	EffectFile string        `toml:"effect_file"` // empty uses the embedded demo effects
	Effect     string        `toml:"effect"`      // effect to play at startup
	TickRate   time.Duration `toml:"tick_rate"`
	Frames     int           `toml:"frames"` // headless run length
	Seed       int64         `toml:"seed"`   // 0 seeds from the clock
}

type ViewerConfig struct {
	Title       string  `toml:"title"`
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	ShowTrails  bool    `toml:"show_trails"`
	ShowDebug   bool    `toml:"show_debug"`
	RayRadius   float64 `toml:"ray_radius"`    // click hit radius in world units
	RemoveOnHit bool    `toml:"remove_on_hit"` // clicked particles are retired
}

// Load reads path and layers it over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except an empty path returns the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return defaults(), nil
	}
	return Load(path)
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

func (c *Config) validate() error {
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %s", c.Simulation.TickRate)
	}
	if c.Simulation.Frames < 0 {
		return fmt.Errorf("simulation.frames must not be negative, got %d", c.Simulation.Frames)
	}
	if c.Viewer.Width <= 0 || c.Viewer.Height <= 0 {
		return fmt.Errorf("viewer size must be positive, got %dx%d", c.Viewer.Width, c.Viewer.Height)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Simulation: SimulationConfig{
			Effect:   "Sparks",
			TickRate: time.Second / 60,
			Frames:   600,
		},
		Viewer: ViewerConfig{
			Title:      "VFX Particle Viewer",
			Width:      1280,
			Height:     720,
			ShowTrails: true,
			ShowDebug:  true,
			RayRadius:  6,
		},
	}
}
