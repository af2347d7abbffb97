package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/chaoseq/internal/trail"
)

const (
	DefaultWidth  = 1800
	DefaultHeight = 1200
	DefaultSpeed  = 3.0
	DefaultTrail  = "long"
	DefaultTUIW   = 100
	DefaultTUIH   = 36
)

// Restart policies applied when t runs past the end of its range.
const (
	RestartRewind   = "rewind"
	RestartContinue = "continue"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// FadeLevels maps trail names to the grey level subtracted every frame.
// "persistent" never fades; "none" clears the whole frame.
var FadeLevels = map[string]uint8{
	"short":      10,
	"long":       2,
	"persistent": 0,
	"none":       255,
}

type Config struct {
	Window     WindowConfig `yaml:"window"`
	Terminal   WindowConfig `yaml:"terminal"`
	Speed      float64      `yaml:"speed"`
	Trail      string       `yaml:"trail"`
	Palette    string       `yaml:"palette"`
	Shuffle    bool         `yaml:"shuffle"`
	Restart    string       `yaml:"restart"`
	SkipWarmup bool         `yaml:"skip_warmup"`
	Seed       int64        `yaml:"seed"`
	Log        LogConfig    `yaml:"log"`
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Window:   WindowConfig{Width: DefaultWidth, Height: DefaultHeight},
		Terminal: WindowConfig{Width: DefaultTUIW, Height: DefaultTUIH},
		Speed:    DefaultSpeed,
		Trail:    DefaultTrail,
		Palette:  trail.PaletteRandom,
		Shuffle:  true,
		Restart:  RestartRewind,
		Log:      LogConfig{Level: "info"},
	}
}

func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto reads path over base, so keys missing from the file keep base's
// values. base is modified and returned.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks option ranges and names.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Terminal.Width <= 0 || c.Terminal.Height <= 0 {
		return fmt.Errorf("%w: terminal size %dx%d", ErrInvalid, c.Terminal.Width, c.Terminal.Height)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("%w: speed must be positive, got %f", ErrInvalid, c.Speed)
	}
	if _, ok := FadeLevels[c.Trail]; !ok {
		return fmt.Errorf("%w: unknown trail %q", ErrInvalid, c.Trail)
	}
	if !slices.Contains(trail.PaletteNames(), c.Palette) {
		return fmt.Errorf("%w: unknown palette %q", ErrInvalid, c.Palette)
	}
	switch c.Restart {
	case RestartRewind, RestartContinue:
	default:
		return fmt.Errorf("%w: unknown restart policy %q", ErrInvalid, c.Restart)
	}
	return nil
}

// Fade returns the per-frame fade level for the configured trail.
func (c *Config) Fade() uint8 {
	return FadeLevels[c.Trail]
}
