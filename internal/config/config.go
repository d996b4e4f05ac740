package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rdsim/internal/dynamo"
	"github.com/san-kum/rdsim/internal/render"
)

const (
	DefaultWidth      = 800
	DefaultHeight     = 800
	DefaultFPS        = 60
	DefaultIntervalMs = 1000
	MinIntervalMs     = 100
	MaxIntervalMs     = 5000
	DefaultDataDir    = "data"
)

type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Display    DisplayConfig    `yaml:"display"`
	Visual     VisualConfig     `yaml:"visual"`
	Drops      DropsConfig      `yaml:"drops"`
	Output     OutputConfig     `yaml:"output"`
}

type SimulationConfig struct {
	DiffusionA float64 `yaml:"diffusion_a"`
	DiffusionB float64 `yaml:"diffusion_b"`
	Feed       float64 `yaml:"feed"`
	Kill       float64 `yaml:"kill"`
	TimeStep   float64 `yaml:"time_step"`
	Resolution int     `yaml:"resolution"`
	// Preset, when set, overrides the four rates above.
	Preset  string `yaml:"preset,omitempty"`
	Backend string `yaml:"backend,omitempty"`
}

type DisplayConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Theme  string `yaml:"theme,omitempty"`
}

type VisualConfig struct {
	Mode           string  `yaml:"mode"`
	ColorA         string  `yaml:"color_a"`
	ColorB         string  `yaml:"color_b"`
	ColorThreshold float64 `yaml:"color_threshold"`
	Smoothing      float64 `yaml:"smoothing"`
}

type DropsConfig struct {
	Radius     float64 `yaml:"radius"`
	Random     bool    `yaml:"random"`
	IntervalMs int     `yaml:"interval_ms"`
	Seed       uint64  `yaml:"seed"`
}

type OutputConfig struct {
	DataDir     string `yaml:"data_dir"`
	SampleEvery int    `yaml:"sample_every"`
}

func DefaultConfig() *Config {
	return FromParams(dynamo.DefaultParams())
}

// FromParams builds a config whose Params() round-trips to p.
func FromParams(p dynamo.Params) *Config {
	return &Config{
		Simulation: SimulationConfig{
			DiffusionA: p.DiffusionA,
			DiffusionB: p.DiffusionB,
			Feed:       p.Feed,
			Kill:       p.Kill,
			TimeStep:   p.TimeStep,
			Resolution: p.Resolution,
			Backend:    "auto",
		},
		Display: DisplayConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			FPS:    DefaultFPS,
			Theme:  "default",
		},
		Visual: VisualConfig{
			Mode:           p.Mode.String(),
			ColorA:         render.FormatHex(p.ColorA),
			ColorB:         render.FormatHex(p.ColorB),
			ColorThreshold: p.ColorThreshold,
			Smoothing:      p.Smoothing,
		},
		Drops: DropsConfig{
			Radius:     p.DropRadius,
			IntervalMs: DefaultIntervalMs,
		},
		Output: OutputConfig{
			DataDir:     DefaultDataDir,
			SampleEvery: 10,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
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

// Params converts the file representation into validated simulation parameters.
func (c *Config) Params() (dynamo.Params, error) {
	p := dynamo.Params{
		DiffusionA:     c.Simulation.DiffusionA,
		DiffusionB:     c.Simulation.DiffusionB,
		Feed:           c.Simulation.Feed,
		Kill:           c.Simulation.Kill,
		TimeStep:       c.Simulation.TimeStep,
		Resolution:     c.Simulation.Resolution,
		DropRadius:     c.Drops.Radius,
		ColorThreshold: c.Visual.ColorThreshold,
		Smoothing:      c.Visual.Smoothing,
	}

	if c.Simulation.Preset != "" {
		preset, err := Lookup(c.Simulation.Preset)
		if err != nil {
			return p, err
		}
		preset.Apply(&p)
	}

	mode, err := dynamo.ParseMode(c.Visual.Mode)
	if err != nil {
		return p, err
	}
	p.Mode = mode

	if p.ColorA, err = render.ParseHex(c.Visual.ColorA); err != nil {
		return p, fmt.Errorf("color_a: %w", err)
	}
	if p.ColorB, err = render.ParseHex(c.Visual.ColorB); err != nil {
		return p, fmt.Errorf("color_b: %w", err)
	}

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Validate checks the parts of the config that Params does not cover.
func (c *Config) Validate() error {
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display size must be positive, got %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Display.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Display.FPS)
	}
	if c.Simulation.Resolution > c.Display.Width || c.Simulation.Resolution > c.Display.Height {
		return fmt.Errorf("resolution %d exceeds display %dx%d", c.Simulation.Resolution, c.Display.Width, c.Display.Height)
	}
	if c.Drops.IntervalMs < MinIntervalMs || c.Drops.IntervalMs > MaxIntervalMs {
		return fmt.Errorf("drop interval must be in [%d, %d] ms, got %d", MinIntervalMs, MaxIntervalMs, c.Drops.IntervalMs)
	}
	_, err := c.Params()
	return err
}

func (c *Config) DropInterval() time.Duration {
	return time.Duration(c.Drops.IntervalMs) * time.Millisecond
}

func (c *Config) FrameInterval() time.Duration {
	if c.Display.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(c.Display.FPS)
}
