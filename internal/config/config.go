package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/constellation/internal/field"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds constellation configuration.
type Config struct {
	Field    FieldConfig    `toml:"field"`
	Render   RenderConfig   `toml:"render"`
	Window   WindowConfig   `toml:"window"`
	Terminal TerminalConfig `toml:"terminal"`
	Serve    ServeConfig    `toml:"serve"`
	Log      LogConfig      `toml:"log"`
}

// FieldConfig tunes the simulation.
type FieldConfig struct {
	Seed           int64   `toml:"seed"` // 0 picks a time-based seed
	Density        float64 `toml:"density"`
	MaxSpeed       float64 `toml:"max_speed"`
	MinRadius      float64 `toml:"min_radius"`
	MaxRadius      float64 `toml:"max_radius"`
	LinkDivisor    float64 `toml:"link_divisor"`
	LinkFalloff    float64 `toml:"link_falloff"`
	PointerRadius  float64 `toml:"pointer_radius"`
	PointerDivisor float64 `toml:"pointer_divisor"`
}

// RenderConfig controls colours and pacing.
type RenderConfig struct {
	Background    string  `toml:"background"`
	ParticleColor string  `toml:"particle_color"`
	ParticleAlpha float64 `toml:"particle_alpha"`
	LinkColor     string  `toml:"link_color"`
	LinkWidth     float64 `toml:"link_width"`
	FPS           int     `toml:"fps"` // terminal and timer-driven hosts
}

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Fullscreen bool   `toml:"fullscreen"`
	Title      string `toml:"title"`
}

// TerminalConfig controls the terminal host.
type TerminalConfig struct {
	Scale float64 `toml:"scale"` // surface pixels per half cell
}

// ServeConfig controls the snapshot server.
type ServeConfig struct {
	Addr      string `toml:"addr"`
	MaxWidth  int    `toml:"max_width"`
	MaxHeight int    `toml:"max_height"`
	MaxFrames int    `toml:"max_frames"`

	MaxConcurrent int `toml:"max_concurrent"` // renders in flight
	RenderTimeout int `toml:"render_timeout"` // seconds, 0 disables
}

// LogConfig controls the debug log.
type LogConfig struct {
	Debug bool   `toml:"debug"`
	File  string `toml:"file"` // defaults to StateDir()/constellation.log
}

// Default returns the default configuration.
func Default() *Config {
	p := field.DefaultParams()
	return &Config{
		Field: FieldConfig{
			Density:        p.Density,
			MaxSpeed:       p.MaxSpeed,
			MinRadius:      p.MinRadius,
			MaxRadius:      p.MaxRadius,
			LinkDivisor:    p.LinkDivisor,
			LinkFalloff:    p.LinkFalloff,
			PointerRadius:  p.PointerRadius,
			PointerDivisor: p.PointerDivisor,
		},
		Render: RenderConfig{
			Background:    "#0a192f",
			ParticleColor: "#add8e6",
			ParticleAlpha: 0.5,
			LinkColor:     "#add8e6",
			LinkWidth:     1,
			FPS:           60,
		},
		Window:   WindowConfig{Width: 1280, Height: 800, Title: "constellation"},
		Terminal: TerminalConfig{Scale: 8},
		Serve:    ServeConfig{
			Addr:          ":8080",
			MaxWidth:      3840,
			MaxHeight:     2160,
			MaxFrames:     600,
			MaxConcurrent: 2,
			RenderTimeout: 10,
		},
	}
}

// ConfigDir returns the constellation config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "constellation")
}

// StateDir returns the directory for logs.
func StateDir() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "constellation")
}

// Path returns the config file in use: CONSTELLATION_CONFIG if set, else
// config.toml in ConfigDir.
func Path() string {
	if p := os.Getenv("CONSTELLATION_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config at Path. A missing file yields defaults.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config at path over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to Path.
func Save(cfg *Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes the config to path.
func SaveFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() (created bool, err error) {
	path := Path()
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	return true, Save(Default())
}

// Validate reports the first unusable value.
func (c *Config) Validate() error {
	f := c.Field
	switch {
	case f.Density <= 0:
		return fmt.Errorf("%w: field.density must be positive", ErrInvalid)
	case f.MaxSpeed < 0:
		return fmt.Errorf("%w: field.max_speed must not be negative", ErrInvalid)
	case f.MinRadius <= 0 || f.MaxRadius < f.MinRadius:
		return fmt.Errorf("%w: field radius range [%v, %v)", ErrInvalid, f.MinRadius, f.MaxRadius)
	case f.LinkDivisor <= 0 || f.LinkFalloff <= 0 || f.PointerDivisor <= 0:
		return fmt.Errorf("%w: field divisors must be positive", ErrInvalid)
	case c.Render.FPS <= 0:
		return fmt.Errorf("%w: render.fps must be positive", ErrInvalid)
	case c.Render.LinkWidth <= 0:
		return fmt.Errorf("%w: render.link_width must be positive", ErrInvalid)
	case c.Render.ParticleAlpha < 0 || c.Render.ParticleAlpha > 1:
		return fmt.Errorf("%w: render.particle_alpha must be in [0, 1]", ErrInvalid)
	case c.Terminal.Scale <= 0:
		return fmt.Errorf("%w: terminal.scale must be positive", ErrInvalid)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d must be positive", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Serve.MaxWidth < 0 || c.Serve.MaxHeight < 0 || c.Serve.MaxFrames < 0:
		return fmt.Errorf("%w: serve maxima must not be negative", ErrInvalid)
	case c.Serve.MaxConcurrent <= 0:
		return fmt.Errorf("%w: serve.max_concurrent must be positive", ErrInvalid)
	case c.Serve.RenderTimeout < 0:
		return fmt.Errorf("%w: serve.render_timeout must not be negative", ErrInvalid)
	}
	for name, hex := range map[string]string{
		"render.background":     c.Render.Background,
		"render.particle_color": c.Render.ParticleColor,
		"render.link_color":     c.Render.LinkColor,
	} {
		if _, err := ParseColor(hex, 1); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
		}
	}
	return nil
}

// Params converts the field section.
func (c *Config) Params() field.Params {
	f := c.Field
	return field.Params{
		Density:        f.Density,
		MaxSpeed:       f.MaxSpeed,
		MinRadius:      f.MinRadius,
		MaxRadius:      f.MaxRadius,
		LinkDivisor:    f.LinkDivisor,
		LinkFalloff:    f.LinkFalloff,
		PointerRadius:  f.PointerRadius,
		PointerDivisor: f.PointerDivisor,
	}
}

// Style converts the render section. Colours are assumed valid.
func (c *Config) Style() field.Style {
	particle, _ := ParseColor(c.Render.ParticleColor, c.Render.ParticleAlpha)
	link, _ := ParseColor(c.Render.LinkColor, 1)
	return field.Style{Particle: particle, Link: link, LinkWidth: c.Render.LinkWidth}
}

// Background returns the opaque background colour.
func (c *Config) Background() color.NRGBA {
	bg, _ := ParseColor(c.Render.Background, 1)
	return bg
}

// ParseColor parses a #rrggbb colour with the given alpha.
func ParseColor(hex string, alpha float64) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: field.Alpha(alpha)}, nil
}
