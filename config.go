package sharc

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// Config holds stage settings. It decodes from TOML:
//
//	width = 800
//	height = 600
//	frame_rate = 60
//	background = "#202020"
//	center_root = true
type Config struct {
	Width         int     `toml:"width"`
	Height        int     `toml:"height"`
	FrameRate     float64 `toml:"frame_rate"`
	RefreshRate   float64 `toml:"refresh_rate"`
	Background    string  `toml:"background"`
	CenterRoot    bool    `toml:"center_root"`
	Debug         bool    `toml:"debug"`
	ScreenshotDir string  `toml:"screenshot_dir"`
	LogLevel      string  `toml:"log_level"`
}

// DefaultConfig returns the settings used for anything left unset.
func DefaultConfig() Config {
	return Config{
		Width:         800,
		Height:        600,
		FrameRate:     60,
		RefreshRate:   60,
		Background:    "#ffffff",
		ScreenshotDir: "screenshots",
		LogLevel:      "info",
	}
}

// LoadConfig decodes TOML from r on top of DefaultConfig.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("decode config: unknown key %q", undec[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile decodes the TOML file at path on top of DefaultConfig.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("decode config %s: unknown key %q", path, undec[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	case c.FrameRate < 0:
		return fmt.Errorf("invalid frame_rate %v", c.FrameRate)
	case c.RefreshRate < 0:
		return fmt.Errorf("invalid refresh_rate %v", c.RefreshRate)
	}
	if c.Background != "" {
		if _, err := ParseHexColor(c.Background); err != nil {
			return fmt.Errorf("invalid background: %w", err)
		}
	}
	return nil
}

// withDefaults fills zero and out-of-range fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.FrameRate <= 0 {
		c.FrameRate = d.FrameRate
	}
	if c.RefreshRate <= 0 {
		c.RefreshRate = d.RefreshRate
	}
	if c.Background == "" {
		c.Background = d.Background
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = d.ScreenshotDir
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	return c
}
