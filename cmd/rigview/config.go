package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/rigview"
)

const (
	DefaultWidth    = 1280
	DefaultHeight   = 800
	DefaultAddr     = ":8080"
	DefaultAssets   = "assets"
	DefaultCaptures = "captures"
	DefaultSettings = "rigview-settings.yaml"
)

// Config is the viewer configuration file.
type Config struct {
	// Assets is a directory or an http(s) base URL.
	Assets     string            `yaml:"assets"`
	Settings   string            `yaml:"settings"`
	Captures   string            `yaml:"captures"`
	FFmpeg     string            `yaml:"ffmpeg"`
	Window     WindowConfig      `yaml:"window"`
	Snapshot   SnapshotConfig    `yaml:"snapshot"`
	Serve      ServeConfig       `yaml:"serve"`
	Characters []CharacterConfig `yaml:"characters"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	HUD    bool   `yaml:"hud"`
}

// SnapshotConfig resamples stills when both sides are set.
type SnapshotConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type ServeConfig struct {
	Addr    string   `yaml:"addr"`
	Origins []string `yaml:"origins"`
}

// CharacterConfig is one catalog entry: a character in one costume.
type CharacterConfig struct {
	Name    string                  `yaml:"name" json:"name"`
	Costume string                  `yaml:"costume" json:"costume"`
	Mode    rigview.Mode            `yaml:"mode" json:"-"`
	Clip    string                  `yaml:"clip" json:"clip,omitempty"`
	Asset   rigview.AssetDescriptor `yaml:"asset" json:"asset"`
}

func DefaultConfig() *Config {
	return &Config{
		Assets:   DefaultAssets,
		Settings: DefaultSettings,
		Captures: DefaultCaptures,
		FFmpeg:   "ffmpeg",
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  "rigview",
			HUD:    true,
		},
		Serve: ServeConfig{
			Addr:    DefaultAddr,
			Origins: []string{"*"},
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return nil, fmt.Errorf("parse %s: window size must be positive", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Character returns the entry for name. With an empty costume the first
// entry for name is returned.
func (c *Config) Character(name, costume string) (CharacterConfig, error) {
	for _, ch := range c.Characters {
		if !strings.EqualFold(ch.Name, name) {
			continue
		}
		if costume == "" || strings.EqualFold(ch.Costume, costume) {
			return ch, nil
		}
	}
	if costume != "" {
		return CharacterConfig{}, fmt.Errorf("no character %q in costume %q", name, costume)
	}
	return CharacterConfig{}, fmt.Errorf("no character %q", name)
}

// Costumes returns every entry sharing name, in file order.
func (c *Config) Costumes(name string) []CharacterConfig {
	var out []CharacterConfig
	for _, ch := range c.Characters {
		if strings.EqualFold(ch.Name, name) {
			out = append(out, ch)
		}
	}
	return out
}

// Fetcher returns an HTTP fetcher for URL asset roots and a directory
// fetcher otherwise.
func (c *Config) Fetcher() rigview.Fetcher {
	if strings.HasPrefix(c.Assets, "http://") || strings.HasPrefix(c.Assets, "https://") {
		return rigview.NewHTTPFetcher(c.Assets)
	}
	return rigview.DirFetcher{Root: c.Assets}
}
