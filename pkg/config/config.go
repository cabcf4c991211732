// Package config loads discograph's TOML configuration.
//
// Values are resolved in this order, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. the config file (--config, else ~/.config/discograph/config.toml)
//  3. environment: DISCOGS_TOKEN, DISCOGRAPH_ADDR
//  4. command-line flags, applied by the caller after [Load]
//
// A missing config file is not an error.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/discograph/pkg/integrations/discogs"
	"github.com/matzehuels/discograph/pkg/layout"
)

//go:embed sample_config.toml
var sampleConfig string

// Environment variables consulted by [Load].
const (
	EnvDiscogsToken = "DISCOGS_TOKEN"
	EnvAddr         = "DISCOGRAPH_ADDR"
)

// Duration is a time.Duration written as a string ("10s", "30m") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Server configures the HTTP surface.
type Server struct {
	Addr            string   `toml:"addr"`
	StaticDir       string   `toml:"static_dir"`
	SessionTTL      Duration `toml:"session_ttl"`
	CleanupInterval Duration `toml:"cleanup_interval"`
	CORSOrigins     []string `toml:"cors_origins"`
}

// Discogs configures the upstream catalog API.
type Discogs struct {
	BaseURL   string   `toml:"base_url"`
	Token     string   `toml:"token"`
	UserAgent string   `toml:"user_agent"`
	Timeout   Duration `toml:"timeout"`
	Retries   int      `toml:"retries"`
}

// Layout configures the force simulation.
type Layout struct {
	Width         float64  `toml:"width"`
	Height        float64  `toml:"height"`
	LinkDistance  float64  `toml:"link_distance"`
	Charge        float64  `toml:"charge"`
	CollideRadius float64  `toml:"collide_radius"`
	FrameInterval Duration `toml:"frame_interval"`
	Seed          int64    `toml:"seed"`
}

// Config is the complete discograph configuration.
type Config struct {
	Server  Server  `toml:"server"`
	Discogs Discogs `toml:"discogs"`
	Layout  Layout  `toml:"layout"`
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "discograph", "config.toml"), nil
}

// Load reads the config file at path (or the default location when path is
// empty), applies environment overrides and validates the result. It also
// returns the resolved path and whether a file was found there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolvePath(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		if _, err := toml.DecodeFile(resolved, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func resolvePath(path string) (string, bool, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return "", false, err
		}
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return expanded, false, nil
	case err != nil:
		return "", false, fmt.Errorf("stat config: %w", err)
	case info.IsDir():
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvDiscogsToken)); v != "" {
		c.Discogs.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		c.Server.Addr = v
	}
}

func (c *Config) normalize() error {
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	c.Discogs.BaseURL = strings.TrimRight(strings.TrimSpace(c.Discogs.BaseURL), "/")
	c.Discogs.Token = strings.TrimSpace(c.Discogs.Token)
	if c.Server.StaticDir != "" {
		dir, err := expandPath(c.Server.StaticDir)
		if err != nil {
			return fmt.Errorf("server.static_dir: %w", err)
		}
		c.Server.StaticDir = dir
	}
	return nil
}

// DiscogsOptions returns the upstream client options.
func (c *Config) DiscogsOptions() discogs.Options {
	return discogs.Options{
		BaseURL:   c.Discogs.BaseURL,
		Token:     c.Discogs.Token,
		UserAgent: c.Discogs.UserAgent,
		Timeout:   c.Discogs.Timeout.Duration,
		Retries:   c.Discogs.Retries,
	}
}

// LayoutConfig returns the simulation parameters. Unset fields keep the
// engine defaults.
func (c *Config) LayoutConfig() layout.Config {
	cfg := layout.DefaultConfig()
	if c.Layout.Width > 0 {
		cfg.Width = c.Layout.Width
	}
	if c.Layout.Height > 0 {
		cfg.Height = c.Layout.Height
	}
	if c.Layout.LinkDistance > 0 {
		cfg.LinkDistance = c.Layout.LinkDistance
	}
	if c.Layout.Charge != 0 {
		cfg.Charge = c.Layout.Charge
	}
	if c.Layout.CollideRadius > 0 {
		cfg.CollideRadius = c.Layout.CollideRadius
	}
	if c.Layout.FrameInterval.Duration > 0 {
		cfg.FrameInterval = c.Layout.FrameInterval.Duration
	}
	cfg.Seed = c.Layout.Seed
	return cfg
}

// Encode writes c as TOML. The Discogs token is masked.
func (c *Config) Encode(w io.Writer) error {
	masked := *c
	if masked.Discogs.Token != "" {
		masked.Discogs.Token = "********"
	}
	return toml.NewEncoder(w).Encode(masked)
}

// CreateSample writes a commented sample config file to path.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}
