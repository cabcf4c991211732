package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDiscogs(); err != nil {
		return err
	}
	return c.validateLayout()
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return fmt.Errorf("server.addr %q: %w", c.Server.Addr, err)
	}
	if c.Server.SessionTTL.Duration <= 0 {
		return errors.New("server.session_ttl must be positive")
	}
	if c.Server.CleanupInterval.Duration <= 0 {
		return errors.New("server.cleanup_interval must be positive")
	}
	return nil
}

func (c *Config) validateDiscogs() error {
	u, err := url.Parse(c.Discogs.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("discogs.base_url %q must be an absolute http(s) URL", c.Discogs.BaseURL)
	}
	if c.Discogs.Timeout.Duration <= 0 {
		return errors.New("discogs.timeout must be positive")
	}
	if c.Discogs.Retries < 0 || c.Discogs.Retries > 10 {
		return errors.New("discogs.retries must be between 0 and 10")
	}
	return nil
}

func (c *Config) validateLayout() error {
	if c.Layout.Width < 0 || c.Layout.Height < 0 {
		return errors.New("layout.width and layout.height must not be negative")
	}
	if c.Layout.LinkDistance < 0 || c.Layout.CollideRadius < 0 {
		return errors.New("layout.link_distance and layout.collide_radius must not be negative")
	}
	if c.Layout.Charge > 0 {
		return errors.New("layout.charge must not be positive (negative values repel)")
	}
	if c.Layout.FrameInterval.Duration < 0 {
		return errors.New("layout.frame_interval must not be negative")
	}
	return nil
}
