package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTraceMoe(); err != nil {
		return err
	}
	if err := c.validateLinks(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTraceMoe() error {
	if err := validateHTTPURL(c.TraceMoe.Endpoint); err != nil {
		return fmt.Errorf("tracemoe.endpoint: %w", err)
	}
	if c.TraceMoe.TimeoutSeconds < 0 {
		return errors.New("tracemoe.timeout_seconds must be positive")
	}
	if c.TraceMoe.MaxUploadMB < 0 {
		return errors.New("tracemoe.max_upload_mb must be positive")
	}
	if c.TraceMoe.MaxUploadMB > MaxUploadMBLimit {
		return fmt.Errorf("tracemoe.max_upload_mb must be at most %d", MaxUploadMBLimit)
	}
	if c.TraceMoe.RequestsPerMinute < 0 {
		return errors.New("tracemoe.requests_per_minute must be zero (unlimited) or positive")
	}
	return nil
}

func (c *Config) validateLinks() error {
	if err := validateHTTPURL(c.Links.SearchURL); err != nil {
		return fmt.Errorf("links.search_url: %w", err)
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.Format {
	case "table", "json":
	default:
		return fmt.Errorf("output.format: unsupported value %q (expected table or json)", c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output.color: unsupported value %q (expected auto, always, or never)", c.Output.Color)
	}
	if c.Output.Limit < 0 {
		return errors.New("output.limit must be zero (all matches) or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func validateHTTPURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse %q: %w", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%q is missing a host", raw)
	}
	return nil
}
