package config

import "strings"

func (c *Config) normalize() {
	c.TraceMoe.Endpoint = strings.TrimSpace(c.TraceMoe.Endpoint)
	if c.TraceMoe.Endpoint == "" {
		c.TraceMoe.Endpoint = defaultEndpoint
	}
	c.TraceMoe.APIKey = strings.TrimSpace(c.TraceMoe.APIKey)
	if c.TraceMoe.TimeoutSeconds == 0 {
		c.TraceMoe.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.TraceMoe.MaxUploadMB == 0 {
		c.TraceMoe.MaxUploadMB = defaultMaxUploadMB
	}

	c.Links.SearchURL = strings.TrimSpace(c.Links.SearchURL)
	if c.Links.SearchURL == "" {
		c.Links.SearchURL = defaultSearchURL
	}
	c.Links.QueryParam = strings.TrimSpace(c.Links.QueryParam)
	if c.Links.QueryParam == "" {
		c.Links.QueryParam = defaultQueryParam
	}

	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = defaultOutputFormat
	}
	c.Output.Color = strings.ToLower(strings.TrimSpace(c.Output.Color))
	if c.Output.Color == "" {
		c.Output.Color = defaultOutputColor
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
