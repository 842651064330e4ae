package config

import "time"

const (
	defaultEndpoint          = "https://api.trace.moe/search"
	defaultTimeoutSeconds    = 30
	defaultMaxUploadMB       = 25
	defaultRequestsPerMinute = 0
	defaultSearchURL         = "https://kaido.to/search"
	defaultQueryParam        = "keyword"
	defaultOutputFormat      = "table"
	defaultOutputColor       = "auto"
	defaultOutputLimit       = 0
	defaultLogFormat         = "console"
	defaultLogLevel          = "warn"
	defaultConfigLocation    = "~/.config/animeid/config.toml"
	projectConfigName        = "animeid.toml"
)

// MaxUploadMBLimit caps tracemoe.max_upload_mb so the byte ceiling stays
// positive.
const MaxUploadMBLimit = 1024

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		TraceMoe: TraceMoe{
			Endpoint:          defaultEndpoint,
			TimeoutSeconds:    defaultTimeoutSeconds,
			MaxUploadMB:       defaultMaxUploadMB,
			RequestsPerMinute: defaultRequestsPerMinute,
		},
		Links: Links{
			SearchURL:  defaultSearchURL,
			QueryParam: defaultQueryParam,
		},
		Output: Output{
			Format: defaultOutputFormat,
			Color:  defaultOutputColor,
			Limit:  defaultOutputLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// Timeout returns the request timeout as a duration.
func (t TraceMoe) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// MaxUploadBytes returns the upload ceiling in bytes.
func (t TraceMoe) MaxUploadBytes() int64 {
	return int64(t.MaxUploadMB) * 1024 * 1024
}
