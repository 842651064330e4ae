// Package config loads, normalizes, and validates animeid configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TRACEMOE_API_KEY. The Config type centralizes every knob the CLI needs:
// the trace.moe endpoint and limits, the external search link, output
// preferences, and logging.
//
// Always obtain settings through this package so downstream code receives
// trimmed values, canonical formats, and clear validation errors.
package config
