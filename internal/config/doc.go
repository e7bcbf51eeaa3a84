// Package config loads, normalizes, and validates chartsync configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SPOTIFY_CLIENT_ID. The Config type centralizes every knob the CLI and the
// ingestion pipeline need, so the database location, chart sources, and API
// credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
