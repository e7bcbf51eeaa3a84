package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateIngest(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateSpotify(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.Database == "" {
		return errors.New("paths.database must be set")
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.BatchSize <= 0 {
		return errors.New("ingest.batch_size must be positive")
	}
	if c.Ingest.RequestTimeout <= 0 {
		return errors.New("ingest.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateSources() error {
	if len(c.Sources) == 0 {
		return errors.New("at least one [[sources]] entry is required")
	}
	seen := make(map[int]struct{}, len(c.Sources))
	for i, src := range c.Sources {
		if src.Year <= 0 {
			return fmt.Errorf("sources[%d].year must be positive", i)
		}
		if _, dup := seen[src.Year]; dup {
			return fmt.Errorf("sources[%d].year %d is configured more than once", i, src.Year)
		}
		seen[src.Year] = struct{}{}

		switch src.Kind {
		case SourceBillboard:
			if src.URL == "" {
				return fmt.Errorf("sources[%d].url must be set for billboard sources", i)
			}
		case SourceSpotify:
			if src.PlaylistID == "" {
				return fmt.Errorf("sources[%d].playlist_id must be set for spotify sources", i)
			}
		case SourceFile:
			if src.Path == "" {
				return fmt.Errorf("sources[%d].path must be set for file sources", i)
			}
		default:
			return fmt.Errorf("sources[%d].kind: unsupported value %q (want billboard, spotify, or file)", i, src.Kind)
		}
	}
	return nil
}

// validateSpotify only demands credentials when a spotify source is configured.
func (c *Config) validateSpotify() error {
	needed := false
	for _, src := range c.Sources {
		if src.Kind == SourceSpotify {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return errors.New("spotify.client_id and spotify.client_secret are required for spotify sources (or set SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET)")
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
