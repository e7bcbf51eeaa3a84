package main

import (
	"fmt"
	"net/http"
	"time"

	"chartsync/internal/config"
	"chartsync/internal/services"
	"chartsync/internal/source"
	"chartsync/internal/source/billboard"
	"chartsync/internal/source/file"
	"chartsync/internal/source/spotify"
)

// buildSource constructs the client for one configured year. Each call returns
// a fresh client so credentials and tokens are never shared across drivers.
func buildSource(cfg *config.Config, src config.Source) (source.Source, error) {
	httpClient := &http.Client{Timeout: time.Duration(cfg.Ingest.RequestTimeout) * time.Second}

	switch src.Kind {
	case config.SourceBillboard:
		return billboard.New(src.URL,
			billboard.WithHTTPClient(httpClient),
			billboard.WithUserAgent(cfg.Ingest.UserAgent),
		)
	case config.SourceSpotify:
		return spotify.New(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, src.PlaylistID,
			spotify.WithHTTPClient(httpClient),
			spotify.WithTokenURL(cfg.Spotify.TokenURL),
			spotify.WithAPIBaseURL(cfg.Spotify.APIBaseURL),
			spotify.WithUserAgent(cfg.Ingest.UserAgent),
		)
	case config.SourceFile:
		return file.New(src.Path)
	default:
		return nil, services.Wrap(services.ErrConfiguration, "sources", "build",
			fmt.Sprintf("year %d has unsupported kind %q", src.Year, src.Kind), nil)
	}
}

func describeSource(src config.Source) string {
	switch src.Kind {
	case config.SourceBillboard:
		return src.URL
	case config.SourceSpotify:
		return "playlist " + src.PlaylistID
	case config.SourceFile:
		return src.Path
	default:
		return src.Kind
	}
}
