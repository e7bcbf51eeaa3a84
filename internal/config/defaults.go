package config

const (
	defaultDataDir         = "~/.local/share/chartsync"
	defaultDatabaseName    = "charts.db"
	defaultLogDir          = "~/.local/share/chartsync/logs"
	defaultReportDir       = "~/.local/share/chartsync/reports"
	defaultBatchSize       = 25
	defaultRequestTimeout  = 10
	defaultUserAgent       = "chartsync/dev"
	defaultSpotifyTokenURL = "https://accounts.spotify.com/api/token"
	defaultSpotifyAPIBase  = "https://api.spotify.com/v1"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"

	defaultBillboard2020 = "https://www.billboard.com/charts/year-end/2020/hot-100-songs/"
	defaultBillboard2021 = "https://www.billboard.com/charts/year-end/2021/hot-100-songs/"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			ReportDir: defaultReportDir,
		},
		Ingest: Ingest{
			BatchSize:      defaultBatchSize,
			RequestTimeout: defaultRequestTimeout,
			UserAgent:      defaultUserAgent,
		},
		Spotify: Spotify{
			TokenURL:   defaultSpotifyTokenURL,
			APIBaseURL: defaultSpotifyAPIBase,
		},
		Sources: defaultSources(),
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultSources() []Source {
	return []Source{
		{Year: 2020, Kind: SourceBillboard, URL: defaultBillboard2020},
		{Year: 2021, Kind: SourceBillboard, URL: defaultBillboard2021},
	}
}
