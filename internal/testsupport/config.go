package testsupport

import (
	"path/filepath"
	"testing"

	"chartsync/internal/config"
	"chartsync/internal/source"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Sources default to the billboard pages; use WithFileSource to point a year
// at a local snapshot instead.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.Database = filepath.Join(base, "data", "charts.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ReportDir = filepath.Join(base, "reports")
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBatchSize overrides ingest.batch_size.
func WithBatchSize(size int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ingest.BatchSize = size
	}
}

// WithFileSource writes entries to a snapshot under the temp dir and
// configures year to read from it.
func WithFileSource(year int, entries []source.Entry) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "sources", "chart-"+itoa(year)+".json")
		WriteChartFile(b.t, path, entries)
		replaced := false
		for i := range b.cfg.Sources {
			if b.cfg.Sources[i].Year == year {
				b.cfg.Sources[i] = config.Source{Year: year, Kind: config.SourceFile, Path: path}
				replaced = true
			}
		}
		if !replaced {
			b.cfg.Sources = append(b.cfg.Sources, config.Source{Year: year, Kind: config.SourceFile, Path: path})
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
