package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"chartsync/internal/chartdb"
	"chartsync/internal/config"
	"chartsync/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// loadDotEnv reads ./.env so credentials can stay out of the config file.
// Variables already set in the environment win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := loadDotEnv(); err != nil {
			c.configErr = err
			return
		}
		cfg, path, _, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

// openLogger builds the configured logger. The returned func closes its log
// file and must run once the command is done logging.
func (c *commandContext) openLogger() (*slog.Logger, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, closer, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open logger: %w", err)
	}
	return logger, func() { _ = closer.Close() }, nil
}

// withStore opens the chart database for the duration of fn.
func (c *commandContext) withStore(fn func(*config.Config, *chartdb.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := chartdb.Open(cfg)
	if err != nil {
		if errors.Is(err, chartdb.ErrStoreLocked) {
			return fmt.Errorf("%w; another chartsync command is running", err)
		}
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

// selectedYears returns the single year named by flag, or every configured
// year when flag is zero.
func selectedYears(cfg *config.Config, flag int) ([]chartdb.Year, error) {
	if flag != 0 {
		year, err := chartdb.ParseYear(flag)
		if err != nil {
			return nil, err
		}
		return []chartdb.Year{year}, nil
	}
	configured := cfg.Years()
	years := make([]chartdb.Year, 0, len(configured))
	for _, value := range configured {
		year, err := chartdb.ParseYear(value)
		if err != nil {
			return nil, err
		}
		years = append(years, year)
	}
	return years, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
