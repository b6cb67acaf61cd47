package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.Linearize.Method = strings.ToLower(strings.TrimSpace(c.Linearize.Method))
	if c.Linearize.Method == "" {
		c.Linearize.Method = defaultMethod
	}
	c.Evaluation.Taper = strings.ToLower(strings.TrimSpace(c.Evaluation.Taper))
	if c.Evaluation.Taper == "" {
		c.Evaluation.Taper = defaultTaper
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.Catalog, err = expandPath(c.Paths.Catalog); err != nil {
		return fmt.Errorf("paths.catalog: %w", err)
	}
	if c.Paths.Store, err = expandPath(c.Paths.Store); err != nil {
		return fmt.Errorf("paths.store: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.PlotsDir, err = expandPath(c.Paths.PlotsDir); err != nil {
		return fmt.Errorf("paths.plots_dir: %w", err)
	}
	c.Paths.OutputPrefix = strings.TrimSpace(c.Paths.OutputPrefix)
	return nil
}
