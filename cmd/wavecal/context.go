package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/cwbudde/algo-wavecal/internal/config"
	"github.com/cwbudde/algo-wavecal/internal/linelist"
	"github.com/cwbudde/algo-wavecal/internal/logging"
	"github.com/cwbudde/algo-wavecal/internal/store"
)

type commandContext struct {
	configFlag *string
	levelFlag  *string

	configOnce sync.Once
	config     *config.Config
	logger     *slog.Logger
	configErr  error
}

func newCommandContext(configFlag, levelFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag, levelFlag: levelFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		level := cfg.Logging.Level
		if c.levelFlag != nil && strings.TrimSpace(*c.levelFlag) != "" {
			level = *c.levelFlag
		}
		logger, err := logging.New(logging.Options{Level: level, Format: cfg.Logging.Format})
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

func (c *commandContext) catalog() (*linelist.Catalog, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return linelist.Load(cfg.Paths.Catalog)
}

func (c *commandContext) openStore() (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Paths.Store, store.WithAngleTolerance(cfg.Instrument.AngleTolerance))
}
