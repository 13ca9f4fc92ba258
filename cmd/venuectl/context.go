package main

import (
	"log/slog"
	"strings"
	"sync"

	"venuectl/internal/auth"
	"venuectl/internal/client"
	"venuectl/internal/config"
	"venuectl/internal/logging"
	"venuectl/internal/querycache"
)

type commandContext struct {
	baseURLFlag *string
	configFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	authOnce sync.Once
	auth     *auth.Manager
	authErr  error
}

func newCommandContext(baseURLFlag, configFlag *string) *commandContext {
	return &commandContext{
		baseURLFlag: baseURLFlag,
		configFlag:  configFlag,
	}
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
		if c.baseURLFlag != nil && strings.TrimSpace(*c.baseURLFlag) != "" {
			cfg.Backend.BaseURL = strings.TrimSpace(*c.baseURLFlag)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) authManager() (*auth.Manager, error) {
	c.authOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.authErr = err
			return
		}
		c.auth, c.authErr = auth.NewManager(cfg)
	})
	return c.auth, c.authErr
}

func (c *commandContext) apiClient() (*client.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	manager, err := c.authManager()
	if err != nil {
		return nil, err
	}
	return client.New(cfg,
		client.WithTokenSource(manager),
		client.WithLogger(c.ensureLogger()),
	)
}

// cacheStore opens the query cache, or returns nil when caching is disabled
// or the store cannot be opened. Cache trouble never fails a command.
func (c *commandContext) cacheStore() *querycache.Store {
	cfg, err := c.ensureConfig()
	if err != nil || !cfg.Cache.Enabled {
		return nil
	}
	store, err := querycache.Open(cfg)
	if err != nil {
		c.ensureLogger().Warn("query cache unavailable", logging.Error(err))
		return nil
	}
	return store
}
