package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeBackend(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeIntervals()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeBackend() error {
	base := strings.TrimSpace(c.Backend.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	c.Backend.BaseURL = strings.TrimRight(base, "/")
	if c.Backend.RequestTimeout <= 0 {
		c.Backend.RequestTimeout = defaultRequestTimeout
	}
	if strings.TrimSpace(c.Backend.UserAgent) == "" {
		c.Backend.UserAgent = defaultUserAgent
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Auth.StateDir) == "" {
		c.Auth.StateDir = defaultStateDir
	}
	if c.Auth.StateDir, err = expandPath(c.Auth.StateDir); err != nil {
		return fmt.Errorf("auth.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Cache.Dir) == "" {
		c.Cache.Dir = defaultCacheDir
	}
	if c.Cache.Dir, err = expandPath(c.Cache.Dir); err != nil {
		return fmt.Errorf("cache.dir: %w", err)
	}
	if strings.TrimSpace(c.Deploy.LockPath) == "" {
		c.Deploy.LockPath = defaultDeployLockPath
	}
	if c.Deploy.LockPath, err = expandPath(c.Deploy.LockPath); err != nil {
		return fmt.Errorf("deploy.lock_path: %w", err)
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = defaultLogDir
	}
	if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeIntervals() {
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = defaultCacheTTLSeconds
	}
	if c.Watch.PortStatusInterval <= 0 {
		c.Watch.PortStatusInterval = defaultPortStatusInterval
	}
	if c.Watch.QueueInterval <= 0 {
		c.Watch.QueueInterval = defaultQueueInterval
	}
	if c.Deploy.TimeoutSeconds <= 0 {
		c.Deploy.TimeoutSeconds = defaultDeployTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
