package config

const (
	defaultBaseURL            = "http://127.0.0.1:8420"
	defaultRequestTimeout     = 10
	defaultUserAgent          = "venuectl/dev"
	defaultStateDir           = "~/.local/share/venuectl"
	defaultCacheDir           = "~/.cache/venuectl"
	defaultCacheTTLSeconds    = 300
	defaultPortStatusInterval = 3
	defaultQueueInterval      = 10
	defaultDeployLockPath     = "~/.local/share/venuectl/deploy.lock"
	defaultDeployTimeout      = 600
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogDir             = "~/.local/share/venuectl/logs"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Backend: Backend{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
			UserAgent:      defaultUserAgent,
		},
		Auth: Auth{
			StateDir: defaultStateDir,
		},
		Cache: Cache{
			Enabled:    true,
			Dir:        defaultCacheDir,
			TTLSeconds: defaultCacheTTLSeconds,
		},
		Watch: Watch{
			PortStatusInterval: defaultPortStatusInterval,
			QueueInterval:      defaultQueueInterval,
		},
		Deploy: Deploy{
			LockPath:       defaultDeployLockPath,
			TimeoutSeconds: defaultDeployTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
	}
}
