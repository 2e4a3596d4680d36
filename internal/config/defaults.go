package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:       "~/.config/historyremover",
			SQLiteFile: "history.db",
		},
		Daemon: DaemonConfig{
			Host:              "127.0.0.1",
			Port:              7773,
			AuthToken:         "",
			MaxRequestSize:    10485760,
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Deletion: DeletionConfig{
			BatchSize: 50,
		},
		Bookmarks: BookmarksConfig{
			MaxDepth: 64,
		},
	}
}
