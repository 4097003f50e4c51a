package config

import (
	"time"
)

// Config represents the application configuration
type Config struct {
	LogLevel string
	Download DownloadConfig
}

// DownloadConfig represents download pipeline configuration
type DownloadConfig struct {
	OutputDir      string
	Resume         bool
	RetryFailed    bool
	TimestampNames bool
	LocalTime      bool
	MergeOverlays  bool
	OverlaysOnly   bool
	SkipDuplicates bool
	EmbedEXIF      bool
	Limit          int
	Timeout        time.Duration
	UserAgent      string
}

// New creates a new configuration with default values
func New() *Config {
	return &Config{
		LogLevel: "info",
		Download: DownloadConfig{
			OutputDir: "memories",
			Timeout:   30 * time.Second,
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
		},
	}
}
