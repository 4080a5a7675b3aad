package config

import "time"

// MediatorConfig holds dispatch pipeline configuration
type MediatorConfig struct {
	// Logging toggles per dispatch shape
	Logging MediatorLoggingConfig `mapstructure:"logging"`

	// Statistics collection settings
	Statistics StatisticsConfig `mapstructure:"statistics"`
}

// MediatorLoggingConfig mirrors the mediator's logging options
type MediatorLoggingConfig struct {
	Send        bool `mapstructure:"send"`
	Publish     bool `mapstructure:"publish"`
	Stream      bool `mapstructure:"stream"`
	Performance bool `mapstructure:"performance"`
}

// StatisticsConfig holds statistics tracker configuration
type StatisticsConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	RetentionWindow  time.Duration `mapstructure:"retention_window"`
	CleanupInterval  time.Duration `mapstructure:"cleanup_interval"`
	DetailedTracking bool          `mapstructure:"detailed_tracking"`
}
