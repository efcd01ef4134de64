package config

// Config represents the complete configuration structure
type Config struct {
	Einthusan EinthusanConfig `mapstructure:"einthusan"`
	Radarr    RadarrConfig    `mapstructure:"radarr"`
	Download  DownloadConfig  `mapstructure:"download"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// EinthusanConfig holds site connection details and defaults
type EinthusanConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	Language string `mapstructure:"language"`
	Quality  string `mapstructure:"quality"`
}

// RadarrConfig holds Radarr API connection details
type RadarrConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// DownloadConfig contains download destination settings
type DownloadConfig struct {
	Dir string `mapstructure:"dir"`
}

// SyncConfig contains sync run settings
type SyncConfig struct {
	Limit     int      `mapstructure:"limit"`
	MinScore  float64  `mapstructure:"min_score"`
	Languages []string `mapstructure:"languages"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
