package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/s0up4200/einthusarr/einthusan"
)

// Load loads the configuration from file, environment, and defaults.
// A missing config file is not an error: the tool runs fine on
// defaults plus RADARR_URL / RADARR_API_KEY from the environment.
func Load(configPath string) (*Config, error) {
	// Pick up a local .env before viper reads the environment.
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.BindEnv("radarr.url", "RADARR_URL")
	v.BindEnv("radarr.api_key", "RADARR_API_KEY")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "einthusarr"))
		}

		// Check /etc
		v.AddConfigPath("/etc/einthusarr/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		if configPath != "" {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Download.Dir = expandHome(cfg.Download.Dir)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Site defaults
	v.SetDefault("einthusan.base_url", "https://einthusan.tv")
	v.SetDefault("einthusan.language", "tamil")
	v.SetDefault("einthusan.quality", "sd")

	// Radarr defaults
	v.SetDefault("radarr.url", "http://localhost:7878")

	// Download defaults
	v.SetDefault("download.dir", "~/downloads/einthusan")

	// Sync defaults
	v.SetDefault("sync.limit", 0)
	v.SetDefault("sync.min_score", 0.85)
	v.SetDefault("sync.languages", []string{"tamil", "hindi", "malayalam", "telugu"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Einthusan.BaseURL == "" {
		return fmt.Errorf("einthusan.base_url is required")
	}

	if _, err := einthusan.ParseLanguage(cfg.Einthusan.Language); err != nil {
		return fmt.Errorf("invalid einthusan.language: %w", err)
	}

	if _, err := einthusan.ParseQuality(cfg.Einthusan.Quality); err != nil {
		return fmt.Errorf("invalid einthusan.quality: %w", err)
	}

	for _, lang := range cfg.Sync.Languages {
		if _, err := einthusan.ParseLanguage(lang); err != nil {
			return fmt.Errorf("invalid sync.languages entry: %w", err)
		}
	}

	if cfg.Sync.MinScore < 0 || cfg.Sync.MinScore > 1 {
		return fmt.Errorf("sync.min_score must be between 0 and 1, got %v", cfg.Sync.MinScore)
	}

	if cfg.Sync.Limit < 0 {
		return fmt.Errorf("sync.limit must not be negative, got %d", cfg.Sync.Limit)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
