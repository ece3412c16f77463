// Package config handles configuration loading for the haircuts locator.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Portal   PortalConfig   `mapstructure:"portal"   yaml:"portal"`
	Resolver ResolverConfig `mapstructure:"resolver" yaml:"resolver"`
	Batch    BatchConfig    `mapstructure:"batch"    yaml:"batch"`
	Download DownloadConfig `mapstructure:"download" yaml:"download"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
}

// PortalConfig holds the BanRep portal endpoints.
type PortalConfig struct {
	BaseURL    string `mapstructure:"base_url"    yaml:"base_url"`    // site root
	FilesURL   string `mapstructure:"files_url"   yaml:"files_url"`   // public attachments root
	ListingURL string `mapstructure:"listing_url" yaml:"listing_url"` // haircuts listing page
	FeedURL    string `mapstructure:"feed_url"    yaml:"feed_url"`    // portal RSS feed
}

// ResolverConfig holds URL resolution settings.
type ResolverConfig struct {
	Strategy        string `mapstructure:"strategy"          yaml:"strategy"` // "direct", "listing", "auto"
	ProbeTimeoutSec int    `mapstructure:"probe_timeout_sec" yaml:"probe_timeout_sec"`
	ListingCacheSec int    `mapstructure:"listing_cache_sec" yaml:"listing_cache_sec"`
	MaxListingPages int    `mapstructure:"max_listing_pages" yaml:"max_listing_pages"`
	RateLimitPerSec int    `mapstructure:"rate_limit_per_sec" yaml:"rate_limit_per_sec"`
}

// BatchConfig holds batch resolution settings.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"` // concurrent periods
}

// DownloadConfig holds file download settings.
type DownloadConfig struct {
	Dir        string `mapstructure:"dir"         yaml:"dir"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.haircuts/config.yaml (home directory)
//  3. /etc/haircuts/config.yaml (system)
//
// Environment variables override config file values.
// Format: HAIRCUTS_<SECTION>_<KEY>, e.g., HAIRCUTS_RESOLVER_STRATEGY.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".haircuts"))
	v.AddConfigPath("/etc/haircuts")

	v.SetEnvPrefix("HAIRCUTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — fine, use defaults + env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("HAIRCUTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Portal defaults. The listing page enumerates the monthly detail pages
	// for both categories; attachments live under /sites/default/files/.
	v.SetDefault("portal.base_url", "https://www.banrep.gov.co")
	v.SetDefault("portal.files_url", "https://www.banrep.gov.co/sites/default/files")
	v.SetDefault("portal.listing_url", "https://www.banrep.gov.co/es/sistemas-pago/dcv/haircuts-repos-deuda-externa")
	v.SetDefault("portal.feed_url", "https://www.banrep.gov.co/es/rss.xml")

	// Resolver defaults.
	v.SetDefault("resolver.strategy", "auto")
	v.SetDefault("resolver.probe_timeout_sec", 15)
	v.SetDefault("resolver.listing_cache_sec", 120)
	v.SetDefault("resolver.max_listing_pages", 5)
	v.SetDefault("resolver.rate_limit_per_sec", 5)

	// Batch defaults.
	v.SetDefault("batch.concurrency", 4)

	// Download defaults.
	v.SetDefault("download.dir", ".")
	v.SetDefault("download.timeout_sec", 60)

	// API defaults.
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
