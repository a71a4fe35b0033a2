// Package config loads synapse's tool configuration: godotenv for .env
// precedence, viper for layered defaults/file/env-var config unmarshalled
// into a typed struct, with keychain-backed secret lookup for the mentor
// API key.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

// Config holds every tool-level setting synapse needs outside of the
// per-repository governance rules (those live in .synapse/architecture.yaml
// and are owned by internal/governance).
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Cache   CacheConfig   `yaml:"cache"`
	Risk    RiskConfig    `yaml:"risk"`
	Mentor  MentorConfig  `yaml:"mentor"`
	Mining  MiningConfig  `yaml:"mining"`
	Logging LoggingConfig `yaml:"logging"`
}

type StorageConfig struct {
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

type CacheConfig struct {
	Directory string        `yaml:"directory"`
	TTL       time.Duration `yaml:"ttl"`
}

type RiskConfig struct {
	MediumThreshold   float64 `yaml:"medium_threshold" mapstructure:"medium_threshold"`
	HighThreshold     float64 `yaml:"high_threshold" mapstructure:"high_threshold"`
	CriticalThreshold float64 `yaml:"critical_threshold" mapstructure:"critical_threshold"`
}

// MentorConfig configures the optional LLM pass-through (internal/mentor).
// APIKey is never read from the config file; UseKeychain controls whether
// Load() fetches it from the OS keychain, following an env-var > keychain
// precedence.
type MentorConfig struct {
	Provider     string  `yaml:"provider"` // "openai", "gemini", "" (disabled)
	Model        string  `yaml:"model"`
	UseKeychain  bool    `yaml:"use_keychain" mapstructure:"use_keychain"`
	RateLimitRPS float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	APIKey       string  `yaml:"-" mapstructure:"-"`
}

type MiningConfig struct {
	RevisionRange string `yaml:"revision_range" mapstructure:"revision_range"` // e.g. "HEAD~1000..HEAD", "" for full history
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
}

const keyringService = "synapse-mentor"

// Default returns the built-in configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Storage: StorageConfig{
			SQLitePath: filepath.Join(homeDir, ".synapse", "local.db"),
		},
		Cache: CacheConfig{
			Directory: filepath.Join(homeDir, ".synapse", "cache"),
			TTL:       24 * time.Hour,
		},
		Risk: RiskConfig{
			MediumThreshold:   0.2,
			HighThreshold:     0.5,
			CriticalThreshold: 0.8,
		},
		Mentor: MentorConfig{
			Provider:     "",
			Model:        "gpt-4o-mini",
			UseKeychain:  true,
			RateLimitRPS: 0.5,
		},
		Mining: MiningConfig{
			RevisionRange: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads synapse.yaml (or the file at path) layered over Default(),
// applies SYNAPSE_-prefixed env var overrides, and resolves the mentor
// API key via env var first, then OS keychain.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("storage", cfg.Storage)
	v.SetDefault("cache", cfg.Cache)
	v.SetDefault("risk", cfg.Risk)
	v.SetDefault("mentor", cfg.Mentor)
	v.SetDefault("mining", cfg.Mining)
	v.SetDefault("logging", cfg.Logging)

	v.SetEnvPrefix("SYNAPSE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("synapse")
		v.AddConfigPath(".")
		v.AddConfigPath(".synapse")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".synapse"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	resolveMentorKey(cfg)

	return cfg, nil
}

// resolveMentorKey applies env-var-over-keychain precedence for the
// mentor's API key.
func resolveMentorKey(cfg *Config) {
	if key := os.Getenv("SYNAPSE_MENTOR_API_KEY"); key != "" {
		cfg.Mentor.APIKey = key
		return
	}
	if !cfg.Mentor.UseKeychain || cfg.Mentor.Provider == "" {
		return
	}
	if key, err := keyring.Get(keyringService, cfg.Mentor.Provider); err == nil {
		cfg.Mentor.APIKey = key
	}
}

// StoreMentorKey writes an API key to the OS keychain for the given
// provider, so future Load() calls can pick it up without an env var.
func StoreMentorKey(provider, apiKey string) error {
	return keyring.Set(keyringService, provider, apiKey)
}

func loadEnvFiles() {
	envFiles := []string{".env.local", ".env"}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".synapse", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		_ = godotenv.Load(homeEnvFile)
	}
}
