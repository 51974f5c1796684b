// Package config handles loading and merging repoquery configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spiffcs/repoquery/internal/constants"
	"github.com/spiffcs/repoquery/internal/duration"
)

// Config represents the application configuration
type Config struct {
	DefaultFormat string `yaml:"default_format,omitempty"`
	DefaultLimit  int    `yaml:"default_limit,omitempty"`

	// Complete enables model-generated answer summaries by default.
	Complete bool `yaml:"complete,omitempty"`

	// CacheTTL is a duration string like "5m" or "1h".
	CacheTTL string `yaml:"cache_ttl,omitempty"`

	LLM      *LLMOverrides      `yaml:"llm,omitempty"`
	Trending *TrendingOverrides `yaml:"trending,omitempty"`

	// Aliases maps project nicknames to owner/name identifiers, merged on
	// top of the built-in table.
	Aliases map[string]string `yaml:"aliases,omitempty"`
}

// LLMOverrides configures the language model endpoint and models.
// The API key is never stored here; it comes from the environment.
type LLMOverrides struct {
	BaseURL       string `yaml:"base_url,omitempty"`
	Model         string `yaml:"model,omitempty"`
	FallbackModel string `yaml:"fallback_model,omitempty"`
}

// TrendingOverrides tunes the trending search.
type TrendingOverrides struct {
	Days     *int `yaml:"days,omitempty"`
	MinStars *int `yaml:"min_stars,omitempty"`
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".repoquery"
	}
	return filepath.Join(configDir, "repoquery")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".repoquery.yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from the XDG config directory, then
// merges any local .repoquery.yaml on top (local values take precedence).
// A .env file in the working directory is loaded into the environment so
// tokens can live next to the project without being committed.
func Load() (*Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	cfg := &Config{
		DefaultFormat: "table",
		DefaultLimit:  constants.DefaultLimit,
	}

	globalPath := ConfigPath()
	if _, err := os.Stat(globalPath); err == nil {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read global config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse global config file: %w", err)
		}
	}

	localPath := LocalConfigPath()
	if _, err := os.Stat(localPath); err == nil {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local config file: %w", err)
		}
		var localCfg Config
		if err := yaml.Unmarshal(data, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to parse local config file: %w", err)
		}
		cfg = mergeConfig(cfg, &localCfg)
	}

	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = "table"
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = constants.DefaultLimit
	}

	return cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{}

	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	} else {
		result.DefaultFormat = global.DefaultFormat
	}

	if local.DefaultLimit > 0 {
		result.DefaultLimit = local.DefaultLimit
	} else {
		result.DefaultLimit = global.DefaultLimit
	}

	result.Complete = global.Complete || local.Complete

	if local.CacheTTL != "" {
		result.CacheTTL = local.CacheTTL
	} else {
		result.CacheTTL = global.CacheTTL
	}

	result.LLM = mergeLLM(global.LLM, local.LLM)
	result.Trending = mergeTrending(global.Trending, local.Trending)

	// Alias maps merge key by key, local wins on conflicts.
	if len(global.Aliases) > 0 || len(local.Aliases) > 0 {
		result.Aliases = make(map[string]string, len(global.Aliases)+len(local.Aliases))
		for k, v := range global.Aliases {
			result.Aliases[k] = v
		}
		for k, v := range local.Aliases {
			result.Aliases[k] = v
		}
	}

	return result
}

func mergeLLM(global, local *LLMOverrides) *LLMOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &LLMOverrides{}
	if global != nil {
		*result = *global
	}
	if local != nil {
		if local.BaseURL != "" {
			result.BaseURL = local.BaseURL
		}
		if local.Model != "" {
			result.Model = local.Model
		}
		if local.FallbackModel != "" {
			result.FallbackModel = local.FallbackModel
		}
	}
	return result
}

func mergeTrending(global, local *TrendingOverrides) *TrendingOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &TrendingOverrides{}
	if global != nil {
		*result = *global
	}
	if local != nil {
		if local.Days != nil {
			result.Days = local.Days
		}
		if local.MinStars != nil {
			result.MinStars = local.MinStars
		}
	}
	return result
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN environment
// variable. Following 12-factor app practice, tokens are only read from the
// environment.
func (c *Config) GetGitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// GetLLMAPIKey returns the language model API key from the environment.
// REPOQUERY_LLM_API_KEY wins over OPENAI_API_KEY.
func (c *Config) GetLLMAPIKey() string {
	if key := os.Getenv("REPOQUERY_LLM_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}

// GetLLMBaseURL returns the configured endpoint, or "" for the default.
func (c *Config) GetLLMBaseURL() string {
	if c.LLM != nil {
		return c.LLM.BaseURL
	}
	return ""
}

// GetLLMModels returns the primary and fallback model names with defaults
// applied.
func (c *Config) GetLLMModels() (primary, fallback string) {
	primary = constants.PrimaryModel
	fallback = constants.FallbackModel
	if c.LLM != nil {
		if c.LLM.Model != "" {
			primary = c.LLM.Model
		}
		if c.LLM.FallbackModel != "" {
			fallback = c.LLM.FallbackModel
		}
	}
	return primary, fallback
}

// GetCacheTTL parses the configured TTL, falling back to the default on an
// empty or malformed value.
func (c *Config) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return constants.ResultCacheTTL
	}
	ttl, err := duration.Parse(c.CacheTTL)
	if err != nil || ttl <= 0 {
		return constants.ResultCacheTTL
	}
	return ttl
}

// GetTrendingDays returns the trending lookback with defaults applied.
func (c *Config) GetTrendingDays() int {
	if c.Trending != nil && c.Trending.Days != nil && *c.Trending.Days > 0 {
		return *c.Trending.Days
	}
	return constants.TrendingDefaultDays
}

// GetTrendingMinStars returns the trending star floor with defaults applied.
func (c *Config) GetTrendingMinStars() int {
	if c.Trending != nil && c.Trending.MinStars != nil && *c.Trending.MinStars >= 0 {
		return *c.Trending.MinStars
	}
	return constants.TrendingMinStars
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	configDir := DefaultConfigDir()

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# repoquery configuration file

# Output format: table, json, or markdown
default_format: table

# Default number of results when the query does not ask for a count
# default_limit: 10

# Generate conversational answers with a language model
# (requires OPENAI_API_KEY or a custom llm.base_url)
# complete: true

# How long fetched results stay cached
# cache_ttl: 5m

# Language model endpoint and models (optional)
# llm:
#   base_url: http://localhost:11434/v1
#   model: gpt-5
#   fallback_model: gpt-4o

# Trending search tuning (optional)
# trending:
#   days: 30
#   min_stars: 10

# Extra project nicknames for comparison queries (optional)
# aliases:
#   internal: my-org/internal-tools
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
