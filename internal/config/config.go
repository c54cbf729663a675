package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yiblet/recent/internal/store"
	"gopkg.in/yaml.v3"
)

// Config represents the recent configuration
type Config struct {
	MaxRecords int    `yaml:"max_records"`
	DBPath     string `yaml:"db_path,omitempty"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxRecords: store.DefaultMaxRecords,
		LogLevel:   "warn",
		LogFormat:  "text",
	}
}

// ConfigManager manages configuration persistence
type ConfigManager struct {
	configPath string
}

// NewConfigManager creates a new configuration manager
func NewConfigManager() (*ConfigManager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "recent")
	configPath := filepath.Join(configDir, "config.yaml")

	return &ConfigManager{
		configPath: configPath,
	}, nil
}

// NewConfigManagerWithPath creates a config manager with custom config path
func NewConfigManagerWithPath(configPath string) *ConfigManager {
	return &ConfigManager{
		configPath: configPath,
	}
}

// Load reads the configuration from file, or returns default if file doesn't exist
func (cm *ConfigManager) Load() (*Config, error) {
	if _, err := os.Stat(cm.configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cm.validateAndSetDefaults(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Save writes the configuration to file
func (cm *ConfigManager) Save(config *Config) error {
	if err := cm.validateAndSetDefaults(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	configDir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// validateAndSetDefaults validates configuration and sets defaults for missing fields
func (cm *ConfigManager) validateAndSetDefaults(config *Config) error {
	defaults := DefaultConfig()

	if config.MaxRecords == 0 {
		config.MaxRecords = defaults.MaxRecords
	}
	if config.MaxRecords < 0 {
		return fmt.Errorf("max_records must be greater than 0")
	}
	if config.MaxRecords > 1000 {
		return fmt.Errorf("max_records cannot exceed 1000 items")
	}

	switch config.LogLevel {
	case "":
		config.LogLevel = defaults.LogLevel
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}

	switch config.LogFormat {
	case "":
		config.LogFormat = defaults.LogFormat
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be 'text' or 'json'")
	}

	return nil
}

// GetConfigPath returns the path to the config file
func (cm *ConfigManager) GetConfigPath() string {
	return cm.configPath
}

// Update modifies a specific configuration value
func (cm *ConfigManager) Update(key, value string) error {
	config, err := cm.Load()
	if err != nil {
		return err
	}

	switch key {
	case "max-records":
		var maxRecords int
		if _, err := fmt.Sscanf(value, "%d", &maxRecords); err != nil {
			return fmt.Errorf("invalid integer value for max-records: %s", value)
		}
		if maxRecords <= 0 {
			return fmt.Errorf("max-records must be greater than 0")
		}
		config.MaxRecords = maxRecords
	case "db-path":
		config.DBPath = value
	case "log-level":
		config.LogLevel = value
	case "log-format":
		config.LogFormat = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	return cm.Save(config)
}

// Get returns the value for a specific configuration key
func (cm *ConfigManager) Get(key string) (string, error) {
	config, err := cm.Load()
	if err != nil {
		return "", err
	}

	switch key {
	case "max-records":
		return fmt.Sprintf("%d", config.MaxRecords), nil
	case "db-path":
		if config.DBPath == "" {
			return "[default]", nil
		}
		return config.DBPath, nil
	case "log-level":
		return config.LogLevel, nil
	case "log-format":
		return config.LogFormat, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// List returns all configuration keys and values
func (cm *ConfigManager) List() (map[string]string, error) {
	config, err := cm.Load()
	if err != nil {
		return nil, err
	}

	result := map[string]string{
		"max-records": fmt.Sprintf("%d", config.MaxRecords),
		"db-path":     config.DBPath,
		"log-level":   config.LogLevel,
		"log-format":  config.LogFormat,
	}

	if result["db-path"] == "" {
		result["db-path"] = "[default]"
	}

	return result, nil
}
