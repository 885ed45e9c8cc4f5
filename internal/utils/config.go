package utils

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config struct holds application configuration
type Config struct {
	Port               int    `yaml:"port"`
	PersistenceEnabled bool   `yaml:"persistence_enabled"`
	PersistencePath    string `yaml:"persistence_path"`
	MaxListLength      int    `yaml:"max_list_length"`
	LogFile            string `yaml:"log_file"`
	Debug              bool   `yaml:"debug"`
}

const (
	defaultPort            = 6379
	defaultPersistenceFile = "lists.binlog"
)

var (
	configInstance *Config // Last loaded configuration
	configMu       sync.RWMutex
)

// LoadConfig reads the YAML file at filename, falls back to defaults when
// it does not exist, and makes the result available through GetConfig.
func LoadConfig(filename string) (*Config, error) {
	config, err := loadConfigFromFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", filename, err)
	}

	configMu.Lock()
	configInstance = config
	configMu.Unlock()
	return config, nil
}

// loadConfigFromFile reads and parses the config file
func loadConfigFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return getDefaultConfig(), nil
		}
		return nil, err
	}

	config := getDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	applyDefaults(config)
	return config, nil
}

// GetConfig returns the singleton config configInstance
func GetConfig() (*Config, error) {
	configMu.RLock()
	defer configMu.RUnlock()
	if configInstance == nil {
		return nil, errors.New("config not initialized, call LoadConfig() first")
	}
	return configInstance, nil
}

// getDefaultConfig returns default config values
func getDefaultConfig() *Config {
	return &Config{
		Port:               defaultPort,
		PersistenceEnabled: true,
		PersistencePath:    defaultPersistenceFile,
		MaxListLength:      0,
	}
}

// applyDefaults ensures missing values get defaults
func applyDefaults(config *Config) {
	if config.Port <= 0 {
		config.Port = defaultPort
	}
	if config.PersistencePath == "" {
		config.PersistencePath = defaultPersistenceFile
	}
	if config.MaxListLength < 0 {
		config.MaxListLength = 0
	}
}
