package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	API       APIConfig       `yaml:"api"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Cache     CacheConfig     `yaml:"cache"`
	Worker    WorkerConfig    `yaml:"worker"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url" env:"TRAVELBOOK_API_BASE_URL"`
	Token          string `yaml:"token" env:"TRAVELBOOK_API_TOKEN"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type DashboardConfig struct {
	Address string `yaml:"address" env:"TRAVELBOOK_DASHBOARD_ADDR"`
}

type CacheConfig struct {
	SubscriberBuffer int `yaml:"subscriber_buffer"`
}

type WorkerConfig struct {
	RefreshSeconds int `yaml:"refresh_seconds"`
}

// LoadConfig reads the yaml file at path, then applies environment
// overrides so secrets like the API token can stay out of the file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	return &cfg, nil
}
