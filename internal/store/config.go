package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL points at the production admin API.
const DefaultBaseURL = "https://trade-client-server.onrender.com"

type Config struct {
	BaseURL               string  `yaml:"base_url"`
	PageLimit             int     `yaml:"page_limit"`
	RequestTimeoutSeconds int     `yaml:"request_timeout_seconds"`
	NiftyMultiplier       float64 `yaml:"nifty_multiplier"`
	TokenFile             string  `yaml:"token_file"`
	Audit                 struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"audit"`
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url cannot be empty")
	}
	if c.PageLimit <= 0 || c.PageLimit > 100 {
		return fmt.Errorf("page_limit must be between 1-100, got %d", c.PageLimit)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive, got %d", c.RequestTimeoutSeconds)
	}
	if c.NiftyMultiplier <= 0 {
		return fmt.Errorf("nifty_multiplier must be positive, got %v", c.NiftyMultiplier)
	}
	return nil
}

// RequestTimeout returns the per-request deadline.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// LoadConfig reads config from path. A missing file is not an error: the
// console runs fine on defaults plus environment overrides.
func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if v := os.Getenv("ADMIN_API_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if c.PageLimit == 0 {
		c.PageLimit = 10
	}
	if c.RequestTimeoutSeconds == 0 {
		c.RequestTimeoutSeconds = 15
	}
	if c.NiftyMultiplier == 0 {
		c.NiftyMultiplier = 75
	}
	if c.TokenFile == "" {
		c.TokenFile = ".admin_token"
	}
	if c.Audit.Dir == "" {
		c.Audit.Dir = "audit"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
