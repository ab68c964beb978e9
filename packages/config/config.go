// Package config loads rest client settings from JSON or YAML files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fubar/jrac/packages/rest"
)

// Config mirrors the rest client options in file form. Durations are
// milliseconds, matching configuration conventions elsewhere.
type Config struct {
	BaseURL         string            `json:"baseURL" yaml:"baseURL"`
	Timeout         int               `json:"timeout,omitempty" yaml:"timeout,omitempty"` // milliseconds
	KeepAlive       *bool             `json:"keepAlive,omitempty" yaml:"keepAlive,omitempty"`
	Headers         map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	RequestIDHeader string            `json:"requestIdHeader,omitempty" yaml:"requestIdHeader,omitempty"`
	RateLimit       float64           `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty"` // requests per second
	RateBurst       int               `json:"rateBurst,omitempty" yaml:"rateBurst,omitempty"`
}

// BoolPtr returns a pointer to a bool value, for the optional fields.
func BoolPtr(b bool) *bool {
	return &b
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetKeepAlive returns the keep-alive setting, defaulting to false.
func (c *Config) GetKeepAlive() bool {
	return getBool(c.KeepAlive, false)
}

// Load reads a config file. Files ending in .json are parsed as JSON,
// everything else as YAML (which also accepts JSON input).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if filepath.Ext(path) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Options converts the file settings into rest client options.
func (c *Config) Options() []rest.ClientOption {
	var opts []rest.ClientOption
	if c.Timeout > 0 {
		opts = append(opts, rest.WithTimeout(time.Duration(c.Timeout)*time.Millisecond))
	}
	if c.GetKeepAlive() {
		opts = append(opts, rest.WithKeepAlive(true))
	}
	if len(c.Headers) > 0 {
		opts = append(opts, rest.WithDefaultHeaders(c.Headers))
	}
	if c.RequestIDHeader != "" {
		opts = append(opts, rest.WithRequestID(c.RequestIDHeader))
	}
	if c.RateLimit > 0 {
		burst := c.RateBurst
		if burst < 1 {
			burst = 1
		}
		opts = append(opts, rest.WithRateLimit(c.RateLimit, burst))
	}
	return opts
}

// Client builds a rest.Client from the loaded settings.
func (c *Config) Client(extra ...rest.ClientOption) (*rest.Client, error) {
	return rest.NewClient(c.BaseURL, append(c.Options(), extra...)...)
}
