package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the optional inkwell.yml configuration file. Every
// field has a working default, so a missing file is a valid setup - the
// file exists for development overrides (pointing at a staging hosting
// service, a locally built generator binary, or a throwaway data root).
type Config struct {
	// HostingURL is the base URL of the hosting service that serves
	// the reserve/upload/device-link endpoints.
	HostingURL string `yaml:"hosting_url,omitempty"`

	// TokenURL is the OAuth token endpoint used to refresh sessions.
	TokenURL string `yaml:"token_url,omitempty"`

	// GeneratorPath overrides resolution of the site-generator binary.
	GeneratorPath string `yaml:"generator_path,omitempty"`

	// DataRoot overrides the application-data root directory.
	DataRoot string `yaml:"data_root,omitempty"`
}

const (
	defaultHostingURL = "https://inkwell.site"
	defaultTokenURL   = "https://auth.inkwell.site/oauth/token"
)

func (c *Config) setDefaults() {
	if c.HostingURL == "" {
		c.HostingURL = defaultHostingURL
	}
	if c.TokenURL == "" {
		c.TokenURL = defaultTokenURL
	}
}

// Validate checks that configured endpoints are absolute http(s) URLs.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"hosting_url": c.HostingURL,
		"token_url":   c.TokenURL,
	} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s is not a valid URL: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s must be an http(s) URL, got %q", name, raw)
		}
	}
	return nil
}

// Load reads and validates an inkwell.yml file. A missing file is not
// an error: the default configuration is returned instead.
func Load(path string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}
