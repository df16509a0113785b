package domain

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default base URLs for the three services. A config file or a --base-url
// flag overrides these per invocation.
const (
	DefaultElasticBaseURL = "https://elasticsearch.internal:9200"
	DefaultJiraBaseURL    = "https://jira.internal"
	DefaultHubSpotBaseURL = "https://api.hubapi.com"
)

// Config holds optional per-service settings loaded from a YAML file.
// Every field is optional; anything absent falls back to the built-in
// default. Credentials never appear here - they come from the environment
// or an interactive prompt.
type Config struct {
	Services ServicesConfig `yaml:"services"`
}

// ServicesConfig groups the per-service sections.
type ServicesConfig struct {
	Elastic *ServiceConfig `yaml:"elastic,omitempty"`
	Jira    *ServiceConfig `yaml:"jira,omitempty"`
	HubSpot *ServiceConfig `yaml:"hubspot,omitempty"`
}

// ServiceConfig defines configuration for a single service.
type ServiceConfig struct {
	BaseURL string `yaml:"base_url"`
}

// LoadConfig reads and validates configuration from a YAML file.
// Returns an error if the file is missing, has invalid syntax, or fails
// validation.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	// Parse YAML
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid YAML syntax in configuration file: %w", err)
	}

	// Validate the configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// Validate checks the configuration for correctness.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Services.Elastic != nil {
		if err := c.Services.Elastic.Validate("elastic"); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if c.Services.Jira != nil {
		if err := c.Services.Jira.Validate("jira"); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if c.Services.HubSpot != nil {
		if err := c.Services.HubSpot.Validate("hubspot"); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// Validate validates a single service configuration.
func (sc *ServiceConfig) Validate(serviceName string) error {
	var errs []string

	// Check base URL is specified
	if sc.BaseURL == "" {
		errs = append(errs, fmt.Sprintf("%s base_url is required", serviceName))
	} else {
		// Validate URL format
		parsedURL, err := url.Parse(sc.BaseURL)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s base_url is invalid: %v", serviceName, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errs = append(errs, fmt.Sprintf("%s base_url must use http or https scheme", serviceName))
		} else if parsedURL.Host == "" {
			errs = append(errs, fmt.Sprintf("%s base_url must include a host", serviceName))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}

	return nil
}

// EffectiveBaseURL returns the base URL to use for a service: the flag
// override when non-empty, else the config file value when present, else the
// built-in default. The returned URL never ends with a slash.
func EffectiveBaseURL(override string, service *ServiceConfig, fallback string) string {
	base := fallback
	if service != nil && service.BaseURL != "" {
		base = service.BaseURL
	}
	if override != "" {
		base = override
	}
	return strings.TrimRight(base, "/")
}
