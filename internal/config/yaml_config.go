package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the optional config.yaml file.
// Deployment-specific branding and notification policy that is easier to
// manage in a file than in env vars.
type YAMLConfig struct {
	Site          SiteConfig          `yaml:"site"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// SiteConfig overrides the service identity used in emails.
type SiteConfig struct {
	Title      string `yaml:"title"`
	SupportURL string `yaml:"support_url,omitempty"`
}

// NotificationsConfig overrides the email notification toggles.
type NotificationsConfig struct {
	LinkRequest  *bool `yaml:"link_request,omitempty"`
	LinkApproval *bool `yaml:"link_approval,omitempty"`
	Rating       *bool `yaml:"rating,omitempty"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Apply overlays the YAML settings onto the env-derived config.
func (y *YAMLConfig) Apply(cfg *Config) {
	if y == nil {
		return
	}
	if y.Site.Title != "" {
		cfg.SiteTitle = y.Site.Title
	}
	if y.Notifications.LinkRequest != nil {
		cfg.EmailNotifyOnLinkRequest = *y.Notifications.LinkRequest
	}
	if y.Notifications.LinkApproval != nil {
		cfg.EmailNotifyOnLinkApproval = *y.Notifications.LinkApproval
	}
	if y.Notifications.Rating != nil {
		cfg.EmailNotifyOnRating = *y.Notifications.Rating
	}
}
