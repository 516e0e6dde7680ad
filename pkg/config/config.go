package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/keyhaven/config"
	ConfigFileName    = "keyhaven.yml"
)

// Config holds all KeyHaven settings that are not secrets. The master
// passphrase (KEYHAVEN_MASTER_KEY) and DATABASE_URL are read from the
// environment only and never written to a file.
type Config struct {
	// BindAddress is the address the HTTP server listens on
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the HTTP server port
	Port int `yaml:"port" json:"port"`

	// AllowedEmailDomain restricts external-identity logins to one domain
	AllowedEmailDomain string `yaml:"allowed_email_domain" json:"allowed_email_domain"`

	// SessionTokenTTLHours is the lifetime of issued session tokens
	SessionTokenTTLHours int `yaml:"session_token_ttl_hours" json:"session_token_ttl_hours"`

	// WebhookURL is the chat webhook notifications are posted to
	WebhookURL string `yaml:"webhook_url" json:"webhook_url"`

	// NotifyTimeoutSeconds bounds each outbound notification call
	NotifyTimeoutSeconds int `yaml:"notify_timeout_seconds" json:"notify_timeout_seconds"`

	// APIListLimitMax is the maximum number of results for listing requests
	APIListLimitMax int `yaml:"api_list_limit_max" json:"api_list_limit_max"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

func newDefault() *Config {
	return &Config{
		BindAddress:          "0.0.0.0",
		Port:                 8000,
		AllowedEmailDomain:   "",
		SessionTokenTTLHours: 168,
		WebhookURL:           "",
		NotifyTimeoutSeconds: 10,
		APIListLimitMax:      1000,
		sources:              make(map[string]string),
	}
}

func attributeNames() []string {
	return []string{
		"bind_address", "port", "allowed_email_domain",
		"session_token_ttl_hours", "webhook_url",
		"notify_timeout_seconds", "api_list_limit_max",
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("KEYHAVEN_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func (c *Config) applyFileConfig(file *Config) {
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if file.AllowedEmailDomain != "" {
		c.AllowedEmailDomain = file.AllowedEmailDomain
		c.sources["allowed_email_domain"] = "file"
	}
	if file.SessionTokenTTLHours != 0 {
		c.SessionTokenTTLHours = file.SessionTokenTTLHours
		c.sources["session_token_ttl_hours"] = "file"
	}
	if file.WebhookURL != "" {
		c.WebhookURL = file.WebhookURL
		c.sources["webhook_url"] = "file"
	}
	if file.NotifyTimeoutSeconds != 0 {
		c.NotifyTimeoutSeconds = file.NotifyTimeoutSeconds
		c.sources["notify_timeout_seconds"] = "file"
	}
	if file.APIListLimitMax != 0 {
		c.APIListLimitMax = file.APIListLimitMax
		c.sources["api_list_limit_max"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("KEYHAVEN_BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("KEYHAVEN_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
	if val := os.Getenv("KEYHAVEN_ALLOWED_EMAIL_DOMAIN"); val != "" {
		c.AllowedEmailDomain = val
		c.sources["allowed_email_domain"] = "environment"
	}
	if val := os.Getenv("KEYHAVEN_SESSION_TOKEN_TTL_HOURS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.SessionTokenTTLHours = i
			c.sources["session_token_ttl_hours"] = "environment"
		}
	}
	if val := os.Getenv("KEYHAVEN_WEBHOOK_URL"); val != "" {
		c.WebhookURL = val
		c.sources["webhook_url"] = "environment"
	}
	if val := os.Getenv("KEYHAVEN_NOTIFY_TIMEOUT_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.NotifyTimeoutSeconds = i
			c.sources["notify_timeout_seconds"] = "environment"
		}
	}
	if val := os.Getenv("KEYHAVEN_API_LIST_LIMIT_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.APIListLimitMax = i
			c.sources["api_list_limit_max"] = "environment"
		}
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// SessionTokenTTL returns the session token TTL as a duration
func (c *Config) SessionTokenTTL() time.Duration {
	return time.Duration(c.SessionTokenTTLHours) * time.Hour
}

// NotifyTimeout returns the outbound notification timeout as a duration
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.NotifyTimeoutSeconds) * time.Second
}

// Addr returns the host:port the server binds to
func (c *Config) Addr() string {
	return c.BindAddress + ":" + strconv.Itoa(c.Port)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.SessionTokenTTLHours < 1 {
		return fmt.Errorf("session_token_ttl_hours must be positive")
	}
	if c.NotifyTimeoutSeconds < 1 {
		return fmt.Errorf("notify_timeout_seconds must be positive")
	}
	if c.WebhookURL != "" && !strings.HasPrefix(c.WebhookURL, "https://") && !strings.HasPrefix(c.WebhookURL, "http://") {
		return fmt.Errorf("invalid webhook_url: %s", c.WebhookURL)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
		{Name: "allowed_email_domain", Value: c.AllowedEmailDomain, Source: c.Source("allowed_email_domain")},
		{Name: "session_token_ttl_hours", Value: strconv.Itoa(c.SessionTokenTTLHours), Source: c.Source("session_token_ttl_hours")},
		{Name: "webhook_url", Value: c.WebhookURL, Source: c.Source("webhook_url")},
		{Name: "notify_timeout_seconds", Value: strconv.Itoa(c.NotifyTimeoutSeconds), Source: c.Source("notify_timeout_seconds")},
		{Name: "api_list_limit_max", Value: strconv.Itoa(c.APIListLimitMax), Source: c.Source("api_list_limit_max")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
