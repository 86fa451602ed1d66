package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/netanyamuni/incident-backend/pkg/errors"
)

// DefaultEndpoint is the production NetanyaMuni incidents endpoint.
const DefaultEndpoint = "https://www.netanya.muni.il/_layouts/15/NetanyaMuni/incidents.ashx?method=CreateNewIncident"

// Environment names
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	SharePoint SharePointConfig
	Log        LogConfig
	Debug      bool `mapstructure:"debug"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// SharePointConfig holds settings for the outbound municipality endpoint
type SharePointConfig struct {
	EndpointURL      string        `mapstructure:"endpoint_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRetries       int           `mapstructure:"max_retries"`
	BackoffFactor    float64       `mapstructure:"backoff_factor"`
	EstablishSession bool          `mapstructure:"establish_session"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment and config files with
// development defaults applied.
func Load(serviceName string) (*Config, error) {
	v := viper.New()
	setDefaults(v, serviceName)

	v.SetEnvPrefix("NETANYA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(serviceName)
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/netanya")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadWithValidation loads configuration and validates it for the current
// environment. Use this in service main() for fail-fast behavior.
func LoadWithValidation(serviceName string) (*Config, error) {
	cfg, err := Load(serviceName)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration invariants. Violations are
// ConfigurationErrors and the process is expected to exit.
func (c *Config) Validate() error {
	switch c.Server.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		return errors.Configuration(fmt.Sprintf(
			"invalid environment %q, must be one of: %s, %s, %s",
			c.Server.Environment, EnvDevelopment, EnvStaging, EnvProduction))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.Configuration(fmt.Sprintf(
			"invalid port %d, must be between 1 and 65535", c.Server.Port))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warning", "warn", "error":
	default:
		return errors.Configuration(fmt.Sprintf("invalid log level %q", c.Log.Level))
	}

	// Real submissions in production must go over TLS. Mock mode never
	// talks to the endpoint, so the rule only applies when debug is off.
	if c.Server.Environment == EnvProduction && !c.Debug {
		if !strings.HasPrefix(c.SharePoint.EndpointURL, "https://") {
			return errors.Configuration(
				"production mode requires an https:// NETANYA_SHAREPOINT_ENDPOINT_URL")
		}
	}

	if c.SharePoint.Timeout <= 0 {
		return errors.Configuration("sharepoint timeout must be positive")
	}
	if c.SharePoint.MaxRetries < 0 {
		return errors.Configuration("sharepoint max_retries cannot be negative")
	}

	return nil
}

func setDefaults(v *viper.Viper, serviceName string) {
	// Server defaults
	v.SetDefault("server.port", getDefaultPort(serviceName))
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.environment", EnvDevelopment)

	// SharePoint defaults
	v.SetDefault("sharepoint.endpoint_url", DefaultEndpoint)
	v.SetDefault("sharepoint.timeout", 30*time.Second)
	v.SetDefault("sharepoint.max_retries", 3)
	v.SetDefault("sharepoint.backoff_factor", 1.0)
	v.SetDefault("sharepoint.establish_session", false)

	// Logging defaults
	v.SetDefault("log.level", "info")

	// Debug mode selects the in-process mock submitter
	v.SetDefault("debug", true)
}

func getDefaultPort(serviceName string) int {
	ports := map[string]int{
		"incident-service": 8000,
		"mock-sharepoint":  8080,
	}
	if port, ok := ports[serviceName]; ok {
		return port
	}
	return 8000
}
