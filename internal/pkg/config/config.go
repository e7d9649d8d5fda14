package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Valkey     ValkeyConfig     `mapstructure:"valkey"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Log        LogConfig        `mapstructure:"log"`
	Conversion ConversionConfig `mapstructure:"conversion"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
	// BodyLimitMB caps request bodies, CSV uploads included.
	BodyLimitMB int `mapstructure:"body_limit_mb"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type ValkeyConfig struct {
	Addr    string `mapstructure:"addr"`
	Enabled bool   `mapstructure:"enabled"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ConversionConfig controls zone defaults and limits of the conversion core.
type ConversionConfig struct {
	// DefaultESMZone is used when a geographic point lies outside every ESM zone.
	DefaultESMZone string `mapstructure:"default_esm_zone"`
	// GridZone is assumed for grid-to-geographic requests that name no zone.
	GridZone string `mapstructure:"grid_zone"`
	// BatchZone is the ESM zone batch rows are read in unless a request names one.
	BatchZone       string `mapstructure:"batch_zone"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
	MaxBatchRows    int    `mapstructure:"max_batch_rows"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.body_limit_mb", 8)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.enabled", false)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "localhost:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("conversion.default_esm_zone", "Zone I")
	v.SetDefault("conversion.grid_zone", "Zone I")
	v.SetDefault("conversion.batch_zone", "Zone I")
	v.SetDefault("conversion.cache_ttl_seconds", 3600)
	v.SetDefault("conversion.max_batch_rows", 50000)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: GRIDCALC_CONVERSION_GRID_ZONE → conversion.grid_zone
	v.SetEnvPrefix("GRIDCALC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
// Zone codes are checked against the registries by the caller, since this
// package does not know them.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Server.BodyLimitMB <= 0 {
		errs = append(errs, "server.body_limit_mb must be positive")
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats is enabled")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when valkey is enabled")
	}
	if c.Telemetry.Enabled && c.Telemetry.OTLPAddr == "" {
		errs = append(errs, "telemetry.otlp_addr is required when telemetry is enabled")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}
	if c.Conversion.DefaultESMZone == "" {
		errs = append(errs, "conversion.default_esm_zone is required")
	}
	if c.Conversion.GridZone == "" {
		errs = append(errs, "conversion.grid_zone is required")
	}
	if c.Conversion.BatchZone == "" {
		errs = append(errs, "conversion.batch_zone is required")
	}
	if c.Conversion.CacheTTLSeconds < 0 {
		errs = append(errs, "conversion.cache_ttl_seconds must not be negative")
	}
	if c.Conversion.MaxBatchRows <= 0 {
		errs = append(errs, "conversion.max_batch_rows must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
