package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel       string `toml:"log_level"`
	LogsPath       string `toml:"logs_path"`
	LogToStdout    bool   `toml:"log_to_stdout"`
	LogFormatJSON  bool   `toml:"log_format_json"`
	LogsMaxBackups int    `toml:"logs_max_backups"`
	LogsMaxAgeDays int    `toml:"logs_max_age_days"`
	SentryEnabled  bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// redis, used for rate limiting
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	AssessmentRateLimitPerMin int      `toml:"assessment_rate_limit_per_min"`
	MaxRequestBodyBytes       int64    `toml:"max_request_body_bytes"`
	AllowedOrigins            []string `toml:"allowed_origins"`

	// charts
	ChartCacheSizeMB    int `toml:"chart_cache_size_mb"`
	ChartCacheExpireMin int `toml:"chart_cache_expire_min"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the section for env with
// defaults applied to unset fields.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return t.pick(env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return t.pick(env)
}

func (t *Toml) pick(env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}
	cfg.setDefaults()
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.AssessmentRateLimitPerMin == 0 {
		c.AssessmentRateLimitPerMin = 60
	}
	if c.MaxRequestBodyBytes == 0 {
		c.MaxRequestBodyBytes = 1 << 20
	}
	if c.ChartCacheSizeMB == 0 {
		c.ChartCacheSizeMB = 128
	}
	if c.ChartCacheExpireMin == 0 {
		c.ChartCacheExpireMin = 60
	}
}

func (c *Config) validate() error {
	switch {
	case c.Port < 0 || c.Port > 65535:
		return fmt.Errorf("invalid port: %d", c.Port)
	case c.AssessmentRateLimitPerMin < 0:
		return fmt.Errorf("invalid assessment rate limit: %d", c.AssessmentRateLimitPerMin)
	case c.ChartCacheSizeMB < 0:
		return fmt.Errorf("invalid chart cache size: %d", c.ChartCacheSizeMB)
	}
	return nil
}
