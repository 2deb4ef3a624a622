// Package config loads service settings from defaults, an optional file and
// WARDLEY_* environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/wardleyscope/core/internal/analysis"
	"go.uber.org/zap/zapcore"
)

const EnvPrefix = "WARDLEY"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	CORSOrigin      string        `mapstructure:"cors_origin"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// Requests per second allowed per client address; 0 disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

type AnalysisConfig struct {
	Timeout    time.Duration       `mapstructure:"timeout"`
	Thresholds analysis.Thresholds `mapstructure:"thresholds"`
}

// DatabaseConfig selects the store. An empty URL keeps maps in memory.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig enables the analysis cache when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)

	v.SetDefault("analysis.timeout", 10*time.Second)
	th := analysis.DefaultThresholds()
	v.SetDefault("analysis.thresholds.genesis_limit", th.GenesisLimit)
	v.SetDefault("analysis.thresholds.custom_limit", th.CustomLimit)
	v.SetDefault("analysis.thresholds.product_limit", th.ProductLimit)
	v.SetDefault("analysis.thresholds.low_value_limit", th.LowValueLimit)
	v.SetDefault("analysis.thresholds.medium_value_limit", th.MediumValueLimit)
	v.SetDefault("analysis.thresholds.strategic_value", th.StrategicValue)
	v.SetDefault("analysis.thresholds.strategic_evolution", th.StrategicEvolution)
	v.SetDefault("analysis.thresholds.cluster_value", th.ClusterValue)
	v.SetDefault("analysis.thresholds.high_value", th.HighValue)
	v.SetDefault("analysis.thresholds.bottleneck_report", th.BottleneckReport)
	v.SetDefault("analysis.thresholds.bottleneck_rule", th.BottleneckRule)
	v.SetDefault("analysis.thresholds.dependency_degree", th.DependencyDegree)
	v.SetDefault("analysis.thresholds.top_n", th.TopN)
	v.SetDefault("analysis.thresholds.damping", th.Damping)
	v.SetDefault("analysis.thresholds.max_iterations", th.MaxIterations)
	v.SetDefault("analysis.thresholds.tolerance", th.Tolerance)

	v.SetDefault("database.url", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 10*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration. path may be empty, in which case only defaults
// and the environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port %d out of range", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("invalid config: server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return fmt.Errorf("invalid config: server.rate_burst must be at least 1 when rate limiting")
	}
	if c.Analysis.Timeout < 0 {
		return fmt.Errorf("invalid config: analysis.timeout must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid config: log.level: %w", err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid config: log.format %q must be json or console", c.Log.Format)
	}

	th := c.Analysis.Thresholds
	if !(th.GenesisLimit <= th.CustomLimit && th.CustomLimit <= th.ProductLimit) {
		return fmt.Errorf("invalid config: evolution limits must be ascending")
	}
	if th.LowValueLimit > th.MediumValueLimit {
		return fmt.Errorf("invalid config: value limits must be ascending")
	}
	if th.TopN < 0 {
		return fmt.Errorf("invalid config: top_n %d must not be negative", th.TopN)
	}
	if th.DependencyDegree < 0 {
		return fmt.Errorf("invalid config: dependency_degree %d must not be negative", th.DependencyDegree)
	}
	if th.MaxIterations < 0 {
		return fmt.Errorf("invalid config: max_iterations %d must not be negative", th.MaxIterations)
	}
	if th.Tolerance <= 0 {
		return fmt.Errorf("invalid config: tolerance %v must be positive", th.Tolerance)
	}
	if th.Damping <= 0 || th.Damping >= 1 {
		return fmt.Errorf("invalid config: damping %v must be in (0,1)", th.Damping)
	}

	return nil
}
