// Package config loads the application configuration for the demo server
// and CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. GOSERIES_SERVER_PORT.
const EnvPrefix = "GOSERIES"

// Config is the application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Agent  AgentConfig  `mapstructure:"agent"`
	Demo   DemoConfig   `mapstructure:"demo"`
}

// ServerConfig configures the web demo.
type ServerConfig struct {
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	MaxRequestBodySize int           `mapstructure:"max_request_body_size"` // MB
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"` // json or text
	Output    string `mapstructure:"output"` // stdout, stderr or file
	FilePath  string `mapstructure:"file_path"`
	AddSource bool   `mapstructure:"add_source"`
}

// AgentConfig points at the agent definition run by the demo.
type AgentConfig struct {
	ConfigPath string `mapstructure:"config_path"`
}

// DemoConfig tunes the rendered plots.
type DemoConfig struct {
	DefaultPlotValues int     `mapstructure:"default_plot_values"`
	PlotWidthIn       float64 `mapstructure:"plot_width_in"`
	PlotHeightIn      float64 `mapstructure:"plot_height_in"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7860)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.max_request_body_size", 32)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("agent.config_path", "configs/time_series_arima.yml")

	v.SetDefault("demo.default_plot_values", 100)
	v.SetDefault("demo.plot_width_in", 8.0)
	v.SetDefault("demo.plot_height_in", 4.0)
}

// Load reads configPath, or config.yaml from ./configs or the working
// directory when configPath is empty. A missing default file is not an
// error; defaults and environment overrides still apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxRequestBodySize <= 0 {
		return fmt.Errorf("server.max_request_body_size must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'text'", c.Log.Format)
	}
	switch c.Log.Output {
	case "stdout", "stderr":
	case "file":
		if c.Log.FilePath == "" {
			return fmt.Errorf("log.file_path is required when output is 'file'")
		}
	default:
		return fmt.Errorf("invalid log output: %s", c.Log.Output)
	}

	if c.Agent.ConfigPath == "" {
		return fmt.Errorf("agent.config_path is required")
	}

	if c.Demo.DefaultPlotValues <= 0 {
		return fmt.Errorf("demo.default_plot_values must be positive")
	}
	if c.Demo.PlotWidthIn <= 0 || c.Demo.PlotHeightIn <= 0 {
		return fmt.Errorf("demo plot size must be positive")
	}
	return nil
}

// ServerAddr returns host:port.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MaxRequestBodyBytes converts the configured body limit to bytes.
func (c *Config) MaxRequestBodyBytes() int {
	return c.Server.MaxRequestBodySize << 20
}
