// internal/config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Engine() EngineConfig
	Simulate() SimulateConfig

	// Simulate setters, driven by CLI flags rather than the config file.
	SetSimulateDocumentPath(string)
	SetSimulateScenarioPath(string)
	SetSimulateStressWorkers(int)
}

// Config is the concrete configuration backed by viper.
type Config struct {
	LoggerCfg   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	EngineCfg   EngineConfig   `mapstructure:"engine" yaml:"engine"`
	SimulateCfg SimulateConfig `mapstructure:"simulate" yaml:"simulate"`
}

// -- Interface Method Implementations --

func (c *Config) Logger() LoggerConfig     { return c.LoggerCfg }
func (c *Config) Engine() EngineConfig     { return c.EngineCfg }
func (c *Config) Simulate() SimulateConfig { return c.SimulateCfg }

func (c *Config) SetSimulateDocumentPath(p string) { c.SimulateCfg.DocumentPath = p }
func (c *Config) SetSimulateScenarioPath(p string) { c.SimulateCfg.ScenarioPath = p }
func (c *Config) SetSimulateStressWorkers(n int)   { c.SimulateCfg.StressWorkers = n }

// LoggerConfig controls the global zap logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// EngineConfig configures the event engine.
type EngineConfig struct {
	// MaxListenersWarning logs a warning once a single (node, event) bucket
	// accumulates more than this many handlers. 0 disables the check.
	MaxListenersWarning int `mapstructure:"max_listeners_warning" yaml:"max_listeners_warning"`

	// DebugDispatch enables per-step debug logging in the simulate command.
	// Noisy; off by default.
	DebugDispatch bool `mapstructure:"debug_dispatch" yaml:"debug_dispatch"`
}

// SimulateConfig configures the simulate command.
type SimulateConfig struct {
	// DocumentPath is the HTML file the scenario runs against.
	DocumentPath string `mapstructure:"document_path" yaml:"document_path"`

	// ScenarioPath is the JSON scenario describing listeners, delegations
	// and the events to dispatch.
	ScenarioPath string `mapstructure:"scenario_path" yaml:"scenario_path"`

	// StressWorkers, when > 1, replays the scenario's steps concurrently
	// from that many goroutines.
	StressWorkers int `mapstructure:"stress_workers" yaml:"stress_workers"`
}

// SetDefaults initializes default values for every configuration parameter.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "lancet")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	v.SetDefault("engine.max_listeners_warning", 64)
	v.SetDefault("engine.debug_dispatch", false)

	v.SetDefault("simulate.document_path", "")
	v.SetDefault("simulate.scenario_path", "")
	v.SetDefault("simulate.stress_workers", 1)
}

// NewDefaultConfig builds a Config carrying only defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg := &Config{}
	// Unmarshal of pure defaults cannot fail.
	_ = v.Unmarshal(cfg)
	return cfg
}

// Load unmarshals the given viper instance into a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints the type system cannot express.
func (c *Config) Validate() error {
	switch c.LoggerCfg.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be 'console' or 'json', got %q", c.LoggerCfg.Format)
	}
	if c.EngineCfg.MaxListenersWarning < 0 {
		return fmt.Errorf("engine.max_listeners_warning must not be negative")
	}
	if c.SimulateCfg.StressWorkers < 1 {
		return fmt.Errorf("simulate.stress_workers must be a positive integer")
	}
	return nil
}
