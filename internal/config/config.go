// Package config handles loading tasklab.toml configuration files and
// TASKLAB_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/amonks/tasklab/internal/paths"
	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// FileName is the project configuration file name.
const FileName = "tasklab.toml"

// Config represents the merged tasklab configuration.
type Config struct {
	Server Server `toml:"server"`
	Log    Log    `toml:"log"`
	Store  Store  `toml:"store"`
}

// Server contains RPC and web server settings.
type Server struct {
	// Port is the loopback port to listen on. Zero selects the default port.
	Port int `toml:"port"`
}

// Log contains logger settings.
type Log struct {
	// Level is a zap level name such as "debug" or "info".
	Level string `toml:"level"`

	// Format is "console" or "json".
	Format string `toml:"format"`
}

// Store contains task store settings.
type Store struct {
	// SeedTasks is how many demo tasks to load at startup.
	SeedTasks int `toml:"seed-tasks"`

	// SeedItems is how many catalog items to generate.
	SeedItems int `toml:"seed-items"`

	// LooseUpdates skips re-validating merged records on update.
	LooseUpdates bool `toml:"loose-updates"`
}

// envOverrides mirrors the settings that can be overridden from the environment.
// Fields whose variable is unset keep the value loaded from files.
type envOverrides struct {
	Port         int    `env:"TASKLAB_PORT"`
	LogLevel     string `env:"TASKLAB_LOG_LEVEL"`
	LogFormat    string `env:"TASKLAB_LOG_FORMAT"`
	SeedTasks    int    `env:"TASKLAB_SEED_TASKS"`
	SeedItems    int    `env:"TASKLAB_SEED_ITEMS"`
	LooseUpdates bool   `env:"TASKLAB_LOOSE_UPDATES"`
}

// Load loads configuration from the project directory, the global config file,
// and the environment. Project keys win over global keys; environment variables
// win over both. Returns an empty config if nothing is configured.
func Load(projectDir string) (*Config, error) {
	globalPath, err := paths.GlobalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(projectDir, FileName))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	if err := applyEnv(merged); err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// Validate rejects values no component can use.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Store.SeedTasks < 0 {
		return fmt.Errorf("seed-tasks must not be negative: %d", c.Store.SeedTasks)
	}
	if c.Store.SeedItems < 0 {
		return fmt.Errorf("seed-items must not be negative: %d", c.Store.SeedItems)
	}
	return nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: unknown key %s", path, undecoded[0])
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Server.Port = mergeValue(projectMeta.IsDefined("server", "port"), projectCfg.Server.Port, globalCfg.Server.Port)
	merged.Log.Level = mergeString(projectMeta.IsDefined("log", "level"), projectCfg.Log.Level, globalCfg.Log.Level)
	merged.Log.Format = mergeString(projectMeta.IsDefined("log", "format"), projectCfg.Log.Format, globalCfg.Log.Format)
	merged.Store.SeedTasks = mergeValue(projectMeta.IsDefined("store", "seed-tasks"), projectCfg.Store.SeedTasks, globalCfg.Store.SeedTasks)
	merged.Store.SeedItems = mergeValue(projectMeta.IsDefined("store", "seed-items"), projectCfg.Store.SeedItems, globalCfg.Store.SeedItems)
	merged.Store.LooseUpdates = mergeValue(projectMeta.IsDefined("store", "loose-updates"), projectCfg.Store.LooseUpdates, globalCfg.Store.LooseUpdates)

	return &merged
}

func mergeValue[T any](projectDefined bool, projectValue, globalValue T) T {
	if projectDefined {
		return projectValue
	}
	return globalValue
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	return strings.TrimSpace(mergeValue(projectDefined, projectValue, globalValue))
}

func applyEnv(cfg *Config) error {
	overrides := envOverrides{
		Port:         cfg.Server.Port,
		LogLevel:     cfg.Log.Level,
		LogFormat:    cfg.Log.Format,
		SeedTasks:    cfg.Store.SeedTasks,
		SeedItems:    cfg.Store.SeedItems,
		LooseUpdates: cfg.Store.LooseUpdates,
	}
	if err := ParseEnv(&overrides); err != nil {
		return err
	}

	cfg.Server.Port = overrides.Port
	cfg.Log.Level = strings.TrimSpace(overrides.LogLevel)
	cfg.Log.Format = strings.TrimSpace(overrides.LogFormat)
	cfg.Store.SeedTasks = overrides.SeedTasks
	cfg.Store.SeedItems = overrides.SeedItems
	cfg.Store.LooseUpdates = overrides.LooseUpdates
	return nil
}
