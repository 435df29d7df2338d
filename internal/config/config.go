// Package config loads maplint configuration. Tool settings come from
// .maplint/config.json (viper: file, MAPLINT_* env); the per-repo rule
// policy lives in maplint.toml next to the profiles it governs.
package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the tool-level configuration.
type Config struct {
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	// Workers bounds per-declaration parallelism in a pass.
	Workers int `json:"workers" mapstructure:"workers"`

	Baseline BaselineConfig `json:"baseline" mapstructure:"baseline"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// BaselineConfig locates the accepted-findings store.
type BaselineConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// LoggingConfig selects log output.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		RepoRoot: ".",
		Workers:  4,
		Baseline: BaselineConfig{
			Path: filepath.Join(".maplint", "baseline.db"),
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load reads .maplint/config.json under repoRoot, layered under
// MAPLINT_* environment variables. A missing file yields defaults.
func Load(repoRoot string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("repoRoot", repoRoot)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("baseline.path", def.Baseline.Path)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.level", def.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, ".maplint"))

	v.SetEnvPrefix("MAPLINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &cfg, nil
}
