package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Download DownloadConfig `mapstructure:"download" yaml:"download"`
	Resolver ResolverConfig `mapstructure:"resolver" yaml:"resolver"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`

	Port string `mapstructure:"port" yaml:"port"`
}

type DownloadConfig struct {
	// Dir is used when no folder was picked yet (no stored preference).
	Dir        string        `mapstructure:"dir" yaml:"dir"`
	Workers    int           `mapstructure:"workers" yaml:"workers"`
	MaxWorkers int           `mapstructure:"max_workers" yaml:"max_workers"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type ResolverConfig struct {
	Runtime string        `mapstructure:"runtime" yaml:"runtime"`
	Dir     string        `mapstructure:"dir" yaml:"dir"`
	Script  string        `mapstructure:"script" yaml:"script"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// Cache keeps resolved URLs in the store so a code is looked up once
	Cache bool `mapstructure:"cache" yaml:"cache"`
}

type LogConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	Level         string `mapstructure:"level" yaml:"level"`
	IncludeStdout bool   `mapstructure:"include_stdout" yaml:"include_stdout"`
}

type StoreConfig struct {
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
}

const (
	DefaultWorkers    = 4
	DefaultMaxWorkers = 10
	DefaultTimeout    = 300 * time.Second
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("download.dir", "")
	v.SetDefault("download.workers", DefaultWorkers)
	v.SetDefault("download.max_workers", DefaultMaxWorkers)
	v.SetDefault("download.timeout", DefaultTimeout)
	v.SetDefault("resolver.runtime", "node")
	v.SetDefault("resolver.dir", "./cs2-sharecode-cli")
	v.SetDefault("resolver.script", "dist/index.js")
	v.SetDefault("resolver.timeout", 60*time.Second)
	v.SetDefault("resolver.cache", true)
	v.SetDefault("log.path", "godemo.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.include_stdout", true)
	v.SetDefault("store.sqlite_path", "godemo.db")
}

// Load reads the yaml config at path. An empty path looks for config.yaml in
// the working directory and /config, and falls back to defaults when neither
// exists. An explicit path that does not exist is an error.
func Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	} else {
		for _, candidate := range []string{"config.yaml", "/config/config.yaml"} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// Support Environment Variables
	v.SetEnvPrefix("GODEMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	_ = cfg.validate()
	return &cfg
}

func (c *Config) validate() error {
	if c.Download.MaxWorkers <= 0 {
		c.Download.MaxWorkers = DefaultMaxWorkers
	}

	if c.Download.Workers <= 0 {
		c.Download.Workers = DefaultWorkers
	}

	if c.Download.Workers > c.Download.MaxWorkers {
		c.Download.Workers = c.Download.MaxWorkers
	}

	if c.Download.Timeout <= 0 {
		c.Download.Timeout = DefaultTimeout
	}

	if c.Resolver.Runtime == "" {
		return errors.New("resolver.runtime is required")
	}

	if c.Store.SQLitePath == "" {
		return errors.New("store.sqlite_path is required")
	}

	return nil
}
