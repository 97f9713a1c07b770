package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/weberc2/myfs/pkg/layout"
	. "github.com/weberc2/myfs/pkg/types"
)

const (
	envVarPrefix = "MYFS"
	appName      = "myfs"

	logFormatText = "text"
	logFormatJSON = "json"
)

type Config struct {
	Device        string `envconfig:"DEVICE"         yaml:"device"`
	Capacity      Byte   `envconfig:"CAPACITY"       yaml:"capacity"`
	CacheCapacity int    `envconfig:"CACHE_CAPACITY" yaml:"cacheCapacity"`
	LogLevel      string `envconfig:"LOG_LEVEL"      yaml:"logLevel"`
	LogFormat     string `envconfig:"LOG_FORMAT"     yaml:"logFormat"`
	Addr          string `envconfig:"ADDR"           yaml:"addr"`
	Bucket        string `envconfig:"BUCKET"         yaml:"bucket"`
	Prefix        string `envconfig:"PREFIX"         yaml:"prefix"`
}

func DefaultConfig() Config {
	return Config{
		Device:    appName + ".img",
		Capacity:  1024 * 1024,
		LogLevel:  "info",
		LogFormat: logFormatText,
		Addr:      "127.0.0.1:8080",
		Prefix:    appName,
	}
}

// DefaultConfigFile is `$MYFS_CONFIG_FILE` or else
// `~/.config/myfs.yaml`.
func DefaultConfigFile() string {
	if configFile := os.Getenv(envVarPrefix + "_CONFIG_FILE"); configFile != "" {
		return configFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName+".yaml")
}

// LoadConfig layers the YAML file (if present) and then the environment
// over the defaults.
func LoadConfig(configFile string) (*Config, error) {
	c := DefaultConfig()
	if configFile != "" {
		data, err := ioutil.ReadFile(configFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
			return nil, fmt.Errorf("unmarshaling config file: %w", err)
		}
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if y, e := func() (string, string) {
		if c.Device == "" {
			return "device", "DEVICE"
		}
		if c.LogLevel == "" {
			return "logLevel", "LOG_LEVEL"
		}
		if c.LogFormat == "" {
			return "logFormat", "LOG_FORMAT"
		}
		return "", ""
	}(); y != "" {
		return fmt.Errorf(
			"missing required configuration: %s / %s_%s",
			y,
			envVarPrefix,
			e,
		)
	}

	if _, err := layout.NewGeometry(c.Capacity); err != nil {
		return fmt.Errorf("validating configuration: capacity: %w", err)
	}
	if c.CacheCapacity < 0 {
		return fmt.Errorf(
			"validating configuration: negative cacheCapacity `%d`",
			c.CacheCapacity,
		)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("validating configuration: logLevel: %w", err)
	}
	if c.LogFormat != logFormatText && c.LogFormat != logFormatJSON {
		return fmt.Errorf(
			"validating configuration: logFormat `%s` is neither `%s` nor `%s`",
			c.LogFormat,
			logFormatText,
			logFormatJSON,
		)
	}
	return nil
}

// ValidateImage checks the settings the image commands need on top of
// Validate.
func (c *Config) ValidateImage() error {
	if c.Bucket == "" {
		return fmt.Errorf(
			"missing required configuration: bucket / %s_BUCKET",
			envVarPrefix,
		)
	}
	return nil
}

func (c *Config) Logger() (*log.Logger, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	logger := log.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	if c.LogFormat == logFormatJSON {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
