// Package config defines the runtime configuration of the broker engine and
// loads it from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/broker-engine/pkg/constants"
	"github.com/iwvelando/broker-engine/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for the broker engine.
type Configuration struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging,omitempty"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output,omitempty"`
	Currency CurrencyConfig `mapstructure:"currency" yaml:"currency"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
}

// ServerConfig holds HTTP API options
type ServerConfig struct {
	Address         string        `mapstructure:"address" yaml:"address"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout" yaml:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout" yaml:"writeTimeout"`
	MaxBodyBytes    int64         `mapstructure:"maxBodyBytes" yaml:"maxBodyBytes"`
	RateLimit       int           `mapstructure:"rateLimit" yaml:"rateLimit"`             // requests per window, 0 disables
	RateLimitWindow time.Duration `mapstructure:"rateLimitWindow" yaml:"rateLimitWindow"` // refill window
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv
}

// CurrencyConfig controls currency conversion behaviour
type CurrencyConfig struct {
	// StrictCodes rejects unknown currency codes instead of pricing them as CAD.
	StrictCodes bool `mapstructure:"strictCodes" yaml:"strictCodes"`
}

// StorageConfig locates the quote journal. An empty DBPath disables it.
type StorageConfig struct {
	DBPath  string `mapstructure:"dbPath" yaml:"dbPath"`
	Migrate bool   `mapstructure:"migrate" yaml:"migrate"`
}

// CacheConfig controls response caching. An empty RedisURL selects the
// in-process cache.
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	RedisURL string        `mapstructure:"redisURL" yaml:"redisURL,omitempty"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.readTimeout", constants.DefaultReadTimeout)
	v.SetDefault("server.writeTimeout", constants.DefaultWriteTimeout)
	v.SetDefault("server.maxBodyBytes", constants.DefaultMaxBodyBytes)
	v.SetDefault("server.rateLimit", constants.DefaultRateLimit)
	v.SetDefault("server.rateLimitWindow", constants.DefaultRateLimitWindow)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("currency.strictCodes", false)
	v.SetDefault("storage.dbPath", constants.DefaultDBPath)
	v.SetDefault("storage.migrate", true)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.redisURL", "")
	v.SetDefault("cache.ttl", constants.DefaultCacheTTL)
	return v
}

// Default returns the configuration used when no file is given.
func Default() *Configuration {
	conf, err := decode(newViper())
	if err != nil {
		// Defaults are constants; failing to decode them is a programming error.
		panic(err)
	}
	return conf
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. An empty path yields the defaults with environment
// overrides applied.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// Validate rejects unusable values and returns warnings for suspicious ones.
func (c *Configuration) Validate() ([]string, error) {
	var warnings []string
	var errs []error

	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		errs = append(errs, err)
	}
	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address must not be empty"))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server timeouts must be positive"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.maxBodyBytes must be positive"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("server.rateLimit must not be negative"))
	}
	if c.Server.RateLimit > 0 && c.Server.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("server.rateLimitWindow must be positive when rate limiting"))
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache.ttl must be positive when caching"))
	}

	if c.Server.RateLimit == 0 {
		warnings = append(warnings, "rate limiting is disabled")
	}
	if c.Storage.DBPath == "" {
		warnings = append(warnings, "quote journal is disabled (storage.dbPath is empty)")
	}
	if !c.Currency.StrictCodes {
		warnings = append(warnings, "unknown currency codes will be priced as CAD")
	}

	return warnings, errors.Join(errs...)
}
