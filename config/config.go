// Package config loads the tracker configuration from defaults, an optional
// config file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes all environment variables, e.g. PTK_REFRESH_INTERVAL.
const EnvPrefix = "PTK"

// Config holds all configuration for the application.
type Config struct {
	State   StateConfig   `mapstructure:"state"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	Index   IndexConfig   `mapstructure:"index"`
	Quote   QuoteConfig   `mapstructure:"quote"`
	EODHD   EODHDConfig   `mapstructure:"eodhd"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Display DisplayConfig `mapstructure:"display"`
	Log     LogConfig     `mapstructure:"log"`
}

type StateConfig struct {
	File string `mapstructure:"file"`
}

type RefreshConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type IndexConfig struct {
	Symbol string `mapstructure:"symbol"` // empty disables the reference index
}

type QuoteConfig struct {
	Provider string            `mapstructure:"provider"` // yahoo, eodhd or static
	Timeout  time.Duration     `mapstructure:"timeout"`  // 0 disables
	Static   map[string]string `mapstructure:"static"`   // symbol to price, for the static provider
}

type EODHDConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Exchange string `mapstructure:"exchange"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"` // empty disables the quote cache
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"` // empty disables publishing
	Topic   string   `mapstructure:"topic"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type DisplayConfig struct {
	Currency string `mapstructure:"currency"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// Providers lists the supported quote providers.
var Providers = []string{"yahoo", "eodhd", "static"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("state.file", "portfolio.json")
	v.SetDefault("refresh.interval", 5*time.Minute)
	v.SetDefault("index.symbol", "^BSESN")
	v.SetDefault("quote.provider", "yahoo")
	v.SetDefault("quote.timeout", 10*time.Second)
	v.SetDefault("quote.static", map[string]string{})
	v.SetDefault("eodhd.api_key", "")
	v.SetDefault("eodhd.exchange", "US")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", time.Minute)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "portfolio.valuations")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("display.currency", "USD")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// keys that can be set from the environment.
var envKeys = []string{
	"state.file", "refresh.interval", "index.symbol",
	"quote.provider", "quote.timeout",
	"eodhd.api_key", "eodhd.exchange",
	"redis.addr", "redis.password", "redis.db", "redis.ttl",
	"kafka.brokers", "kafka.topic",
	"http.addr", "display.currency",
	"log.level", "log.format",
}

// Load reads the configuration. file is an optional config file (yaml, json,
// toml...), it is an error if it is set but cannot be read.
//
// Environment variables override the file: PTK_ followed by the upper case
// key with dots replaced by underscores (PTK_REDIS_ADDR). A .env file in the
// working directory is loaded into the environment first, if present.
// EODHD_API_KEY is also accepted for eodhd.api_key.
func Load(file string) (*Config, error) {
	// an absent .env is the normal case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cannot load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config file %q: %w", file, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("cannot bind env var for key %s: %w", key, err)
		}
	}
	if err := v.BindEnv("eodhd.api_key", EnvPrefix+"_EODHD_API_KEY", "EODHD_API_KEY"); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	// a single env var holds a comma separated list
	if len(cfg.Kafka.Brokers) == 1 && strings.Contains(cfg.Kafka.Brokers[0], ",") {
		cfg.Kafka.Brokers = strings.Split(cfg.Kafka.Brokers[0], ",")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	var errs error
	if c.State.File == "" {
		errs = errors.Join(errs, errors.New("state.file cannot be empty"))
	}
	if c.Refresh.Interval <= 0 {
		errs = errors.Join(errs, fmt.Errorf("refresh.interval must be positive, got %v", c.Refresh.Interval))
	}
	if c.Quote.Timeout < 0 {
		errs = errors.Join(errs, fmt.Errorf("quote.timeout cannot be negative, got %v", c.Quote.Timeout))
	}
	known := false
	for _, p := range Providers {
		known = known || p == c.Quote.Provider
	}
	if !known {
		errs = errors.Join(errs, fmt.Errorf("unknown quote.provider %q, want one of %v", c.Quote.Provider, Providers))
	}
	if c.Kafka.Topic == "" && len(c.Kafka.Brokers) > 0 {
		errs = errors.Join(errs, errors.New("kafka.topic cannot be empty when kafka.brokers is set"))
	}
	return errs
}
