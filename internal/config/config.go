package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	NewsAPI NewsAPIConfig `mapstructure:"newsapi"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Log     LogConfig     `mapstructure:"log"`
	Browse  BrowseConfig  `mapstructure:"browse"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	Host            string `mapstructure:"host"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// NewsAPIConfig holds upstream news API configuration
type NewsAPIConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Country  string `mapstructure:"country"`
	PageSize int    `mapstructure:"page_size"`
	Timeout  int    `mapstructure:"timeout"`
}

type CORSConfig struct {
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BrowseConfig holds configuration of the terminal browser
type BrowseConfig struct {
	BackendURL string `mapstructure:"backend_url"`
	Store      string `mapstructure:"store"`
	PrefsPath  string `mapstructure:"prefs_path"`
	Profile    string `mapstructure:"profile"`
	Freshness  int    `mapstructure:"freshness"`
	DebounceMS int    `mapstructure:"debounce_ms"`
	PageSize   int    `mapstructure:"page_size"`
	Timeout    int    `mapstructure:"timeout"`
	LogFile    string `mapstructure:"log_file"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

var ErrMissingAPIKey = errors.New("newsapi.api_key is not set (NEWS_API_KEY)")

// Load reads config.yaml from path (or the current directory when path is
// empty) with environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// Validate checks the settings the proxy cannot start without.
func (c *Config) Validate() error {
	if c.NewsAPI.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	return nil
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeout) * time.Second
}

func (c *Config) FreshnessWindow() time.Duration {
	return time.Duration(c.Browse.Freshness) * time.Second
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Browse.DebounceMS) * time.Millisecond
}

func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Browse.Timeout) * time.Second
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5001)
	v.SetDefault("server.host", "")
	v.SetDefault("server.shutdown_timeout", 10)

	v.SetDefault("newsapi.base_url", "https://newsapi.org")
	v.SetDefault("newsapi.api_key", "")
	v.SetDefault("newsapi.country", "us")
	v.SetDefault("newsapi.page_size", 20)
	v.SetDefault("newsapi.timeout", 10)

	v.SetDefault("cors.allowed_origin", "http://localhost:3000")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("browse.backend_url", "http://localhost:5001")
	v.SetDefault("browse.store", StoreFile)
	v.SetDefault("browse.prefs_path", "")
	v.SetDefault("browse.profile", "default")
	v.SetDefault("browse.freshness", 300)
	v.SetDefault("browse.debounce_ms", 300)
	v.SetDefault("browse.page_size", 20)
	v.SetDefault("browse.timeout", 15)
	v.SetDefault("browse.log_file", "")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
}

// bindEnv keeps the variable names used by existing deployments.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"newsapi.api_key":     {"NEWSAPI_API_KEY", "NEWS_API_KEY"},
		"server.port":         {"SERVER_PORT", "PORT"},
		"cors.allowed_origin": {"CORS_ALLOWED_ORIGIN", "ALLOWED_ORIGIN"},
		"browse.backend_url":  {"BROWSE_BACKEND_URL", "BACKEND_URL"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("binding env for %s: %w", key, err)
		}
	}
	return nil
}
