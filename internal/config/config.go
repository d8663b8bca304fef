package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Port             string
	DatabaseDriver   string
	DatabasePath     string
	JWTSecret        string
	AppName          string
	CORSOrigins      []string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	ScrapeCacheTTL   time.Duration
	ScrapeTimeout    time.Duration
	LogLevel         string
	LogFormat        string
	LogFile          string
	LogRetentionDays int
}

var defaults = map[string]any{
	"port":               "8080",
	"database_driver":    "sqlite",
	"database_path":      "tracker.db",
	"jwt_secret":         "your-secret-key",
	"app_name":           "F95 France",
	"cors_origins":       "",
	"redis_addr":         "",
	"redis_password":     "",
	"redis_db":           0,
	"scrape_cache_ttl":   "6h",
	"scrape_timeout":     "15s",
	"log_level":          "info",
	"log_format":         "json",
	"log_file":           "",
	"log_retention_days": 90,
}

// Load returns the application configuration from the environment,
// reading CONFIG_FILE first when it is set
func Load() *Config {
	cfg, err := LoadFile("")
	if err != nil {
		return FromViper(newViper())
	}
	return cfg
}

// LoadFile reads a config file (any format viper understands) and overlays the environment
func LoadFile(path string) (*Config, error) {
	v := newViper()
	if path == "" {
		path = v.GetString("config_file")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return FromViper(v), nil
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Port:             v.GetString("port"),
		DatabaseDriver:   strings.ToLower(v.GetString("database_driver")),
		DatabasePath:     v.GetString("database_path"),
		JWTSecret:        v.GetString("jwt_secret"),
		AppName:          v.GetString("app_name"),
		CORSOrigins:      splitList(v.GetString("cors_origins")),
		RedisAddr:        v.GetString("redis_addr"),
		RedisPassword:    v.GetString("redis_password"),
		RedisDB:          v.GetInt("redis_db"),
		ScrapeCacheTTL:   v.GetDuration("scrape_cache_ttl"),
		ScrapeTimeout:    v.GetDuration("scrape_timeout"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
		LogFile:          v.GetString("log_file"),
		LogRetentionDays: v.GetInt("log_retention_days"),
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("config_file", "CONFIG_FILE")
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
