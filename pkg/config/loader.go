// Package config provides configuration loading and validation utilities.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultConfigDir = "./configs"

var envFiles = []string{".env.local", ".env"}

var defaults = map[string]any{
	"server.port":             ":8080",
	"server.webhook_path":     "/webhook",
	"server.read_timeout":     10 * time.Second,
	"server.write_timeout":    30 * time.Second,
	"server.shutdown_timeout": 15 * time.Second,

	"telegram.bot_token":   "",
	"telegram.api_url":     "https://api.telegram.org",
	"telegram.webhook_url": "",
	"telegram.timeout":     10 * time.Second,
	"telegram.offline":     false,

	"database.url":               "",
	"database.max_open_conns":    10,
	"database.max_idle_conns":    5,
	"database.conn_max_lifetime": 5 * time.Minute,
	"database.connect_timeout":   5 * time.Second,
	"database.auto_migrate":      true,

	"redis.enabled":        false,
	"redis.addr":           "localhost:6379",
	"redis.password":       "",
	"redis.db":             0,
	"redis.pool_size":      10,
	"redis.min_idle_conns": 1,
	"redis.pool_timeout":   4 * time.Second,
	"redis.idle_timeout":   5 * time.Minute,
	"redis.max_retries":    1,
	"redis.user_ttl":       time.Minute,

	"logger.level":        "info",
	"logger.format":       "json",
	"logger.file":         "",
	"logger.max_size_mb":  100,
	"logger.max_backups":  3,
	"logger.max_age_days": 28,
	"logger.compress":     false,

	"sentry.enabled":            false,
	"sentry.dsn":                "",
	"sentry.environment":        "",
	"sentry.traces_sample_rate": 0.0,
}

// Load reads configuration from ./configs/<APP_ENV>.yaml and environment variables, validates it, and returns the resulting Config.
func Load() (*Config, *viper.Viper, error) {
	for _, file := range envFiles {
		// env files are optional; values already in the environment win
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	return LoadFromDir(defaultConfigDir)
}

// LoadFromDir is Load without the dotenv step, reading YAML files from dir.
func LoadFromDir(dir string) (*Config, *viper.Viper, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	cfg.AppEnv = env

	return cfg, v, nil
}

// Watch re-decodes the configuration whenever the backing file changes and
// hands valid results to onChange. Invalid edits are reported through onError.
func Watch(v *viper.Viper, onChange func(*Config), onError func(error)) {
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		cfg, err := decode(v)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}

		if onChange != nil {
			onChange(cfg)
		}
	})
	v.WatchConfig()
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
