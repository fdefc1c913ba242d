package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvironmentDesktop = "desktop"
	EnvironmentMemory  = "memory"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Data   DataConfig   `mapstructure:"data"`
	Backup BackupConfig `mapstructure:"backup"`
	Misc   MiscConfig   `mapstructure:"misc"`
}

type ServerConfig struct {
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	IdleTimeout        time.Duration `mapstructure:"idle_timeout"`
	ShutDownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
	// UIDir optionally serves a built web UI from this directory.
	UIDir string `mapstructure:"ui_dir"`
}

// DataConfig locates the per-user application-data directory.
// Dir is an explicit override; when empty the platform directory is used.
type DataConfig struct {
	Identifier    string        `mapstructure:"identifier" validate:"required,excludesall=/\\"`
	Dir           string        `mapstructure:"dir"`
	WatchEnabled  bool          `mapstructure:"watch_enabled"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
}

type BackupConfig struct {
	Product       string `mapstructure:"product" validate:"required"`
	DialogTitle   string `mapstructure:"dialog_title" validate:"required"`
	CancelMessage string `mapstructure:"cancel_message" validate:"required"`
}

type MiscConfig struct {
	Environment       string `mapstructure:"environment" validate:"oneof=desktop memory"`
	LogLevel          string `mapstructure:"log_level"`
	LogFormat         string `mapstructure:"log_format" validate:"omitempty,oneof=text json"`
	GinMode           string `mapstructure:"gin_mode" validate:"oneof=debug release test"`
	HoneybadgerAPIKey string `mapstructure:"honeybadger_api_key"`
	HoneybadgerEnv    string `mapstructure:"honeybadger_env"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 1420)
	v.SetDefault("server.read_timeout", 10*time.Second)
	// backup requests wait for the user, so no write deadline by default
	v.SetDefault("server.write_timeout", time.Duration(0))
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.request_timeout", 5*time.Second)
	v.SetDefault("server.cors_allowed_origins", "tauri://localhost,http://localhost:9002")
	v.SetDefault("server.ui_dir", "")

	v.SetDefault("data.identifier", "com.ziyyanmart.app")
	v.SetDefault("data.dir", "")
	v.SetDefault("data.watch_enabled", true)
	v.SetDefault("data.watch_debounce", 200*time.Millisecond)

	v.SetDefault("backup.product", "ziyyanmart")
	v.SetDefault("backup.dialog_title", "Simpan Backup Data")
	v.SetDefault("backup.cancel_message", "Proses penyimpanan backup dibatalkan.")

	v.SetDefault("misc.environment", EnvironmentDesktop)
	v.SetDefault("misc.log_level", "info")
	v.SetDefault("misc.log_format", "text")
	v.SetDefault("misc.gin_mode", "release")
	v.SetDefault("misc.honeybadger_api_key", "")
	v.SetDefault("misc.honeybadger_env", "")
}

// LoadConfig reads config.yaml from confDir (optional), an optional .env file in
// the same directory and ZIYYANMART_* environment variables, in increasing
// priority, then validates the result.
func LoadConfig(confDir string) (*Config, error) {
	if confDir == "" {
		confDir = "."
	}

	if err := godotenv.Load(filepath.Join(confDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(confDir)

	setDefaults(v)

	// ZIYYANMART_SERVER_PORT overrides server.port
	v.SetEnvPrefix("ZIYYANMART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Server.ReadTimeout <= 0 {
		return errors.New("server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout < 0 {
		return errors.New("server.write_timeout must not be negative")
	}
	if c.Server.IdleTimeout <= 0 {
		return errors.New("server.idle_timeout must be positive")
	}
	if c.Server.ShutDownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	if c.Server.RequestTimeout < 0 {
		return errors.New("server.request_timeout must not be negative")
	}

	if c.Data.Dir != "" && !filepath.IsAbs(c.Data.Dir) {
		return fmt.Errorf("data.dir must be an absolute path, got %q", c.Data.Dir)
	}
	if c.Data.WatchEnabled && c.Data.WatchDebounce <= 0 {
		return errors.New("data.watch_debounce must be positive when watching is enabled")
	}

	if c.Misc.Environment == EnvironmentMemory && c.Data.Dir == "" {
		return errors.New("data.dir is required for the memory environment")
	}
	return nil
}

// AllowedOrigins splits cors_allowed_origins on commas, trimming blanks.
func (s ServerConfig) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(s.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
