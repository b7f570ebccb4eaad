package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bassista/go_persist/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config is the validated runtime configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Misc    MiscConfig
}

type ServerConfig struct {
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutDownTimeout    time.Duration
	RequestTimeout     time.Duration
	CORSAllowedOrigins string
}

// StorageConfig selects and configures the durable area backend.
type StorageConfig struct {
	Backend        string
	FilePath       string
	QuotaBytes     int64
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisNamespace string
	RedisTTL       time.Duration
	SQLitePath     string
}

type MiscConfig struct {
	LogLevel string
	GinMode  string
}

// LoadConfig reads an optional .env file, then config.yaml from confPaths
// (defaults to ./config), then GO_PERSIST_* environment variables.
// Environment variables like GO_PERSIST_SERVER_PORT override server.port.
func LoadConfig(confPaths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.WithComponent("config").Debugf("no .env file loaded: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(confPaths) == 0 {
		confPaths = []string{"./config"}
	}
	for _, p := range confPaths {
		v.AddConfigPath(p)
	}
	setDefaults(v)

	v.SetEnvPrefix("GO_PERSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
		logger.WithComponent("config").Info("No config file found, using defaults and env vars")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               v.GetInt("server.port"),
			ReadTimeout:        v.GetDuration("server.read_timeout"),
			WriteTimeout:       v.GetDuration("server.write_timeout"),
			IdleTimeout:        v.GetDuration("server.idle_timeout"),
			ShutDownTimeout:    v.GetDuration("server.shutdown_timeout"),
			RequestTimeout:     v.GetDuration("server.request_timeout"),
			CORSAllowedOrigins: v.GetString("server.cors_allowed_origins"),
		},
		Storage: StorageConfig{
			Backend:        strings.ToLower(v.GetString("storage.backend")),
			FilePath:       v.GetString("storage.file_path"),
			QuotaBytes:     v.GetInt64("storage.quota_bytes"),
			RedisAddr:      v.GetString("storage.redis_addr"),
			RedisPassword:  v.GetString("storage.redis_password"),
			RedisDB:        v.GetInt("storage.redis_db"),
			RedisNamespace: v.GetString("storage.redis_namespace"),
			RedisTTL:       v.GetDuration("storage.redis_ttl"),
			SQLitePath:     v.GetString("storage.sqlite_path"),
		},
		Misc: MiscConfig{
			LogLevel: v.GetString("misc.log_level"),
			GinMode:  v.GetString("misc.gin_mode"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.request_timeout", 2*time.Second)
	v.SetDefault("server.cors_allowed_origins", "*")

	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.file_path", "./config/data/storage.json")
	// 5 MiB, the usual per-origin budget of browser local storage.
	v.SetDefault("storage.quota_bytes", 5*1024*1024)
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_namespace", "go_persist")
	v.SetDefault("storage.sqlite_path", "./config/data/storage.db")

	v.SetDefault("misc.log_level", "info")
	v.SetDefault("misc.gin_mode", "release")
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return errors.New("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return errors.New("server write timeout must be positive")
	}
	if c.Server.IdleTimeout <= 0 {
		return errors.New("server idle timeout must be positive")
	}
	if c.Server.ShutDownTimeout <= 0 {
		return errors.New("server shutdown timeout must be positive")
	}
	if c.Server.RequestTimeout < 0 {
		return errors.New("server request timeout cannot be negative")
	}
	return c.Storage.validate()
}

func (s *StorageConfig) validate() error {
	if s.QuotaBytes < 0 {
		return fmt.Errorf("storage quota cannot be negative: %d", s.QuotaBytes)
	}
	switch s.Backend {
	case BackendMemory:
	case BackendFile:
		if s.FilePath == "" {
			return errors.New("storage file path is required for the file backend")
		}
	case BackendRedis:
		if s.RedisAddr == "" {
			return errors.New("redis address is required for the redis backend")
		}
		if s.RedisTTL < 0 {
			return errors.New("redis ttl cannot be negative")
		}
	case BackendSQLite:
		if s.SQLitePath == "" {
			return errors.New("sqlite path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %q (supported: %s, %s, %s, %s)",
			s.Backend, BackendMemory, BackendFile, BackendRedis, BackendSQLite)
	}
	return nil
}
