package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"` // Listen address.
	Port int    `yaml:"port"` // Listen port.
}

// DatabaseConfig holds datastore connection settings.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`      // Full DSN; takes precedence over the parts below.
	Host     string `yaml:"host"`     // Database host.
	Port     int    `yaml:"port"`     // Database port.
	User     string `yaml:"user"`     // Database user.
	Password string `yaml:"password"` // Database password.
	Name     string `yaml:"name"`     // Database name.
}

// JWTConfig holds session token signing settings.
type JWTConfig struct {
	Secret      string `yaml:"secret"`       // Symmetric signing secret.
	ExpiryHours int    `yaml:"expiry_hours"` // Token lifetime in hours.
}

// RedisConfig holds optional Redis settings for login rate limiting.
type RedisConfig struct {
	Addr     string `yaml:"addr"`     // host:port; empty disables Redis.
	Password string `yaml:"password"` // Optional password.
	DB       int    `yaml:"db"`       // Logical database index.
}

// LogConfig holds logging output settings.
type LogConfig struct {
	Level      string `yaml:"level"`       // logrus level name.
	File       string `yaml:"file"`        // Log file path; empty logs to stderr.
	MaxSizeMB  int    `yaml:"max_size_mb"` // Rotation size threshold.
	MaxBackups int    `yaml:"max_backups"` // Rotated files to keep.
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Config is the process-wide configuration, built once at startup and
// threaded into components explicitly.
type Config struct {
	Server     ServerConfig   `yaml:"server"`
	Database   DatabaseConfig `yaml:"database"`
	JWT        JWTConfig      `yaml:"jwt"`
	Redis      RedisConfig    `yaml:"redis"`
	Log        LogConfig      `yaml:"log"`
	MediaDir   string         `yaml:"media_dir"`  // Directory for uploaded media files.
	Production bool           `yaml:"production"` // Controls the Secure cookie attribute.
}

// Expiry returns the configured session token lifetime.
func (c JWTConfig) Expiry() time.Duration {
	hours := c.ExpiryHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	host := c.Host
	port := c.Port
	if port <= 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// ResolveDSN returns the database DSN, assembling one from the individual
// connection parameters when no full DSN is configured.
func (c DatabaseConfig) ResolveDSN() string {
	if dsn := strings.TrimSpace(c.DSN); dsn != "" {
		return dsn
	}
	if strings.TrimSpace(c.Host) == "" {
		return ""
	}
	port := c.Port
	if port <= 0 {
		port = 5432
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", c.User, c.Password, c.Host, port, c.Name)
}

// Load reads the YAML config file at path and applies environment overrides.
// A missing file is not an error; environment variables alone can configure
// the process.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Port: 8080},
		JWT:    JWTConfig{ExpiryHours: 24},
		Log:    LogConfig{Level: "info", MaxSizeMB: 50, MaxBackups: 5, MaxAgeDays: 30},
	}

	if strings.TrimSpace(path) != "" {
		data, errRead := os.ReadFile(path)
		if errRead != nil && !os.IsNotExist(errRead) {
			return nil, fmt.Errorf("config: read %s: %w", path, errRead)
		}
		if errRead == nil {
			if errUnmarshal := yaml.Unmarshal(data, cfg); errUnmarshal != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, errUnmarshal)
			}
		}
	}

	applyEnvOverrides(cfg)

	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, fmt.Errorf("config: jwt secret is required (JWT_SECRET)")
	}
	if cfg.Database.ResolveDSN() == "" {
		return nil, fmt.Errorf("config: database connection is required (DATABASE_DSN or DB_HOST)")
	}
	if strings.TrimSpace(cfg.MediaDir) == "" {
		cfg.MediaDir = "data/media"
	}
	return cfg, nil
}

// applyEnvOverrides overlays environment variables onto the loaded config.
func applyEnvOverrides(cfg *Config) {
	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setString(&cfg.Database.DSN, "DATABASE_DSN")
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.File, "LOG_FILE")
	setString(&cfg.MediaDir, "MEDIA_DIR")

	if env, ok := os.LookupEnv("APP_ENV"); ok {
		cfg.Production = strings.EqualFold(strings.TrimSpace(env), "production")
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	n, errParse := strconv.Atoi(strings.TrimSpace(v))
	if errParse != nil {
		return
	}
	*dst = n
}
